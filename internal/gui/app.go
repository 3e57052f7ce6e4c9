package gui

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/balloonar/internal/media"
	"github.com/san-kum/balloonar/internal/sim"
	"github.com/san-kum/balloonar/internal/startup"
	"github.com/san-kum/balloonar/internal/status"
	"github.com/sirupsen/logrus"
)

var (
	ColSky     = rl.NewColor(135, 206, 235, 255) // #87CEEB
	ColLive    = rl.NewColor(24, 24, 28, 255)
	ColBalloon = rl.NewColor(255, 0, 0, 255)
	ColString  = rl.NewColor(51, 51, 51, 255)
	ColButton  = rl.NewColor(0, 123, 255, 255)
	ColText    = rl.NewColor(240, 240, 240, 255)
	ColTextDim = rl.NewColor(90, 90, 90, 255)
	ColSuccess = rl.NewColor(40, 167, 69, 230)
	ColError   = rl.NewColor(220, 53, 69, 230)
	ColInfo    = rl.NewColor(23, 162, 184, 230)
)

const fontPath = "/usr/share/fonts/liberation/LiberationSans-Regular.ttf"

// Options mirrors the terminal host's wiring.
type Options struct {
	Session   *sim.Session
	FPS       int
	Width     int
	Height    int
	Acquirer  media.Acquirer
	Chain     []media.Constraints
	OpenAudio startup.AudioOpener
}

type App struct {
	opts     Options
	Session  *sim.Session
	Board    *status.Board
	Camera   rl.Camera3D
	Font     rl.Font
	Backdrop startup.Backdrop
	Started  bool
	Pending  bool

	outcome chan startup.Outcome
	mu      sync.Mutex
	closed  bool
	closer  io.Closer
	ctx     context.Context
	cancel  context.CancelFunc
	begin   time.Time
	frame   int
	last    sim.TickReport
}

func initWindow(w, h, fps int) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(w), int32(h), "balloonar")
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

// loadFont falls back to the built-in font when the system font is missing.
func loadFont() rl.Font {
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	if font.Texture.ID == 0 {
		logrus.WithField("path", fontPath).Warn("Font not found, using default")
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func NewApp(opts Options) *App {
	ctx, cancel := context.WithCancel(context.Background())
	if opts.Chain == nil {
		opts.Chain = media.DefaultChain()
	}
	return &App{
		opts:    opts,
		Session: opts.Session,
		Board:   status.NewBoard(),
		Camera: rl.NewCamera3D(
			rl.NewVector3(0, 0, 5),
			rl.NewVector3(0, 0, 0),
			rl.NewVector3(0, 1, 0),
			60.0,
			rl.CameraPerspective,
		),
		Font:     loadFont(),
		Backdrop: startup.Sky,
		outcome:  make(chan startup.Outcome, 1),
		ctx:      ctx,
		cancel:   cancel,
		begin:    time.Now(),
	}
}

// Run opens the window and blocks until it is closed.
func Run(opts Options) {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 720
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	initWindow(opts.Width, opts.Height, opts.FPS)
	defer rl.CloseWindow()

	app := NewApp(opts)
	defer app.Close()
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			return
		}
		a.Update()
		a.Draw()
	}
}

// Close cancels a pending acquisition and stops audio capture, including
// capture opened by an acquisition that has not been applied yet.
func (a *App) Close() {
	a.cancel()

	a.mu.Lock()
	a.closed = true
	select {
	case o := <-a.outcome:
		closeAudio(o.Closer)
	default:
	}
	a.mu.Unlock()

	closeAudio(a.closer)
	a.closer = nil
}

func closeAudio(c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logrus.WithError(err).Warn("Closing audio failed")
	}
}

// deliver hands an outcome to the frame loop, or releases its audio when
// the app has already closed.
func (a *App) deliver(o startup.Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		closeAudio(o.Closer)
		return
	}
	a.outcome <- o
}

func (a *App) startButton() rl.Rectangle {
	w, h := float32(340), float32(72)
	sw, sh := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	return rl.NewRectangle((sw-w)/2, (sh-h)/2, w, h)
}

// requestStart acquires media on a goroutine. The outcome is applied on
// the frame loop by poll.
func (a *App) requestStart() {
	if a.Started || a.Pending {
		return
	}
	a.Pending = true
	go func() {
		a.deliver(startup.Acquire(a.ctx, a.opts.Acquirer, a.opts.Chain, a.opts.OpenAudio))
	}()
}

func (a *App) poll(now time.Time) {
	select {
	case o := <-a.outcome:
		startup.Apply(o, a.Session, a.Board, now)
		a.Backdrop = o.Backdrop()
		a.closer = o.Closer
		a.Pending = false
		a.Started = true
	default:
	}
}

func (a *App) Update() {
	now := time.Now()
	a.poll(now)

	clicked := rl.IsMouseButtonPressed(rl.MouseLeftButton)
	if !a.Started {
		if rl.IsKeyPressed(rl.KeyEnter) ||
			(clicked && rl.CheckCollisionPointRec(rl.GetMousePosition(), a.startButton())) {
			a.requestStart()
		}
	} else if clicked || rl.IsKeyPressed(rl.KeySpace) {
		if err := a.Session.Tap(); err != nil {
			logrus.WithError(err).Debug("Tap ignored")
		}
	}

	a.last = a.Session.Tick(sim.FrameTime{Index: a.frame, Seconds: now.Sub(a.begin).Seconds(), Now: now})
	a.frame++
}

func (a *App) Draw() {
	rl.BeginDrawing()
	if a.Backdrop == startup.Live {
		rl.ClearBackground(ColLive)
	} else {
		rl.ClearBackground(ColSky)
	}

	rl.BeginMode3D(a.Camera)
	a.drawBalloons()
	rl.EndMode3D()

	if a.Started {
		a.DrawHUD()
	} else {
		a.drawStart()
	}
	a.drawBanners(time.Now())

	rl.EndDrawing()
}

func (a *App) drawStart() {
	rec := a.startButton()
	rl.DrawRectangleRounded(rec, 0.3, 8, ColButton)
	label := "Tap to start"
	if a.Pending {
		label = "Starting..."
	}
	size := rl.MeasureTextEx(a.Font, label, 28, 1)
	a.drawText(label, int(rec.X+(rec.Width-size.X)/2), int(rec.Y+(rec.Height-size.Y)/2), 28, ColText)
}

func (a *App) DrawHUD() {
	cfg := a.Session.Config()
	a.drawText(fmt.Sprintf("%d/%d", a.last.Live, cfg.MaxBalloons), 20, 20, 20, ColText)

	h := rl.GetScreenHeight()
	if a.Session.AudioAvailable() {
		a.drawLevel(a.last.Loudness, cfg.Threshold, 20, h-40)
	} else {
		a.drawText("MIC OFF: click to add balloons", 20, h-40, 16, ColTextDim)
	}
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), rl.GetScreenWidth()-90, h-40, 14, ColTextDim)
}

// drawLevel is a loudness meter with a tick at the threshold.
func (a *App) drawLevel(v, threshold float64, x, y int) {
	const w, h = 200, 12
	rl.DrawRectangle(int32(x), int32(y), w, h, rl.NewColor(0, 0, 0, 80))
	col := ColTextDim
	if v > threshold {
		col = ColSuccess
	}
	rl.DrawRectangle(int32(x), int32(y), int32(v/255*w), h, col)
	tx := int32(x) + int32(threshold/255*w)
	rl.DrawLine(tx, int32(y)-2, tx, int32(y)+h+2, ColText)
}

func (a *App) drawBanners(now time.Time) {
	y := 60
	for _, b := range a.Board.Active(now) {
		size := rl.MeasureTextEx(a.Font, b.Text, 20, 1)
		x := (rl.GetScreenWidth() - int(size.X)) / 2
		rl.DrawRectangleRounded(rl.NewRectangle(float32(x-16), float32(y-8), size.X+32, size.Y+16), 0.4, 6, bannerColor(b.Level))
		a.drawText(b.Text, x, y, 20, ColText)
		y += int(size.Y) + 24
	}
}

func bannerColor(l status.Level) rl.Color {
	switch l {
	case status.Success:
		return ColSuccess
	case status.Error:
		return ColError
	default:
		return ColInfo
	}
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
