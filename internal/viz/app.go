package viz

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/balloonar/internal/balloon"
	"github.com/san-kum/balloonar/internal/media"
	"github.com/san-kum/balloonar/internal/sim"
	"github.com/san-kum/balloonar/internal/startup"
	"github.com/san-kum/balloonar/internal/status"
	"github.com/sirupsen/logrus"
)

const (
	panelWidth      = 34
	historyCapacity = 120
)

type phase int

const (
	phaseIdle phase = iota
	phaseStarting
	phaseRunning
)

type TickMsg time.Time

type startedMsg startup.Outcome

// Options wires the host to a session and to the media collaborators used
// when the user starts.
type Options struct {
	Session   *sim.Session
	FPS       int
	Acquirer  media.Acquirer
	Chain     []media.Constraints
	OpenAudio startup.AudioOpener
}

type Model struct {
	opts     Options
	session  *sim.Session
	board    *status.Board
	canvas   *Canvas
	camera   *Camera
	theme    Theme
	phase    phase
	closer   io.Closer
	ctx      context.Context
	cancel   context.CancelFunc
	start    time.Time
	frame    int
	last     sim.TickReport
	loudness []float64
	width    int
	height   int
	showHelp bool
}

func NewModel(opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Chain == nil {
		opts.Chain = media.DefaultChain()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		opts:     opts,
		session:  opts.Session,
		board:    status.NewBoard(),
		canvas:   NewCanvas(40, 20),
		camera:   NewCamera(),
		theme:    ThemeSky,
		ctx:      ctx,
		cancel:   cancel,
		start:    time.Now(),
		loudness: make([]float64, 0, historyCapacity),
		width:    80,
		height:   24,
	}
	m.resize(m.width, m.height)
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Close()
			return m, tea.Quit
		case "enter":
			return m.begin()
		case " ":
			m.tap(time.Now())
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if m.phase == phaseIdle {
				return m.begin()
			}
			m.tap(time.Now())
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case startedMsg:
		o := startup.Outcome(msg)
		startup.Apply(o, m.session, m.board, time.Now())
		m.theme = ThemeFor(o.Backdrop())
		m.closer = o.Closer
		m.phase = phaseRunning
	case TickMsg:
		now := time.Time(msg)
		m.last = m.session.Tick(sim.FrameTime{Index: m.frame, Seconds: now.Sub(m.start).Seconds(), Now: now})
		m.frame++
		if m.last.Heard {
			m.loudness = append(m.loudness, m.last.Loudness)
			if len(m.loudness) > historyCapacity {
				m.loudness = m.loudness[1:]
			}
		}
		return m, m.tick()
	}
	return m, nil
}

// begin leaves the start screen and acquires media off the frame loop.
func (m Model) begin() (tea.Model, tea.Cmd) {
	if m.phase != phaseIdle {
		return m, nil
	}
	m.phase = phaseStarting
	ctx, acq, chain, open := m.ctx, m.opts.Acquirer, m.opts.Chain, m.opts.OpenAudio
	return m, func() tea.Msg {
		return startedMsg(startup.Acquire(ctx, acq, chain, open))
	}
}

func (m *Model) tap(now time.Time) {
	if m.phase != phaseRunning {
		m.board.Info("Press Enter to start", now)
		return
	}
	if err := m.session.Tap(); err != nil {
		logrus.WithError(err).Debug("Tap ignored")
	}
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	cw := w - panelWidth - 4
	if cw < 10 {
		cw = 10
	}
	ch := h - 2
	if ch < 5 {
		ch = 5
	}
	m.canvas.Resize(cw, ch)
	m.camera.SetViewport(m.canvas.PixelSize())
}

// Close cancels a pending acquisition and stops audio capture.
func (m Model) Close() {
	m.cancel()
	if m.closer != nil {
		if err := m.closer.Close(); err != nil {
			logrus.WithError(err).Warn("Closing audio failed")
		}
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	w, h := m.canvas.PixelSize()
	for _, b := range m.session.Balloons() {
		drawBalloon(m.canvas, m.camera, b, w, h)
	}
}

func drawBalloon(c *Canvas, cam *Camera, b *balloon.Balloon, w, h int) {
	x, y, depth, ok := cam.Project(b.Position, w, h)
	if !ok {
		return
	}
	c.FillCircle(x, y, int(cam.ScreenRadius(b.Radius(), depth, h)+0.5))

	top := b.Position.Sub(balloon.Vec3{Y: b.Radius()})
	bottom := top.Sub(balloon.Vec3{Y: b.StringLength()})
	x0, y0, _, ok0 := cam.Project(top, w, h)
	x1, y1, _, ok1 := cam.Project(bottom, w, h)
	if ok0 && ok1 {
		c.DrawLine(x0, y0, x1, y1)
	}
}

func (m Model) View() string {
	if m.phase == phaseIdle {
		prompt := lipgloss.JoinVertical(lipgloss.Center,
			Title.Render("balloonar"),
			"",
			StartButton.Render("Press Enter to start"),
			"",
			KeyHint.Render("make some noise and balloons float up"),
		)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, prompt)
	}

	m.draw()
	canvasStyle := lipgloss.NewStyle().Foreground(m.theme.Balloon).Padding(1, 1)
	if m.theme.Background != "" {
		canvasStyle = canvasStyle.Background(m.theme.Background)
	}
	view := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.canvas.String()), m.panel())

	if m.showHelp {
		return helpText + "\n" + view
	}
	return view
}

func (m Model) panel() string {
	cfg := m.session.Config()
	var s strings.Builder

	s.WriteString(Title.Render("balloonar") + "\n\n")
	if m.phase == phaseStarting {
		s.WriteString(AnimatedSpinner(m.frame) + " starting...\n\n")
	}

	s.WriteString(MetricLabel.Render("Backdrop") + MetricValue.Render(m.theme.Name) + "\n")
	mic := "off (tap mode)"
	if m.session.AudioAvailable() {
		mic = "on"
	}
	s.WriteString(MetricLabel.Render("Mic") + MetricValue.Render(mic) + "\n")
	s.WriteString(MetricLabel.Render("Balloons") + MetricValue.Render(fmt.Sprintf("%d/%d", m.last.Live, cfg.MaxBalloons)) + "\n")
	s.WriteString(CapacityBar(m.last.Live, cfg.MaxBalloons, panelWidth-6) + "\n\n")

	if m.session.AudioAvailable() {
		s.WriteString(MetricLabel.Render("Loudness") + MetricValue.Render(fmt.Sprintf("%.0f", m.last.Loudness)) +
			Subtle.Render(fmt.Sprintf(" > %.0f", cfg.Threshold)) + "\n")
		s.WriteString(LoudnessSparkline(m.loudness, cfg.Threshold, panelWidth-6) + "\n\n")
	}

	for _, b := range m.board.Active(time.Now()) {
		s.WriteString(BannerStyle(m.theme, b.Level).Render(b.Text) + "\n")
	}

	s.WriteString("\n" + KeyHint.Render("space/click: balloon  ?: help  q: quit"))
	return GlassPanel.Width(panelWidth).Render(s.String())
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Enter    - Start                    ║
║  Space    - Add a balloon            ║
║  Click    - Add a balloon            ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Run starts the terminal host and blocks until the user quits.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if m, ok := final.(Model); ok {
		m.Close()
	}
	return err
}
