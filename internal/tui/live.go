// Package tui prints a plain ANSI front view of a running session, used by
// headless runs that want to watch the balloons without a full TUI.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/balloonar/internal/balloon"
	"github.com/san-kum/balloonar/internal/sim"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// View bounds in world units. The vertical range covers the spawn height
// up to the retirement bound.
const (
	viewLeft   = -5.0
	viewRight  = 5.0
	viewBottom = -3.5
	viewTop    = 6.5
)

// LiveRenderer is a session observer that redraws every few frames.
type LiveRenderer struct {
	out    io.Writer
	every  int
	clear  bool
	canvas [][]rune
}

// NewLiveRenderer draws to out on every Nth tick. clear controls whether
// each frame starts with an ANSI clear.
func NewLiveRenderer(out io.Writer, every int, clear bool) *LiveRenderer {
	if every < 1 {
		every = 1
	}
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &LiveRenderer{out: out, every: every, clear: clear, canvas: canvas}
}

func (r *LiveRenderer) OnTick(rep sim.TickReport, live []*balloon.Balloon) {
	if rep.Tick%r.every != 0 {
		return
	}

	r.wipe()
	for _, b := range live {
		r.drawBalloon(b)
	}
	r.render(rep)
}

func (r *LiveRenderer) wipe() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

func toCell(p balloon.Vec3) (int, int) {
	x := int((p.X - viewLeft) / (viewRight - viewLeft) * float64(width-1))
	y := int((viewTop - p.Y) / (viewTop - viewBottom) * float64(height-1))
	return x, y
}

// depthGlyph picks a bigger glyph for nearer balloons.
func depthGlyph(z float64) rune {
	switch {
	case z > -2:
		return 'O'
	case z > -3.5:
		return 'o'
	default:
		return '°'
	}
}

func (r *LiveRenderer) drawBalloon(b *balloon.Balloon) {
	x, y := toCell(b.Position)
	_, tail := toCell(b.Position.Sub(balloon.Vec3{Y: b.Radius() + b.StringLength()}))
	for sy := y + 1; sy <= tail; sy++ {
		r.set(x, sy, '|')
	}
	r.set(x, y, depthGlyph(b.Position.Z))
}

func (r *LiveRenderer) render(rep sim.TickReport) {
	var b strings.Builder
	if r.clear {
		b.WriteString(clearScreen)
	}
	fmt.Fprintf(&b, "  frame %d  t=%.2fs  live=%d", rep.Tick, rep.Time, rep.Live)
	if rep.Heard {
		fmt.Fprintf(&b, "  loudness=%.0f", rep.Loudness)
	}
	b.WriteString("\n  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
