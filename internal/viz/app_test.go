package viz

import (
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/balloonar/internal/balloon"
	"github.com/san-kum/balloonar/internal/loudness"
	"github.com/san-kum/balloonar/internal/media"
	"github.com/san-kum/balloonar/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func refuseAll() media.Acquirer {
	return media.AcquirerFunc(func(context.Context, media.Constraints) (*media.Stream, error) {
		return nil, io.ErrUnexpectedEOF
	})
}

func grantAll() media.Acquirer {
	return media.AcquirerFunc(func(context.Context, media.Constraints) (*media.Stream, error) {
		return &media.Stream{Device: "mic", Audio: true}, nil
	})
}

func newTestModel(t *testing.T, acq media.Acquirer, open func(*media.Stream) (loudness.Analyser, io.Closer, error)) Model {
	t.Helper()
	cfg := sim.DefaultConfig()
	cfg.Seed = 1
	cfg.Placement.Separation = 0
	s, err := sim.NewSession(cfg)
	require.NoError(t, err)
	return NewModel(Options{Session: s, Acquirer: acq, OpenAudio: open})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func start(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, phaseStarting, m.phase)
	m, _ = update(t, m, cmd())
	return m
}

func tick(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd := update(t, m, TickMsg(time.Now()))
	assert.NotNil(t, cmd)
	return m
}

func TestIdleShowsStartPrompt(t *testing.T) {
	m := newTestModel(t, grantAll(), nil)
	m = tick(t, m)

	assert.Equal(t, sim.Idle, m.session.State())
	assert.Contains(t, m.View(), "Press Enter to start")
}

func TestStartWithoutMediaUsesSky(t *testing.T) {
	m := newTestModel(t, refuseAll(), nil)
	m = start(t, m)

	assert.Equal(t, phaseRunning, m.phase)
	assert.Equal(t, sim.Running, m.session.State())
	assert.Equal(t, "sky", m.theme.Name)
	assert.Contains(t, m.View(), "Camera unavailable")
}

func TestTapSpawnsOnNextTick(t *testing.T) {
	m := newTestModel(t, refuseAll(), nil)
	m = start(t, m)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m = tick(t, m)
	assert.Equal(t, 1, m.last.Live)

	m, _ = update(t, m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = tick(t, m)
	assert.Equal(t, 2, m.last.Live)
	assert.Contains(t, m.View(), "2/15")
}

func TestLoudnessSpawnsWithAudio(t *testing.T) {
	open := func(*media.Stream) (loudness.Analyser, io.Closer, error) {
		return loudness.NewScript([]float64{90, 90, 10}, false), nil, nil
	}
	m := newTestModel(t, grantAll(), open)
	m = start(t, m)
	assert.Equal(t, "live", m.theme.Name)

	for i := 0; i < 3; i++ {
		m = tick(t, m)
	}
	assert.Equal(t, 2, m.last.Live)
	assert.Equal(t, []float64{90, 90, 10}, m.loudness)
}

func TestEnterTwiceStartsOnce(t *testing.T) {
	m := newTestModel(t, refuseAll(), nil)
	m = start(t, m)

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestResizeUpdatesViewport(t *testing.T) {
	m := newTestModel(t, refuseAll(), nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 120-panelWidth-4, m.canvas.Width)
	assert.Equal(t, 38, m.canvas.Height)
	w, h := m.canvas.PixelSize()
	assert.InDelta(t, float64(w)/float64(h), m.camera.Aspect, 1e-9)
}

func TestBalloonsAreDrawn(t *testing.T) {
	m := newTestModel(t, refuseAll(), nil)
	m.session.Registry().Spawn(balloon.Params{Position: balloon.Vec3{Z: -2}, Scale: 1, Speed: 0.01})

	m.draw()
	w, h := m.canvas.PixelSize()
	assert.True(t, m.canvas.Lit(w/2, h/2), "balloon centre should be lit")

	lit := 0
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if m.canvas.Lit(x, y) {
				lit++
			}
		}
	}
	assert.Greater(t, lit, 10)
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, refuseAll(), nil)
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
