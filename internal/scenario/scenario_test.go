package scenario

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/balloonar/internal/balloon"
	"github.com/san-kum/balloonar/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loudScenario = `
name: loud-then-taps
preset: party
seed: 4
config:
  placement:
    separation: 0
steps:
  - name: loud
    frames: 5
    loudness: [10, 45, 50, 20, 70]
    expect:
      live: [0, 1, 2, 2, 3]
      spawned: 3
  - name: taps
    frames: 3
    taps: [0, 0, 2]
    expect:
      final_live: 6
      max_live: 6
`

func TestParseAndRun(t *testing.T) {
	sc, err := Parse([]byte(loudScenario))
	require.NoError(t, err)
	assert.Equal(t, "loud-then-taps", sc.Name)
	require.Len(t, sc.Steps, 2)

	results, err := Run(context.Background(), sc)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, []int{0, 1, 2, 2, 3}, results[0].Live)
	assert.Equal(t, []int{5, 5, 6}, results[1].Live)
	assert.Equal(t, 3, results[1].Spawned)
}

func TestConfigOverridesPreset(t *testing.T) {
	sc, err := Parse([]byte(`
name: calm-ish
preset: classic
seed: 12
config:
  session:
    threshold: 10
steps:
  - frames: 1
`))
	require.NoError(t, err)

	cfg, err := sc.SessionConfig()
	require.NoError(t, err)
	assert.Equal(t, 10.0, cfg.Threshold)
	assert.Equal(t, 20, cfg.MaxBalloons)
	assert.Equal(t, int64(12), cfg.Seed)
	assert.Equal(t, 0.3, cfg.Placement.MaxScale)
}

func TestRunReportsFailedExpectations(t *testing.T) {
	sc, err := Parse([]byte(`
name: wrong
seed: 1
steps:
  - frames: 2
    loudness: [100, 100]
    expect:
      final_live: 0
      dropped: 3
`))
	require.NoError(t, err)

	results, err := Run(context.Background(), sc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExpectation))
	assert.Len(t, results, 1)
	assert.Contains(t, err.Error(), "final live")
	assert.Contains(t, err.Error(), "dropped")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no name", "steps: [{frames: 1}]"},
		{"no steps", "name: x"},
		{"zero frames", "name: x\nsteps: [{frames: 0}]"},
		{"tap out of range", "name: x\nsteps: [{frames: 2, taps: [2]}]"},
		{"live length", "name: x\nsteps: [{frames: 2, expect: {live: [0]}}]"},
		{"unknown preset", "name: x\npreset: disco\nsteps: [{frames: 1}]"},
		{"bad override", "name: x\nconfig: {session: {max_balloons: 0}}\nsteps: [{frames: 1}]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(loudScenario), 0644))

	sc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(4), sc.Seed)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCancelledRun(t *testing.T) {
	sc, err := Parse([]byte(loudScenario))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, sc)
	assert.ErrorIs(t, err, context.Canceled)
}

type countingObserver struct{ ticks int }

func (c *countingObserver) OnTick(sim.TickReport, []*balloon.Balloon) { c.ticks++ }

func TestRunNotifiesObservers(t *testing.T) {
	sc, err := Parse([]byte(loudScenario))
	require.NoError(t, err)

	obs := &countingObserver{}
	_, err = Run(context.Background(), sc, obs)
	require.NoError(t, err)
	assert.Equal(t, 8, obs.ticks)
}

func TestSweepThreshold(t *testing.T) {
	base := sim.DefaultConfig()
	base.Seed = 3

	results, err := RunSweep(context.Background(), &Sweep{
		Base:   base,
		Param:  "threshold",
		Min:    0,
		Max:    255,
		Steps:  3,
		Frames: 300,
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, 127.5, results[1].Value)
	assert.Greater(t, results[0].Spawned, 0)
	assert.Zero(t, results[2].Spawned)
	assert.GreaterOrEqual(t, results[0].Spawned, results[1].Spawned)
}

func TestSweepRejectsUnknownParam(t *testing.T) {
	_, err := RunSweep(context.Background(), &Sweep{Base: sim.DefaultConfig(), Param: "gravity", Steps: 1, Frames: 1})
	assert.Error(t, err)
}
