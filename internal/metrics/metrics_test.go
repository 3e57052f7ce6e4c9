package metrics

import (
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/san-kum/balloonar/internal/balloon"
	"github.com/san-kum/balloonar/internal/sim"
)

func spawned(n int) []balloon.ID {
	return make([]balloon.ID, n)
}

func TestSpawnRate(t *testing.T) {
	m := NewSpawnRate()
	if m.Value() != 0 {
		t.Errorf("expected 0 before observations, got %f", m.Value())
	}

	m.Observe(sim.TickReport{Spawned: spawned(1)})
	m.Observe(sim.TickReport{})
	m.Observe(sim.TickReport{Spawned: spawned(2)})
	m.Observe(sim.TickReport{})

	if m.Value() != 0.75 {
		t.Errorf("expected 0.75, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected 0 after reset, got %f", m.Value())
	}
}

func TestDropRate(t *testing.T) {
	m := NewDropRate()
	m.Observe(sim.TickReport{Attempts: 1, Dropped: 1})
	m.Observe(sim.TickReport{Attempts: 3})

	if m.Value() != 0.25 {
		t.Errorf("expected 0.25, got %f", m.Value())
	}
}

func TestSaturation(t *testing.T) {
	m := NewSaturation(2)
	for _, live := range []int{0, 1, 2, 2, 1} {
		m.Observe(sim.TickReport{Live: live})
	}

	if math.Abs(m.Value()-0.4) > 1e-12 {
		t.Errorf("expected 0.4, got %f", m.Value())
	}
}

func TestMeanLoudnessIgnoresUnheard(t *testing.T) {
	m := NewMeanLoudness()
	m.Observe(sim.TickReport{Heard: true, Loudness: 20})
	m.Observe(sim.TickReport{Heard: false, Loudness: 200})
	m.Observe(sim.TickReport{Heard: true, Loudness: 60})

	if m.Value() != 40 {
		t.Errorf("expected mean 40, got %f", m.Value())
	}
	if m.Peak() != 60 {
		t.Errorf("expected peak 60, got %f", m.Peak())
	}
}

func TestDefaultNames(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Default(15) {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %q", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 metrics, got %d", len(seen))
	}
}

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	live := []*balloon.Balloon{{}, {}}
	c.OnTick(sim.TickReport{Heard: true, Loudness: 50, Attempts: 2, Spawned: spawned(1), Dropped: 1}, live)
	c.OnTick(sim.TickReport{Taps: 1, Gated: 1, Retired: spawned(1)}, live[:1])

	if got := testutil.ToFloat64(c.spawned); got != 1 {
		t.Errorf("spawned: got %f", got)
	}
	if got := testutil.ToFloat64(c.dropped); got != 1 {
		t.Errorf("dropped: got %f", got)
	}
	if got := testutil.ToFloat64(c.retired); got != 1 {
		t.Errorf("retired: got %f", got)
	}
	if got := testutil.ToFloat64(c.frames); got != 2 {
		t.Errorf("frames: got %f", got)
	}
	if got := testutil.ToFloat64(c.live); got != 1 {
		t.Errorf("live: got %f", got)
	}
	if n := testutil.CollectAndCount(c.loudness); n != 1 {
		t.Errorf("expected one loudness series, got %d", n)
	}

	if _, err := NewCollector(reg); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}
