package metrics

import (
	"math"

	"github.com/san-kum/balloonar/internal/sim"
)

// MeanLoudness averages the sampled loudness over frames where a sample
// was taken. Tap-only frames are ignored.
type MeanLoudness struct {
	name    string
	sum     float64
	peak    float64
	samples int
}

func NewMeanLoudness() *MeanLoudness {
	return &MeanLoudness{
		name: "mean_loudness",
	}
}

func (m *MeanLoudness) Name() string {
	return m.name
}

func (m *MeanLoudness) Observe(r sim.TickReport) {
	if !r.Heard {
		return
	}
	m.sum += r.Loudness
	m.peak = math.Max(m.peak, r.Loudness)
	m.samples++
}

func (m *MeanLoudness) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanLoudness) Peak() float64 { return m.peak }

func (m *MeanLoudness) Reset() {
	m.sum = 0
	m.peak = 0
	m.samples = 0
}

// Default returns the metric set attached to every session.
func Default(capacity int) []sim.Metric {
	return []sim.Metric{
		NewSpawnRate(),
		NewDropRate(),
		NewSaturation(capacity),
		NewMeanLoudness(),
	}
}
