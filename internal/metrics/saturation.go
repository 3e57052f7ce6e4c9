package metrics

import "github.com/san-kum/balloonar/internal/sim"

// Saturation is the fraction of frames that ended with the registry full.
type Saturation struct {
	name     string
	capacity int
	full     int
	samples  int
}

func NewSaturation(capacity int) *Saturation {
	return &Saturation{
		name:     "saturation",
		capacity: capacity,
	}
}

func (s *Saturation) Name() string {
	return s.name
}

func (s *Saturation) Observe(r sim.TickReport) {
	s.samples++
	if r.Live >= s.capacity {
		s.full++
	}
}

func (s *Saturation) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.full) / float64(s.samples)
}

func (s *Saturation) Reset() {
	s.full = 0
	s.samples = 0
}
