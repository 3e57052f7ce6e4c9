package loudness

import "math"

// DefaultBinCount matches an analyser with an FFT size of 256.
const DefaultBinCount = 128

// Script is an Analyser that replays a fixed loudness sequence, one level
// per read. The level is spread over the bins so their mean matches it to
// within 1/len(dst). Reads past the end return silence unless Loop is set.
type Script struct {
	Levels []float64
	Loop   bool
	bins   int
	pos    int
}

func NewScript(levels []float64, loop bool) *Script {
	return &Script{Levels: levels, Loop: loop, bins: DefaultBinCount}
}

func (s *Script) BinCount() int { return s.bins }

func (s *Script) ByteFrequencyData(dst []uint8) {
	level := 0.0
	if len(s.Levels) > 0 {
		switch {
		case s.pos < len(s.Levels):
			level = s.Levels[s.pos]
		case s.Loop:
			level = s.Levels[s.pos%len(s.Levels)]
		}
	}
	s.pos++

	spread(level, dst)
}

// spread fills dst with bytes whose mean is level, clamped to [0, 255].
// The first total%n bins take the extra unit.
func spread(level float64, dst []uint8) {
	n := len(dst)
	if n == 0 {
		return
	}
	total := int(math.Round(level * float64(n)))
	if total < 0 {
		total = 0
	}
	if total > 255*n {
		total = 255 * n
	}
	base, extra := total/n, total%n
	for i := range dst {
		v := base
		if i < extra {
			v++
		}
		dst[i] = uint8(v)
	}
}

// Reads is the number of frames consumed so far.
func (s *Script) Reads() int { return s.pos }

func toByte(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
