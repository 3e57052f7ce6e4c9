package loudness

// Source is the random source used by Synthetic. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Synthetic is an Analyser producing background noise with random bursts,
// standing in for a microphone in headless runs.
type Synthetic struct {
	Floor       float64
	BurstLevel  float64
	BurstChance float64 // probability per frame that a burst starts
	BurstFrames int

	rng       Source
	remaining int
}

func NewSynthetic(rng Source) *Synthetic {
	return &Synthetic{
		rng:         rng,
		Floor:       15,
		BurstLevel:  80,
		BurstChance: 0.02,
		BurstFrames: 30,
	}
}

func (s *Synthetic) BinCount() int { return DefaultBinCount }

func (s *Synthetic) ByteFrequencyData(dst []uint8) {
	if s.remaining == 0 && s.rng.Float64() < s.BurstChance {
		s.remaining = s.BurstFrames
	}
	base := s.Floor
	if s.remaining > 0 {
		base = s.BurstLevel
		s.remaining--
	}
	for i := range dst {
		// +/- 10 jitter per bin around the base level.
		dst[i] = toByte(base + (s.rng.Float64()-0.5)*20)
	}
}
