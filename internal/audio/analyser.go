// Package audio captures microphone input with portaudio and turns it into
// byte frequency data: FFT magnitudes in decibels, smoothed over time and
// mapped onto [0, 255].
package audio

import (
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

const (
	SampleRate = 44100
	FFTSize    = 256
	BufferSize = 256
)

type AnalyserConfig struct {
	FFTSize   int     `yaml:"fft_size"`
	Smoothing float64 `yaml:"smoothing"`
	MinDB     float64 `yaml:"min_db"`
	MaxDB     float64 `yaml:"max_db"`
}

func DefaultAnalyserConfig() AnalyserConfig {
	return AnalyserConfig{
		FFTSize:   FFTSize,
		Smoothing: 0.8,
		MinDB:     -100,
		MaxDB:     -30,
	}
}

func (c AnalyserConfig) Validate() error {
	if c.FFTSize < 32 || c.FFTSize&(c.FFTSize-1) != 0 {
		return fmt.Errorf("fft size must be a power of two >= 32, got %d", c.FFTSize)
	}
	if c.Smoothing < 0 || c.Smoothing >= 1 {
		return fmt.Errorf("smoothing must be in [0, 1), got %f", c.Smoothing)
	}
	if c.MinDB >= c.MaxDB {
		return fmt.Errorf("min_db (%f) must be below max_db (%f)", c.MinDB, c.MaxDB)
	}
	return nil
}

// Analyser keeps the most recent FFTSize time-domain samples and computes
// byte frequency data on demand. Write may be called from the capture
// goroutine while the frame goroutine reads.
type Analyser struct {
	cfg    AnalyserConfig
	window []float64

	mu   sync.Mutex
	ring []float64
	head int

	frame    []float64
	smoothed []float64
}

func NewAnalyser(cfg AnalyserConfig) *Analyser {
	return &Analyser{
		cfg:      cfg,
		window:   window.Blackman(cfg.FFTSize),
		ring:     make([]float64, cfg.FFTSize),
		frame:    make([]float64, cfg.FFTSize),
		smoothed: make([]float64, cfg.FFTSize/2),
	}
}

func (a *Analyser) BinCount() int { return a.cfg.FFTSize / 2 }

// Write appends samples to the time-domain ring.
func (a *Analyser) Write(samples []float32) {
	a.mu.Lock()
	for _, s := range samples {
		a.ring[a.head] = float64(s)
		a.head = (a.head + 1) % len(a.ring)
	}
	a.mu.Unlock()
}

// ByteFrequencyData fills dst with the current spectrum. Bins beyond
// BinCount are left untouched.
func (a *Analyser) ByteFrequencyData(dst []uint8) {
	a.mu.Lock()
	n := len(a.ring)
	for i := 0; i < n; i++ {
		a.frame[i] = a.ring[(a.head+i)%n]
	}
	a.mu.Unlock()

	for i := range a.frame {
		a.frame[i] *= a.window[i]
	}
	spectrum := fft.FFTReal(a.frame)

	tau := a.cfg.Smoothing
	scale := 255 / (a.cfg.MaxDB - a.cfg.MinDB)
	for k := range a.smoothed {
		mag := cmplx.Abs(spectrum[k]) / float64(n)
		a.smoothed[k] = tau*a.smoothed[k] + (1-tau)*mag
		if k >= len(dst) {
			continue
		}
		db := 20 * math.Log10(a.smoothed[k])
		dst[k] = clampByte(scale * (db - a.cfg.MinDB))
	}
}

func clampByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
