// Package loudness reduces frequency-bin magnitudes to one loudness value
// per frame and decides whether that value should trigger a spawn.
package loudness

// Analyser exposes a refreshable byte frequency buffer, one magnitude in
// [0, 255] per bin.
type Analyser interface {
	BinCount() int
	ByteFrequencyData(dst []uint8)
}

// Monitor samples an attached analyser once per frame.
type Monitor struct {
	analyser  Analyser
	buf       []uint8
	threshold float64
}

func NewMonitor(threshold float64) *Monitor {
	return &Monitor{threshold: threshold}
}

// Attach replaces the current analyser. A nil analyser detaches.
func (m *Monitor) Attach(a Analyser) {
	m.analyser = a
	if a == nil {
		m.buf = nil
		return
	}
	if n := a.BinCount(); cap(m.buf) < n {
		m.buf = make([]uint8, n)
	} else {
		m.buf = m.buf[:n]
	}
}

func (m *Monitor) Detach() { m.Attach(nil) }

func (m *Monitor) Available() bool { return m.analyser != nil }

func (m *Monitor) Threshold() float64 { return m.threshold }

// Sample returns the arithmetic mean of the analyser's current bins. The
// second result is false when no analyser is attached.
func (m *Monitor) Sample() (float64, bool) {
	if m.analyser == nil || len(m.buf) == 0 {
		return 0, false
	}
	m.analyser.ByteFrequencyData(m.buf)
	return Mean(m.buf), true
}

// Triggers reports whether v is strictly above the threshold.
func (m *Monitor) Triggers(v float64) bool {
	return v > m.threshold
}

func Mean(bins []uint8) float64 {
	if len(bins) == 0 {
		return 0
	}
	sum := 0
	for _, b := range bins {
		sum += int(b)
	}
	return float64(sum) / float64(len(bins))
}
