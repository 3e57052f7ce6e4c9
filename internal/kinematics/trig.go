package kinematics

import "math"

// TrigTable provides precomputed sin/cos values with linear interpolation
// between entries.
type TrigTable struct {
	sin []float64
	cos []float64
	n   int
}

// 4096 entries gives ~0.0015 rad resolution.
var DefaultTrigTable = NewTrigTable(4096)

func NewTrigTable(n int) *TrigTable {
	t := &TrigTable{
		sin: make([]float64, n),
		cos: make([]float64, n),
		n:   n,
	}
	for i := 0; i < n; i++ {
		angle := float64(i) * 2 * math.Pi / float64(n)
		t.sin[i] = math.Sin(angle)
		t.cos[i] = math.Cos(angle)
	}
	return t
}

func (t *TrigTable) lookup(table []float64, x float64) float64 {
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}

	idx := x * float64(t.n) / (2 * math.Pi)
	i := int(idx)
	frac := idx - float64(i)

	i0 := i % t.n
	i1 := (i + 1) % t.n
	return table[i0]*(1-frac) + table[i1]*frac
}

func (t *TrigTable) Sin(x float64) float64 { return t.lookup(t.sin, x) }
func (t *TrigTable) Cos(x float64) float64 { return t.lookup(t.cos, x) }
