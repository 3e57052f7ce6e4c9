package kinematics

import (
	"math"
	"testing"

	"github.com/san-kum/balloonar/internal/balloon"
)

func TestAdvanceAscentIsExact(t *testing.T) {
	u := New(DefaultConfig())
	b := &balloon.Balloon{Position: balloon.Vec3{Y: -3}, Scale: 0.7, Speed: 0.25, SwayOffset: 1.2}

	for i := 1; i <= 40; i++ {
		prev := b.Position.Y
		u.Advance(b, float64(i)/60)
		if b.Position.Y != prev+0.25 {
			t.Fatalf("tick %d: y=%v, want %v", i, b.Position.Y, prev+0.25)
		}
	}
}

func TestAdvanceIgnoresElapsedForAscent(t *testing.T) {
	u := New(DefaultConfig())
	a := &balloon.Balloon{Scale: 1, Speed: 0.01}
	b := &balloon.Balloon{Scale: 1, Speed: 0.01}

	u.Advance(a, 0.016)
	u.Advance(b, 10)

	if a.Position.Y != b.Position.Y {
		t.Errorf("ascent depends on time: %v vs %v", a.Position.Y, b.Position.Y)
	}
}

func TestAdvanceSway(t *testing.T) {
	cfg := DefaultConfig()
	u := New(cfg)
	b := &balloon.Balloon{Position: balloon.Vec3{X: 1, Y: 0, Z: -2}, Scale: 0.5, Speed: 0.01, SwayOffset: 0.3}

	tm := 2.0
	u.Advance(b, tm)

	amp := cfg.SwayAmplitude * 0.5
	wantX := 1 + math.Sin(tm*0.8+0.3+0.01*0.5)*amp
	wantZ := -2 + math.Cos(tm*0.6+0.3)*amp*0.5

	if math.Abs(b.Position.X-wantX) > 1e-12 {
		t.Errorf("x=%v, want %v", b.Position.X, wantX)
	}
	if math.Abs(b.Position.Z-wantZ) > 1e-12 {
		t.Errorf("z=%v, want %v", b.Position.Z, wantZ)
	}
}

func TestSwayBoundedByScale(t *testing.T) {
	u := New(DefaultConfig())
	for _, scale := range []float64{0.3, 0.65, 1.0} {
		b := &balloon.Balloon{Scale: scale, Speed: 0.01}
		for i := 0; i < 100; i++ {
			x, z := b.Position.X, b.Position.Z
			u.Advance(b, float64(i)*0.1)
			if dx := math.Abs(b.Position.X - x); dx > 0.002*scale+1e-15 {
				t.Errorf("scale %.2f: dx=%v exceeds amplitude", scale, dx)
			}
			if dz := math.Abs(b.Position.Z - z); dz > 0.001*scale+1e-15 {
				t.Errorf("scale %.2f: dz=%v exceeds amplitude", scale, dz)
			}
		}
	}
}

func TestAdvanceAllCountsAboveBound(t *testing.T) {
	u := New(DefaultConfig())
	bs := []*balloon.Balloon{
		{Position: balloon.Vec3{Y: 5.995}, Scale: 1, Speed: 0.01},
		{Position: balloon.Vec3{Y: 0}, Scale: 1, Speed: 0.01},
	}
	if n := u.AdvanceAll(bs, 0, 6); n != 1 {
		t.Errorf("expected 1 balloon above bound, got %d", n)
	}
}

func TestFastTrigCloseToExact(t *testing.T) {
	cfg := DefaultConfig()
	exact := New(cfg)
	cfg.FastTrig = true
	fast := New(cfg)

	a := &balloon.Balloon{Scale: 1, Speed: 0.01, SwayOffset: 2}
	b := &balloon.Balloon{Scale: 1, Speed: 0.01, SwayOffset: 2}
	for i := 0; i < 600; i++ {
		tm := float64(i) / 60
		exact.Advance(a, tm)
		fast.Advance(b, tm)
	}

	if a.Position.Y != b.Position.Y {
		t.Error("fast trig must not change ascent")
	}
	if math.Abs(a.Position.X-b.Position.X) > 1e-5 {
		t.Errorf("x drift too large: %v vs %v", a.Position.X, b.Position.X)
	}
}

func TestTrigTable(t *testing.T) {
	table := NewTrigTable(4096)
	for _, x := range []float64{-7, -1, 0, 0.5, math.Pi, 4, 13} {
		if d := math.Abs(table.Sin(x) - math.Sin(x)); d > 1e-5 {
			t.Errorf("Sin(%v) off by %v", x, d)
		}
		if d := math.Abs(table.Cos(x) - math.Cos(x)); d > 1e-5 {
			t.Errorf("Cos(%v) off by %v", x, d)
		}
	}
}
