// Package placement finds spawn positions for new balloons by bounded
// rejection sampling against the balloons already alive.
package placement

import (
	"fmt"

	"github.com/san-kum/balloonar/internal/balloon"
)

// Source is the random source used for sampling. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Config bounds the placement volume. Candidates fall in x ∈ [-Span/2,
// Span/2) and z ∈ (FarZ, NearZ]. Two balloons of scales a and b must be at
// least a*Separation + b*Separation apart in the (x, z) plane.
type Config struct {
	Attempts   int     `yaml:"attempts"`
	MinScale   float64 `yaml:"min_scale"`
	MaxScale   float64 `yaml:"max_scale"`
	Span       float64 `yaml:"span"`
	NearZ      float64 `yaml:"near_z"`
	FarZ       float64 `yaml:"far_z"`
	Separation float64 `yaml:"separation"`
}

func DefaultConfig() Config {
	return Config{
		Attempts:   20,
		MinScale:   0.3,
		MaxScale:   1.0,
		Span:       8,
		NearZ:      -1,
		FarZ:       -5,
		Separation: 0.8,
	}
}

func (c Config) Validate() error {
	if c.Attempts < 1 {
		return fmt.Errorf("placement attempts must be at least 1, got %d: %w", c.Attempts, balloon.ErrParameterBounds)
	}
	if c.MinScale <= 0 || c.MaxScale < c.MinScale {
		return fmt.Errorf("placement scale range [%g, %g] invalid: %w", c.MinScale, c.MaxScale, balloon.ErrParameterBounds)
	}
	if c.Span < 0 || c.FarZ > c.NearZ || c.Separation < 0 {
		return fmt.Errorf("placement volume invalid: %w", balloon.ErrParameterBounds)
	}
	return nil
}

// Placement is an accepted candidate. Y is chosen by the caller.
type Placement struct {
	X, Z  float64
	Scale float64
}

type Engine struct {
	cfg Config
}

func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

func (e *Engine) Config() Config { return e.cfg }

// TryPlace samples up to Attempts candidates and returns the first one that
// keeps its distance from every balloon in existing. The second result is
// false when the budget runs out.
func (e *Engine) TryPlace(existing []*balloon.Balloon, rng Source) (Placement, bool) {
	for attempt := 0; attempt < e.cfg.Attempts; attempt++ {
		c := e.sample(rng)
		if e.fits(c, existing) {
			return c, true
		}
	}
	return Placement{}, false
}

func (e *Engine) sample(rng Source) Placement {
	scale := e.cfg.MinScale
	if e.cfg.MaxScale > e.cfg.MinScale {
		scale += rng.Float64() * (e.cfg.MaxScale - e.cfg.MinScale)
	}
	x := (rng.Float64() - 0.5) * e.cfg.Span
	z := e.cfg.NearZ - rng.Float64()*(e.cfg.NearZ-e.cfg.FarZ)
	return Placement{X: x, Z: z, Scale: scale}
}

func (e *Engine) fits(c Placement, existing []*balloon.Balloon) bool {
	pos := balloon.Vec3{X: c.X, Z: c.Z}
	for _, b := range existing {
		required := c.Scale*e.cfg.Separation + b.Scale*e.cfg.Separation
		if pos.PlanarDistance(b.Position) < required {
			return false
		}
	}
	return true
}

// MinDistance is the separation two balloons of the given scales must keep.
func (e *Engine) MinDistance(a, b float64) float64 {
	return a*e.cfg.Separation + b*e.cfg.Separation
}
