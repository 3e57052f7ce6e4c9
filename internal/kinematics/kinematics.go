// Package kinematics advances balloons one frame at a time: constant
// ascent plus a small sine/cosine sway in the horizontal plane.
//
// Ascent is a per-frame increment and is not normalised by elapsed time,
// so balloons rise faster on displays with a higher refresh rate. Sway
// phase follows the wall clock.
package kinematics

import (
	"math"

	"github.com/san-kum/balloonar/internal/balloon"
)

type Config struct {
	SwayAmplitude float64 `yaml:"sway_amplitude"` // per-frame x displacement at scale 1
	SwayRateX     float64 `yaml:"sway_rate_x"`    // rad/s
	SwayRateZ     float64 `yaml:"sway_rate_z"`    // rad/s
	HeightPhase   float64 `yaml:"height_phase"`   // x phase per unit of height
	DepthRatio    float64 `yaml:"depth_ratio"`    // z amplitude relative to x
	FastTrig      bool    `yaml:"fast_trig"`
}

func DefaultConfig() Config {
	return Config{
		SwayAmplitude: 0.002,
		SwayRateX:     0.8,
		SwayRateZ:     0.6,
		HeightPhase:   0.5,
		DepthRatio:    0.5,
	}
}

type Updater struct {
	cfg Config
	sin func(float64) float64
	cos func(float64) float64
}

func New(cfg Config) *Updater {
	u := &Updater{cfg: cfg, sin: math.Sin, cos: math.Cos}
	if cfg.FastTrig {
		u.sin = DefaultTrigTable.Sin
		u.cos = DefaultTrigTable.Cos
	}
	return u
}

// Advance moves b by one frame. t is wall-clock seconds since the session
// started.
func (u *Updater) Advance(b *balloon.Balloon, t float64) {
	b.Position.Y += b.Speed

	sway := u.cfg.SwayAmplitude * b.Scale
	b.Position.X += u.sin(t*u.cfg.SwayRateX+b.SwayOffset+b.Position.Y*u.cfg.HeightPhase) * sway
	b.Position.Z += u.cos(t*u.cfg.SwayRateZ+b.SwayOffset) * sway * u.cfg.DepthRatio
}

// AdvanceAll applies Advance to every balloon and returns how many ended
// the frame above bound.
func (u *Updater) AdvanceAll(balloons []*balloon.Balloon, t, bound float64) int {
	above := 0
	for _, b := range balloons {
		u.Advance(b, t)
		if b.Position.Y > bound {
			above++
		}
	}
	return above
}
