package scenario

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/san-kum/balloonar/internal/loudness"
	"github.com/san-kum/balloonar/internal/sim"
	"github.com/sirupsen/logrus"
)

// Sweep runs one seeded headless session per value of a session parameter.
// Loudness comes from a synthetic source seeded like the session, so every
// value sees the same sound.
type Sweep struct {
	Base     sim.Config
	Param    string
	Min, Max float64
	Steps    int
	Frames   int
}

type SweepResult struct {
	Value    float64 `json:"value"`
	Spawned  int     `json:"spawned"`
	Dropped  int     `json:"dropped"`
	Gated    int     `json:"gated"`
	PeakLive int     `json:"peak_live"`
}

var sweepParams = map[string]func(*sim.Config, float64){
	"threshold":    func(c *sim.Config, v float64) { c.Threshold = v },
	"max_balloons": func(c *sim.Config, v float64) { c.MaxBalloons = int(v) },
	"separation":   func(c *sim.Config, v float64) { c.Placement.Separation = v },
	"attempts":     func(c *sim.Config, v float64) { c.Placement.Attempts = int(v) },
}

func SweepParams() []string {
	return []string{"attempts", "max_balloons", "separation", "threshold"}
}

func RunSweep(ctx context.Context, sw *Sweep) ([]SweepResult, error) {
	set, ok := sweepParams[sw.Param]
	if !ok {
		return nil, fmt.Errorf("cannot sweep %q", sw.Param)
	}
	if sw.Steps < 1 || sw.Frames < 1 {
		return nil, fmt.Errorf("sweep needs at least one step and one frame")
	}

	step := 0.0
	if sw.Steps > 1 {
		step = (sw.Max - sw.Min) / float64(sw.Steps-1)
	}

	results := make([]SweepResult, 0, sw.Steps)
	for i := 0; i < sw.Steps; i++ {
		v := sw.Min + float64(i)*step
		cfg := sw.Base
		set(&cfg, v)

		s, err := sim.NewSession(cfg)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sw.Param, v, err)
		}
		s.AttachAnalyser(loudness.NewSynthetic(rand.New(rand.NewSource(cfg.Seed))))

		res, err := sim.NewDriver(s, sim.NewManual(60)).Run(ctx, sw.Frames)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			Value:    v,
			Spawned:  res.Spawned,
			Dropped:  res.Dropped,
			Gated:    res.Gated,
			PeakLive: res.PeakLive,
		})
		logrus.WithFields(logrus.Fields{"param": sw.Param, "value": v, "step": i + 1}).Debug("Sweep step done")
	}

	return results, nil
}
