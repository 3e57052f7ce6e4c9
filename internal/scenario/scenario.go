// Package scenario runs scripted sessions from YAML: a sequence of steps,
// each feeding a loudness script and taps to the same session and checking
// the live count afterwards.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/balloonar/internal/config"
	"github.com/san-kum/balloonar/internal/loudness"
	"github.com/san-kum/balloonar/internal/sim"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var ErrExpectation = errors.New("expectation failed")

// Scenario defines a scripted session. Config is decoded over the preset,
// so it accepts any subset of the config file layout.
type Scenario struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Preset      string    `yaml:"preset"`
	Seed        int64     `yaml:"seed"`
	Config      yaml.Node `yaml:"config"`
	Steps       []Step    `yaml:"steps"`
}

// Step is a run of frames. A nil Loudness list puts the session in tap-only
// mode for the step; levels past the end of the list are silence. Taps are
// frame offsets within the step.
type Step struct {
	Name     string    `yaml:"name"`
	Frames   int       `yaml:"frames"`
	Loudness []float64 `yaml:"loudness"`
	Taps     []int     `yaml:"taps"`
	Expect   Expect    `yaml:"expect"`
}

type Expect struct {
	Live      []int `yaml:"live"`
	FinalLive *int  `yaml:"final_live"`
	Spawned   *int  `yaml:"spawned"`
	Dropped   *int  `yaml:"dropped"`
	MaxLive   *int  `yaml:"max_live"`
}

type StepResult struct {
	Name    string `json:"name"`
	Live    []int  `json:"live"`
	Spawned int    `json:"spawned"`
	Dropped int    `json:"dropped"`
	Gated   int    `json:"gated"`
	Retired int    `json:"retired"`
	MaxLive int    `json:"max_live"`
}

func (r StepResult) Final() int {
	if len(r.Live) == 0 {
		return 0
	}
	return r.Live[len(r.Live)-1]
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) Validate() error {
	if sc.Name == "" {
		return fmt.Errorf("scenario has no name")
	}
	if len(sc.Steps) == 0 {
		return fmt.Errorf("scenario %s: no steps", sc.Name)
	}
	if _, err := sc.SessionConfig(); err != nil {
		return fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	for i, st := range sc.Steps {
		if st.Frames <= 0 {
			return fmt.Errorf("step %d: frames must be positive, got %d", i+1, st.Frames)
		}
		for _, f := range st.Taps {
			if f < 0 || f >= st.Frames {
				return fmt.Errorf("step %d: tap at frame %d outside [0, %d)", i+1, f, st.Frames)
			}
		}
		if st.Expect.Live != nil && len(st.Expect.Live) != st.Frames {
			return fmt.Errorf("step %d: expected %d live counts, got %d", i+1, st.Frames, len(st.Expect.Live))
		}
	}
	return nil
}

// SessionConfig resolves the preset, seed and config overrides.
func (sc *Scenario) SessionConfig() (sim.Config, error) {
	name := sc.Preset
	if name == "" {
		name = config.DefaultPreset
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return sim.Config{}, fmt.Errorf("unknown preset %q", name)
	}
	if !sc.Config.IsZero() {
		if err := sc.Config.Decode(cfg); err != nil {
			return sim.Config{}, err
		}
	}
	cfg.Seed = sc.Seed

	out := cfg.SimConfig()
	if err := out.Validate(); err != nil {
		return sim.Config{}, err
	}
	return out, nil
}

// Run executes every step on one session. Expectation failures do not
// stop the run; they are joined into the returned error, which wraps
// ErrExpectation.
func Run(ctx context.Context, sc *Scenario, observers ...sim.Observer) ([]StepResult, error) {
	cfg, err := sc.SessionConfig()
	if err != nil {
		return nil, err
	}
	session, err := sim.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	for _, o := range observers {
		session.AddObserver(o)
	}
	session.Start()

	clock := sim.NewManual(config.DefaultFPS)
	log := logrus.WithField("scenario", sc.Name)

	results := make([]StepResult, 0, len(sc.Steps))
	var failures []error

	for i, st := range sc.Steps {
		log.WithFields(logrus.Fields{"step": i + 1, "name": st.Name, "frames": st.Frames}).Info("Running step")

		res, err := runStep(ctx, session, clock, st)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		results = append(results, res)

		for _, f := range Check(st.Expect, res) {
			failures = append(failures, fmt.Errorf("step %d (%s): %w", i+1, st.Name, f))
		}
	}

	if len(failures) > 0 {
		return results, fmt.Errorf("%w: %w", ErrExpectation, errors.Join(failures...))
	}
	return results, nil
}

func runStep(ctx context.Context, s *sim.Session, clock sim.Clock, st Step) (StepResult, error) {
	if st.Loudness == nil {
		s.AttachAnalyser(nil)
	} else {
		s.AttachAnalyser(loudness.NewScript(st.Loudness, false))
	}

	taps := make(map[int]int, len(st.Taps))
	for _, f := range st.Taps {
		taps[f]++
	}

	res := StepResult{Name: st.Name, Live: make([]int, 0, st.Frames)}
	for f := 0; f < st.Frames; f++ {
		for n := taps[f]; n > 0; n-- {
			if err := s.Tap(); err != nil {
				return res, err
			}
		}

		ft, err := clock.Next(ctx)
		if err != nil {
			return res, err
		}
		r := s.Tick(ft)

		res.Live = append(res.Live, r.Live)
		res.Spawned += len(r.Spawned)
		res.Dropped += r.Dropped
		res.Gated += r.Gated
		res.Retired += len(r.Retired)
		if r.Live > res.MaxLive {
			res.MaxLive = r.Live
		}
	}
	return res, nil
}

// Check compares a step result with its expectations.
func Check(e Expect, r StepResult) []error {
	var errs []error
	if e.Live != nil {
		for i := range e.Live {
			if i >= len(r.Live) || r.Live[i] != e.Live[i] {
				errs = append(errs, fmt.Errorf("live counts %v, want %v", r.Live, e.Live))
				break
			}
		}
	}
	intCheck := func(name string, want *int, got int) {
		if want != nil && *want != got {
			errs = append(errs, fmt.Errorf("%s %d, want %d", name, got, *want))
		}
	}
	intCheck("final live", e.FinalLive, r.Final())
	intCheck("spawned", e.Spawned, r.Spawned)
	intCheck("dropped", e.Dropped, r.Dropped)
	intCheck("max live", e.MaxLive, r.MaxLive)
	return errs
}
