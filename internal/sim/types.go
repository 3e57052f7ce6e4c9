package sim

import (
	"fmt"
	"time"

	"github.com/san-kum/balloonar/internal/balloon"
	"github.com/san-kum/balloonar/internal/kinematics"
	"github.com/san-kum/balloonar/internal/placement"
)

type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// FrameTime is one tick of a frame clock. Seconds is wall-clock time since
// the clock started and drives sway phase.
type FrameTime struct {
	Index   int
	Seconds float64
	Now     time.Time
}

// TickReport describes what a single frame did.
type TickReport struct {
	Tick      int
	Time      float64
	Loudness  float64
	Heard     bool // a loudness sample was taken
	Triggered bool // the sample was above threshold
	Taps      int
	Attempts  int // placement attempts that passed the capacity gate
	Gated     int // spawn requests refused because the registry was full
	Dropped   int // attempts that found no placement
	Spawned   []balloon.ID
	Retired   []balloon.ID
	Live      int
}

type Observer interface {
	OnTick(r TickReport, live []*balloon.Balloon)
}

type Metric interface {
	Name() string
	Observe(r TickReport)
	Value() float64
	Reset()
}

type Config struct {
	MaxBalloons int
	Threshold   float64
	UpperBound  float64
	SpawnHeight float64
	MinSpeed    float64
	MaxSpeed    float64
	Seed        int64
	Placement   placement.Config
	Kinematics  kinematics.Config
}

func DefaultConfig() Config {
	return Config{
		MaxBalloons: 15,
		Threshold:   40,
		UpperBound:  6,
		SpawnHeight: -3,
		MinSpeed:    0.005,
		MaxSpeed:    0.015,
		Placement:   placement.DefaultConfig(),
		Kinematics:  kinematics.DefaultConfig(),
	}
}

func (c Config) Validate() error {
	if c.MaxBalloons < 1 {
		return fmt.Errorf("max balloons must be positive, got %d: %w", c.MaxBalloons, balloon.ErrParameterBounds)
	}
	if c.Threshold < 0 || c.Threshold > 255 {
		return fmt.Errorf("threshold must be in [0, 255], got %f: %w", c.Threshold, balloon.ErrParameterBounds)
	}
	if c.UpperBound <= c.SpawnHeight {
		return fmt.Errorf("upper bound %f must be above spawn height %f: %w", c.UpperBound, c.SpawnHeight, balloon.ErrParameterBounds)
	}
	if c.MinSpeed <= 0 || c.MaxSpeed < c.MinSpeed {
		return fmt.Errorf("speed range [%f, %f] invalid: %w", c.MinSpeed, c.MaxSpeed, balloon.ErrParameterBounds)
	}
	return c.Placement.Validate()
}

// Result summarises a driven run.
type Result struct {
	Seed     int64              `json:"seed"`
	Frames   int                `json:"frames"`
	Attempts int                `json:"attempts"`
	Spawned  int                `json:"spawned"`
	Dropped  int                `json:"dropped"`
	Gated    int                `json:"gated"`
	Retired  int                `json:"retired"`
	PeakLive int                `json:"peak_live"`
	Live     []float64          `json:"live"`
	Loudness []float64          `json:"loudness"`
	Metrics  map[string]float64 `json:"metrics"`
}
