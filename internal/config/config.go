package config

import (
	"fmt"
	"os"

	"github.com/san-kum/balloonar/internal/audio"
	"github.com/san-kum/balloonar/internal/balloon"
	"github.com/san-kum/balloonar/internal/kinematics"
	"github.com/san-kum/balloonar/internal/media"
	"github.com/san-kum/balloonar/internal/placement"
	"github.com/san-kum/balloonar/internal/sim"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFPS       = 60
	DefaultPreset    = "party"
	DefaultLogLevel  = "info"
	DefaultMaxCount  = 15
	DefaultThreshold = 40.0
	DefaultBound     = 6.0
	DefaultSpawnY    = -3.0
	DefaultMinSpeed  = 0.005
	DefaultMaxSpeed  = 0.015
)

type Config struct {
	Preset     string            `yaml:"preset"`
	Seed       int64             `yaml:"seed"`
	FPS        int               `yaml:"fps"`
	Session    SessionConfig     `yaml:"session"`
	Placement  placement.Config  `yaml:"placement"`
	Kinematics kinematics.Config `yaml:"kinematics"`
	Audio      AudioConfig       `yaml:"audio"`
	Media      MediaConfig       `yaml:"media"`
	Log        LogConfig         `yaml:"log"`
}

type SessionConfig struct {
	MaxBalloons int     `yaml:"max_balloons"`
	Threshold   float64 `yaml:"threshold"`
	UpperBound  float64 `yaml:"upper_bound"`
	SpawnHeight float64 `yaml:"spawn_height"`
	MinSpeed    float64 `yaml:"min_speed"`
	MaxSpeed    float64 `yaml:"max_speed"`
}

type AudioConfig struct {
	Device   string               `yaml:"device"`
	Analyser audio.AnalyserConfig `yaml:"analyser"`
}

// MediaConfig maps a camera facing ("environment", "user") to the input
// device that plays that role.
type MediaConfig struct {
	Devices map[media.Facing]string `yaml:"devices"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		Preset: DefaultPreset,
		FPS:    DefaultFPS,
		Session: SessionConfig{
			MaxBalloons: DefaultMaxCount,
			Threshold:   DefaultThreshold,
			UpperBound:  DefaultBound,
			SpawnHeight: DefaultSpawnY,
			MinSpeed:    DefaultMinSpeed,
			MaxSpeed:    DefaultMaxSpeed,
		},
		Placement:  placement.DefaultConfig(),
		Kinematics: kinematics.DefaultConfig(),
		Audio:      AudioConfig{Analyser: audio.DefaultAnalyserConfig()},
		Media:      MediaConfig{Devices: map[media.Facing]string{}},
		Log:        LogConfig{Level: DefaultLogLevel},
	}
}

// Load reads a YAML file. The file's preset, if any, is applied first and
// the rest of the file overrides it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var head struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if head.Preset != "" {
		cfg = GetPreset(head.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("%s: unknown preset %q", path, head.Preset)
		}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d: %w", c.FPS, balloon.ErrParameterBounds)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if err := c.Audio.Analyser.Validate(); err != nil {
		return err
	}
	return c.SimConfig().Validate()
}

// SimConfig builds the session configuration.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		MaxBalloons: c.Session.MaxBalloons,
		Threshold:   c.Session.Threshold,
		UpperBound:  c.Session.UpperBound,
		SpawnHeight: c.Session.SpawnHeight,
		MinSpeed:    c.Session.MinSpeed,
		MaxSpeed:    c.Session.MaxSpeed,
		Seed:        c.Seed,
		Placement:   c.Placement,
		Kinematics:  c.Kinematics,
	}
}
