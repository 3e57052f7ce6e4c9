package config

import "sort"

// Presets are the three tunings the toy shipped with. classic spawns
// small fixed-size balloons only for loud sounds, party is the default
// and calm is a slow variant for quiet rooms.
var Presets = map[string]func() *Config{
	"classic": func() *Config {
		cfg := DefaultConfig()
		cfg.Preset = "classic"
		cfg.Session.MaxBalloons = 20
		cfg.Session.Threshold = 60
		cfg.Session.UpperBound = 5
		cfg.Placement.Attempts = 10
		cfg.Placement.MinScale = 0.3
		cfg.Placement.MaxScale = 0.3
		return cfg
	},
	"party": DefaultConfig,
	"calm": func() *Config {
		cfg := DefaultConfig()
		cfg.Preset = "calm"
		cfg.Session.MaxBalloons = 8
		cfg.Session.Threshold = 50
		cfg.Session.MinSpeed = 0.003
		cfg.Session.MaxSpeed = 0.008
		cfg.Placement.MinScale = 0.5
		cfg.Kinematics.SwayAmplitude = 0.001
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
