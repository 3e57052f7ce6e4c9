package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/balloonar/internal/balloon"
	"github.com/san-kum/balloonar/internal/media"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Session.MaxBalloons != 15 {
		t.Errorf("expected 15 balloons, got %d", cfg.Session.MaxBalloons)
	}
	if cfg.Session.Threshold != 40 {
		t.Errorf("expected threshold 40, got %f", cfg.Session.Threshold)
	}
	if cfg.Placement.Attempts != 20 {
		t.Errorf("expected 20 attempts, got %d", cfg.Placement.Attempts)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("classic")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Session.Threshold != 60 || cfg.Session.MaxBalloons != 20 {
		t.Errorf("classic: threshold %f max %d", cfg.Session.Threshold, cfg.Session.MaxBalloons)
	}
	if cfg.Placement.MinScale != cfg.Placement.MaxScale {
		t.Error("classic should use a fixed scale")
	}
}

func TestGetPresetReturnsCopy(t *testing.T) {
	a := GetPreset("calm")
	a.Session.MaxBalloons = 99

	if b := GetPreset("calm"); b.Session.MaxBalloons == 99 {
		t.Error("preset mutated through returned config")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValidate(t *testing.T) {
	names := ListPresets()
	if len(names) != 3 {
		t.Fatalf("expected 3 presets, got %v", names)
	}
	for _, name := range names {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestLoadAppliesPresetThenOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balloonar.yaml")
	data := []byte(`preset: classic
seed: 9
session:
  threshold: 70
media:
  devices:
    environment: USB Mic
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Session.Threshold != 70 {
		t.Errorf("expected override 70, got %f", cfg.Session.Threshold)
	}
	if cfg.Session.MaxBalloons != 20 {
		t.Errorf("expected classic max 20, got %d", cfg.Session.MaxBalloons)
	}
	if cfg.Seed != 9 {
		t.Errorf("expected seed 9, got %d", cfg.Seed)
	}
	if cfg.Media.Devices[media.FacingEnvironment] != "USB Mic" {
		t.Errorf("unexpected devices %v", cfg.Media.Devices)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown preset", "preset: disco\n"},
		{"zero attempts", "placement:\n  attempts: 0\n"},
		{"bad threshold", "session:\n  threshold: 300\n"},
		{"bad level", "log:\n  level: shouty\n"},
		{"bad yaml", "session: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := GetPreset("calm")
	cfg.Seed = 5

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.SimConfig() != cfg.SimConfig() {
		t.Errorf("round trip mismatch: %+v vs %+v", got.SimConfig(), cfg.SimConfig())
	}
}

func TestValidateFPS(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FPS = 0
	if err := cfg.Validate(); !errors.Is(err, balloon.ErrParameterBounds) {
		t.Errorf("expected parameter bounds error, got %v", err)
	}
}
