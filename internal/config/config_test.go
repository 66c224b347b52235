package config

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/jheller/magsim/internal/dipole"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Name != "pair" {
		t.Errorf("expected scene pair, got %s", cfg.Name)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if len(cfg.Magnets) != 2 || len(cfg.Ferrites) != 1 {
		t.Errorf("expected 2 magnets and 1 ferrite, got %d and %d", len(cfg.Magnets), len(cfg.Ferrites))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("compass")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(cfg.Magnets) != 1 {
		t.Errorf("expected 1 magnet, got %d", len(cfg.Magnets))
	}
	if cfg.Display.Width <= 0 {
		t.Error("preset should be filled with display defaults")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset should validate: %v", err)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) == 0 {
		t.Error("expected built-in presets")
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	cfg := GetPreset("ring")
	path := filepath.Join(t.TempDir(), "scene.yaml")

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Name != cfg.Name {
		t.Errorf("expected name %s, got %s", cfg.Name, loaded.Name)
	}
	if len(loaded.Magnets) != len(cfg.Magnets) {
		t.Errorf("expected %d magnets, got %d", len(cfg.Magnets), len(loaded.Magnets))
	}
	if loaded.Magnets[1].AngleDeg != cfg.Magnets[1].AngleDeg {
		t.Errorf("magnet angle not preserved: %f vs %f", loaded.Magnets[1].AngleDeg, cfg.Magnets[1].AngleDeg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"zero display width", func(c *Config) { c.Display.Width = 0 }},
		{"negative display height", func(c *Config) { c.Display.Height = -100 }},
		{"negative damping", func(c *Config) { c.Physics.Damping = -0.5 }},
		{"nan strength", func(c *Config) { c.Magnets[0].Strength = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestBuild(t *testing.T) {
	cfg := GetPreset("compass")
	mgr := cfg.Build()

	if mgr.Len() != 2 {
		t.Fatalf("expected 2 elements, got %d", mgr.Len())
	}
	if len(mgr.Ferrites()) != 1 {
		t.Fatalf("expected 1 ferrite, got %d", len(mgr.Ferrites()))
	}

	// 135 degrees in the scene file becomes radians on the entity.
	f := mgr.Ferrites()[0]
	if math.Abs(f.Angle-3*math.Pi/4) > 1e-9 {
		t.Errorf("expected angle 3pi/4, got %f", f.Angle)
	}

	if mgr.Coupling != dipole.DefaultCoupling {
		t.Errorf("expected default coupling, got %f", mgr.Coupling)
	}
}

func TestBuildZeroStrengthMagnet(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Magnets = []MagnetConfig{{X: 0, Y: 0}}
	mgr := cfg.Build()

	if got := mgr.At(0).Strength(); got != 1.0 {
		t.Errorf("expected strength to default to 1, got %f", got)
	}
}

func TestBuildRandomizedSeed(t *testing.T) {
	cfg := GetPreset("lattice")
	cfg.Seed = 7

	a := cfg.Build()
	b := cfg.Build()

	for i := range a.Ferrites() {
		if a.Ferrites()[i].Angle != b.Ferrites()[i].Angle {
			t.Fatal("same seed should give identical random angles")
		}
	}

	cfg.Seed = 8
	c := cfg.Build()
	same := true
	for i := range a.Ferrites() {
		if a.Ferrites()[i].Angle != c.Ferrites()[i].Angle {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds should scatter angles differently")
	}
}
