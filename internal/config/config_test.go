package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Simulation.Charge >= 0 {
		t.Error("default charge should repel")
	}
	if !cfg.Sync.PruneDangling {
		t.Error("dangling edges should be pruned by default")
	}
	if cfg.Easing()(1) != 1 {
		t.Error("easing should end at 1")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative nodes", func(c *Config) { c.Graph.Nodes = -1 }},
		{"negative link distance", func(c *Config) { c.Simulation.LinkDistance = -5 }},
		{"alpha min too large", func(c *Config) { c.Simulation.AlphaMin = 1 }},
		{"alpha decay negative", func(c *Config) { c.Simulation.AlphaDecay = -0.1 }},
		{"velocity decay too large", func(c *Config) { c.Simulation.VelocityDecay = 1.5 }},
		{"zero width", func(c *Config) { c.View.Width = 0 }},
		{"zero fps", func(c *Config) { c.View.FPS = 0 }},
		{"unknown easing", func(c *Config) { c.Animation.Easing = "wobble" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forcegraph.yaml")

	cfg := DefaultConfig()
	cfg.Simulation.Charge = -50
	cfg.View.Theme = "ocean"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Simulation.Charge != -50 {
		t.Errorf("expected charge -50, got %f", loaded.Simulation.Charge)
	}
	if loaded.View.Theme != "ocean" {
		t.Errorf("expected theme ocean, got %s", loaded.View.Theme)
	}
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("simulation:\n  link_distance: 45\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Simulation.LinkDistance != 45 {
		t.Errorf("expected link distance 45, got %f", cfg.Simulation.LinkDistance)
	}
	if cfg.View.FPS != DefaultFPS {
		t.Errorf("expected default fps %d, got %d", DefaultFPS, cfg.View.FPS)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("view:\n  fps: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("tight")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Simulation.LinkDistance != 12 {
		t.Errorf("expected link distance 12, got %f", cfg.Simulation.LinkDistance)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset should be valid: %v", err)
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for _, name := range presets {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestLayoutParams(t *testing.T) {
	cfg := DefaultConfig()
	p := cfg.LayoutParams()
	if p.Charge != cfg.Simulation.Charge || p.LinkDistance != cfg.Simulation.LinkDistance {
		t.Errorf("layout params do not match simulation config: %+v", p)
	}
}
