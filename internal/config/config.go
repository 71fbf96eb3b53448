package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/forcegraph/internal/chart"
	"github.com/san-kum/forcegraph/internal/layout"
)

const (
	DefaultCharge       = -30.0
	DefaultLinkDistance = 30.0
	DefaultAlphaMin     = 0.001
	DefaultWidth        = 80
	DefaultHeight       = 24
	DefaultFPS          = 60
	DefaultFrames       = 24
	DefaultMaxTicks     = 1000
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Graph      GraphConfig      `yaml:"graph"`
	Simulation SimulationConfig `yaml:"simulation"`
	View       ViewConfig       `yaml:"view"`
	Animation  AnimationConfig  `yaml:"animation"`
	Sync       SyncConfig       `yaml:"sync"`
}

// GraphConfig sizes the random graph used when no file is given.
type GraphConfig struct {
	Nodes int   `yaml:"nodes"`
	Edges int   `yaml:"edges"`
	Seed  int64 `yaml:"seed"`
}

type SimulationConfig struct {
	Charge        float64 `yaml:"charge"`
	LinkDistance  float64 `yaml:"link_distance"`
	AlphaMin      float64 `yaml:"alpha_min"`
	AlphaDecay    float64 `yaml:"alpha_decay"`
	VelocityDecay float64 `yaml:"velocity_decay"`
	Seed          int64   `yaml:"seed"`
	MaxTicks      int     `yaml:"max_ticks"`
}

type ViewConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	FPS        int    `yaml:"fps"`
	Theme      string `yaml:"theme"`
	ShowEnergy bool   `yaml:"show_energy"`
}

type AnimationConfig struct {
	Easing string `yaml:"easing"`
	Frames int    `yaml:"frames"`
}

type SyncConfig struct {
	PruneDangling bool `yaml:"prune_dangling"`
}

func DefaultConfig() *Config {
	return &Config{
		Graph: GraphConfig{Nodes: 24, Edges: 8, Seed: 1},
		Simulation: SimulationConfig{
			Charge:        DefaultCharge,
			LinkDistance:  DefaultLinkDistance,
			AlphaMin:      DefaultAlphaMin,
			VelocityDecay: 0.4,
			Seed:          1,
			MaxTicks:      DefaultMaxTicks,
		},
		View: ViewConfig{
			Width:      DefaultWidth,
			Height:     DefaultHeight,
			FPS:        DefaultFPS,
			Theme:      "default",
			ShowEnergy: true,
		},
		Animation: AnimationConfig{Easing: "easeOutQuart", Frames: DefaultFrames},
		Sync:      SyncConfig{PruneDangling: true},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
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
	switch {
	case c.Graph.Nodes < 0 || c.Graph.Edges < 0:
		return fmt.Errorf("%w: graph size must not be negative", ErrInvalid)
	case c.Simulation.LinkDistance < 0:
		return fmt.Errorf("%w: link_distance must not be negative, got %f", ErrInvalid, c.Simulation.LinkDistance)
	case c.Simulation.AlphaMin < 0 || c.Simulation.AlphaMin >= 1:
		return fmt.Errorf("%w: alpha_min must be in [0, 1), got %f", ErrInvalid, c.Simulation.AlphaMin)
	case c.Simulation.AlphaDecay < 0 || c.Simulation.AlphaDecay >= 1:
		return fmt.Errorf("%w: alpha_decay must be in [0, 1), got %f", ErrInvalid, c.Simulation.AlphaDecay)
	case c.Simulation.VelocityDecay < 0 || c.Simulation.VelocityDecay >= 1:
		return fmt.Errorf("%w: velocity_decay must be in [0, 1), got %f", ErrInvalid, c.Simulation.VelocityDecay)
	case c.View.Width <= 0 || c.View.Height <= 0:
		return fmt.Errorf("%w: view size must be positive, got %dx%d", ErrInvalid, c.View.Width, c.View.Height)
	case c.View.FPS <= 0:
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalid, c.View.FPS)
	case c.Animation.Frames < 0:
		return fmt.Errorf("%w: animation frames must not be negative", ErrInvalid)
	}
	if _, err := chart.EasingByName(c.Animation.Easing); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// LayoutParams converts the simulation section for the layout adapter.
func (c *Config) LayoutParams() layout.Params {
	return layout.Params{
		Charge:        c.Simulation.Charge,
		LinkDistance:  c.Simulation.LinkDistance,
		AlphaMin:      c.Simulation.AlphaMin,
		AlphaDecay:    c.Simulation.AlphaDecay,
		VelocityDecay: c.Simulation.VelocityDecay,
		Seed:          c.Simulation.Seed,
	}
}

// Easing returns the configured easing, falling back to easeOutQuart.
func (c *Config) Easing() chart.Easing {
	e, err := chart.EasingByName(c.Animation.Easing)
	if err != nil {
		return chart.EaseOutQuart
	}
	return e
}
