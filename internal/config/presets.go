package config

import "sort"

var Presets = map[string]SimulationConfig{
	"default": {
		Charge: DefaultCharge, LinkDistance: DefaultLinkDistance, AlphaMin: DefaultAlphaMin,
		VelocityDecay: 0.4, Seed: 1, MaxTicks: DefaultMaxTicks,
	},
	"tight": {
		Charge: -8, LinkDistance: 12, AlphaMin: DefaultAlphaMin,
		VelocityDecay: 0.5, Seed: 1, MaxTicks: DefaultMaxTicks,
	},
	"loose": {
		Charge: -120, LinkDistance: 60, AlphaMin: 0.0005,
		VelocityDecay: 0.3, Seed: 1, MaxTicks: 2 * DefaultMaxTicks,
	},
	"quick": {
		Charge: DefaultCharge, LinkDistance: DefaultLinkDistance, AlphaMin: 0.01,
		AlphaDecay: 0.05, VelocityDecay: 0.5, Seed: 1, MaxTicks: 200,
	},
}

// GetPreset returns the default config with the named simulation preset, or
// nil when there is no such preset.
func GetPreset(name string) *Config {
	sim, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Simulation = sim
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
