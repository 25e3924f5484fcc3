package config

import (
	"sort"

	"github.com/san-kum/powersim/internal/sim"
)

func preset(mutate func(*sim.Config)) *Config {
	cfg := DefaultConfig()
	mutate(&cfg.Sim)
	return cfg
}

// Presets are named starting conditions for the reference plant.
var Presets = map[string]*Config{
	"baseline": preset(func(s *sim.Config) {}),
	"depleted": preset(func(s *sim.Config) {
		s.Battery.InitialSoC = 20
	}),
	"hot-start": preset(func(s *sim.Config) {
		s.FuelCell.InitialTemp = 55
	}),
	"dry-membrane": preset(func(s *sim.Config) {
		s.FuelCell.InitialHydration = 0.3
		s.Control.Humidity = 0.4
	}),
	"stress": preset(func(s *sim.Config) {
		s.Duration = 120
		s.Control.LoadSetpoint = 3.0
		s.Control.Disturbance = 14.0
	}),
}

// GetPreset returns a copy of the named preset, or nil if it does not
// exist.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
