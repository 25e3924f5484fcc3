package sim

import (
	"fmt"

	"github.com/san-kum/powersim/internal/plant"
)

// PIDGains is one controller gain triple.
type PIDGains struct {
	Kp float64 `yaml:"kp" koanf:"kp"`
	Ki float64 `yaml:"ki" koanf:"ki"`
	Kd float64 `yaml:"kd" koanf:"kd"`
}

// ControlConfig collects the supervisory control parameters: the load
// and air regulators, the charge/discharge hysteresis band, and the
// fixed operating inputs applied every tick.
type ControlConfig struct {
	LoadPID           PIDGains `yaml:"load_pid" koanf:"load_pid"`
	LoadSetpoint      float64  `yaml:"load_setpoint" koanf:"load_setpoint"`
	Disturbance       float64  `yaml:"disturbance" koanf:"disturbance"`
	AdaptiveThreshold float64  `yaml:"adaptive_threshold" koanf:"adaptive_threshold"`
	AdaptiveBoost     float64  `yaml:"adaptive_boost" koanf:"adaptive_boost"`

	AirPID         PIDGains `yaml:"air_pid" koanf:"air_pid"`
	OxygenSetpoint float64  `yaml:"oxygen_setpoint" koanf:"oxygen_setpoint"`

	HysteresisLower float64 `yaml:"hysteresis_lower" koanf:"hysteresis_lower"`
	HysteresisUpper float64 `yaml:"hysteresis_upper" koanf:"hysteresis_upper"`
	ChargingCurrent float64 `yaml:"charging_current" koanf:"charging_current"`

	CoolingThreshold  float64 `yaml:"cooling_threshold" koanf:"cooling_threshold"`
	Humidity          float64 `yaml:"humidity" koanf:"humidity"`
	ConsumptionFactor float64 `yaml:"consumption_factor" koanf:"consumption_factor"`
}

// Config is everything an Orchestrator needs at construction time.
type Config struct {
	Dt              float64 `yaml:"dt" koanf:"dt"`
	Duration        float64 `yaml:"duration" koanf:"duration"`
	HistoryCapacity int     `yaml:"history_capacity" koanf:"history_capacity"`

	FuelCell   plant.FuelCellParams   `yaml:"fuel_cell" koanf:"fuel_cell"`
	Battery    plant.BatteryParams    `yaml:"battery" koanf:"battery"`
	Compressor plant.CompressorParams `yaml:"compressor" koanf:"compressor"`
	Manifold   plant.ManifoldParams   `yaml:"manifold" koanf:"manifold"`

	Control ControlConfig `yaml:"control" koanf:"control"`
}

// DefaultConfig returns the reference run: a 60 second mission at a
// half-second tick, which fills the history ring exactly once.
func DefaultConfig() Config {
	return Config{
		Dt:              0.5,
		Duration:        60.0,
		HistoryCapacity: 120,

		FuelCell:   plant.DefaultFuelCellParams(),
		Battery:    plant.DefaultBatteryParams(),
		Compressor: plant.DefaultCompressorParams(),
		Manifold:   plant.DefaultManifoldParams(),

		Control: ControlConfig{
			LoadPID:           PIDGains{Kp: 0.5, Ki: 0.1, Kd: 0.01},
			LoadSetpoint:      2.0,
			Disturbance:       10.0,
			AdaptiveThreshold: 1.0,
			AdaptiveBoost:     1.5,

			AirPID:         PIDGains{Kp: 0.5, Ki: 0.05, Kd: 0.05},
			OxygenSetpoint: 0.21,

			HysteresisLower: 65.0,
			HysteresisUpper: 75.0,
			ChargingCurrent: 8.0,

			CoolingThreshold:  44.0,
			Humidity:          0.8,
			ConsumptionFactor: 0.05,
		},
	}
}

// Validate checks the run-level parameters. Plant and controller
// parameters are validated by their own constructors.
func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	if c.HistoryCapacity <= 0 {
		return fmt.Errorf("history capacity must be positive, got %d", c.HistoryCapacity)
	}
	return nil
}

// Steps returns the number of ticks in a full run.
func (c Config) Steps() int {
	return int(c.Duration / c.Dt)
}
