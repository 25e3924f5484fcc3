package plant

import (
	"fmt"
	"math"
)

// CompressorParams holds the rotor and map constants supplied at
// construction.
type CompressorParams struct {
	Inertia       float64 `yaml:"inertia" koanf:"inertia"`                 // combined motor and rotor inertia [kg·m²]
	FlowConstant  float64 `yaml:"flow_constant" koanf:"flow_constant"`     // map scaling constant [kg/s per rad/s]
	FlowDecay     float64 `yaml:"flow_decay" koanf:"flow_decay"`           // map decay vs. pressure ratio
	TorquePerFlow float64 `yaml:"torque_per_flow" koanf:"torque_per_flow"` // load torque per unit mass flow [N·m per kg/s]
}

// DefaultCompressorParams returns the reference compressor parameters.
func DefaultCompressorParams() CompressorParams {
	return CompressorParams{
		Inertia:       0.1,
		FlowConstant:  0.001,
		FlowDecay:     1.0,
		TorquePerFlow: 50.0,
	}
}

// Compressor models the air compressor rotor. Speed integrates the
// torque imbalance over the inertia; delivered mass flow follows a
// simplified exponential compressor map that falls off as the
// outlet/inlet pressure ratio rises, standing in for the stall region
// of a real map.
type Compressor struct {
	Speed float64 // rotational speed [rad/s], never negative

	params CompressorParams
}

// NewCompressor builds a compressor at standstill.
func NewCompressor(params CompressorParams) (*Compressor, error) {
	if params.Inertia <= 0 {
		return nil, fmt.Errorf("compressor inertia must be positive, got %f", params.Inertia)
	}
	return &Compressor{params: params}, nil
}

// Update integrates rotor speed from the torque imbalance, floored at
// standstill.
func (c *Compressor) Update(motorTorque, loadTorque, dt float64) {
	c.Speed += dt * (motorTorque - loadTorque) / c.params.Inertia
	if c.Speed < 0 {
		c.Speed = 0
	}
}

// MassFlow returns the delivered mass flow [kg/s] at the current speed
// for the given inlet and outlet pressures. The simplified map ignores
// inlet temperature.
func (c *Compressor) MassFlow(inletPressure, inletTemp, outletPressure float64) float64 {
	ratio := outletPressure / inletPressure
	return c.Speed * c.params.FlowConstant * math.Exp(-c.params.FlowDecay*(ratio-1.0))
}

// LoadTorque returns the shaft torque demanded by the flow the
// compressor is currently producing.
func (c *Compressor) LoadTorque(inletPressure, inletTemp, outletPressure float64) float64 {
	return c.params.TorquePerFlow * c.MassFlow(inletPressure, inletTemp, outletPressure)
}
