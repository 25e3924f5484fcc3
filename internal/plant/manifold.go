package plant

import "fmt"

// Gas constant for air [J/(kg·K)].
const rAir = 287.0

// ManifoldParams holds the reservoir constants supplied at
// construction. The vent and control gains come in charge/discharge
// pairs; discharge mode relieves pressure harder.
type ManifoldParams struct {
	Volume                 float64 `yaml:"volume" koanf:"volume"`                                   // [m³]
	Temperature            float64 `yaml:"temperature" koanf:"temperature"`                         // [K]
	InitialPressure        float64 `yaml:"initial_pressure" koanf:"initial_pressure"`               // [Pa]
	TargetPressure         float64 `yaml:"target_pressure" koanf:"target_pressure"`                 // vent/control engage above this [Pa]
	LeakGain               float64 `yaml:"leak_gain" koanf:"leak_gain"`                             // [1/s]
	VentGainCharging       float64 `yaml:"vent_gain_charging" koanf:"vent_gain_charging"`           // [1/s]
	VentGainDischarging    float64 `yaml:"vent_gain_discharging" koanf:"vent_gain_discharging"`     // [1/s]
	ControlGainCharging    float64 `yaml:"control_gain_charging" koanf:"control_gain_charging"`     // [1/s]
	ControlGainDischarging float64 `yaml:"control_gain_discharging" koanf:"control_gain_discharging"` // [1/s]
}

// DefaultManifoldParams returns the reference manifold parameters.
func DefaultManifoldParams() ManifoldParams {
	return ManifoldParams{
		Volume:                 0.05,
		Temperature:            298.15,
		InitialPressure:        AmbientPressure,
		TargetPressure:         380000.0,
		LeakGain:               0.05,
		VentGainCharging:       0.05,
		VentGainDischarging:    0.1,
		ControlGainCharging:    0.1,
		ControlGainDischarging: 0.2,
	}
}

// Manifold is the lumped-volume air reservoir between the compressor
// outlet and the stack inlet. Pressure follows an ideal-gas mass
// balance with three subtractive terms: a baseline leak proportional
// to over-pressure, and vent and proportional-control terms that
// engage only above the target pressure. The subtractive terms keep
// the pressure bounded and give the pneumatic loop a settling point
// that depends on the operating mode.
type Manifold struct {
	Pressure float64 // manifold pressure [Pa], floored at ambient

	params ManifoldParams
}

// NewManifold builds a reservoir at its initial pressure, floored at
// ambient.
func NewManifold(params ManifoldParams) (*Manifold, error) {
	if params.Volume <= 0 {
		return nil, fmt.Errorf("manifold volume must be positive, got %f", params.Volume)
	}
	if params.Temperature <= 0 {
		return nil, fmt.Errorf("manifold temperature must be positive, got %f", params.Temperature)
	}
	pressure := params.InitialPressure
	if pressure < AmbientPressure {
		pressure = AmbientPressure
	}
	return &Manifold{Pressure: pressure, params: params}, nil
}

// Update advances pressure one step from the net mass flow and the
// relief terms.
func (m *Manifold) Update(massFlowIn, massFlowOut, dt float64, discharging bool) {
	dpMass := (rAir * m.params.Temperature / m.params.Volume) * (massFlowIn - massFlowOut) * dt

	dpLeak := m.params.LeakGain * (m.Pressure - AmbientPressure) * dt

	ventGain := m.params.VentGainCharging
	controlGain := m.params.ControlGainCharging
	if discharging {
		ventGain = m.params.VentGainDischarging
		controlGain = m.params.ControlGainDischarging
	}
	var dpVent, dpControl float64
	if m.Pressure > m.params.TargetPressure {
		over := m.Pressure - m.params.TargetPressure
		dpVent = ventGain * over * dt
		dpControl = controlGain * over * dt
	}

	m.Pressure += dpMass - dpLeak - dpVent - dpControl
	if m.Pressure < AmbientPressure {
		m.Pressure = AmbientPressure
	}
}
