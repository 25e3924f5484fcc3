package plant

import (
	"fmt"
	"math"
)

// AmbientPressure is sea-level atmospheric pressure [Pa]. The manifold
// floors at it and the oxygen-availability proxy normalizes against it.
const AmbientPressure = 101325.0

// Membrane hydration operating range.
const (
	minHydration = 0.1
	maxHydration = 1.0
)

// Fixed stack characterization constants. The saturation penalty
// replaces the concentration-loss logarithm at or beyond the limiting
// current; the derating factors apply below the starvation and dryness
// thresholds and compose multiplicatively.
const (
	concSaturationPenalty = 0.5
	heatPerAmp            = 2.5
	starvationThreshold   = 0.3
	starvationDerate      = 0.85
	drynessThreshold      = 0.5
	drynessDerate         = 0.9
	atmosphericOxygen     = 0.21
)

// FuelCellParams holds the stack constants supplied at construction.
type FuelCellParams struct {
	BaseOCV               float64 `yaml:"base_ocv" koanf:"base_ocv"`                             // base open-circuit voltage [V]
	RInternal             float64 `yaml:"r_internal" koanf:"r_internal"`                         // base internal resistance [Ohm]
	ThermalMass           float64 `yaml:"thermal_mass" koanf:"thermal_mass"`                     // [J/°C]
	CoolingEfficiency     float64 `yaml:"cooling_efficiency" koanf:"cooling_efficiency"`         // cooling rate with cooling active
	IdleCoolingRate       float64 `yaml:"idle_cooling_rate" koanf:"idle_cooling_rate"`           // cooling rate with cooling inactive
	AmbientTemp           float64 `yaml:"ambient_temp" koanf:"ambient_temp"`                     // [°C]
	ActivationConstant    float64 `yaml:"activation_constant" koanf:"activation_constant"`       // activation loss parameter [V]
	ExchangeCurrent       float64 `yaml:"exchange_current" koanf:"exchange_current"`             // exchange current I0 [A]
	ConcentrationConstant float64 `yaml:"concentration_constant" koanf:"concentration_constant"` // concentration loss parameter [V]
	LimitingCurrent       float64 `yaml:"limiting_current" koanf:"limiting_current"`             // limiting current [A]
	HydrationTimeConstant float64 `yaml:"hydration_time_constant" koanf:"hydration_time_constant"` // [s]
	TempCoefficient       float64 `yaml:"temp_coefficient" koanf:"temp_coefficient"`             // OCV drop per °C above ambient [V/°C]
	InitialTemp           float64 `yaml:"initial_temp" koanf:"initial_temp"`                     // [°C]
	InitialHydration      float64 `yaml:"initial_hydration" koanf:"initial_hydration"`
}

// DefaultFuelCellParams returns the reference stack parameters.
func DefaultFuelCellParams() FuelCellParams {
	return FuelCellParams{
		BaseOCV:               60.0,
		RInternal:             0.1,
		ThermalMass:           120.0,
		CoolingEfficiency:     1.2,
		IdleCoolingRate:       0.7,
		AmbientTemp:           20.0,
		ActivationConstant:    0.1,
		ExchangeCurrent:       0.2,
		ConcentrationConstant: 0.08,
		LimitingCurrent:       1.5,
		HydrationTimeConstant: 10.0,
		TempCoefficient:       0.05,
		InitialTemp:           45.0,
		InitialHydration:      1.0,
	}
}

// FuelCell models a PEM stack: polarization losses over a
// temperature-corrected open-circuit voltage, first-order membrane
// hydration, and lumped thermal dynamics. Low hydration raises the
// effective ohmic resistance, which is the coupling that makes the
// hydration state matter electrically.
type FuelCell struct {
	Voltage             float64 // stack voltage [V]
	Current             float64 // current drawn [A]
	HydrogenFlow        float64 // hydrogen flow rate
	Temperature         float64 // cell temperature [°C]
	MembraneHydration   float64 // hydration level, clamped to [0.1, 1.0]
	OxygenConcentration float64 // oxygen concentration seen at the last update [0, 1]

	params FuelCellParams
	dt     float64
}

// NewFuelCell builds a stack at open circuit. dt is the fixed step
// applied to the hydration and thermal integrations.
func NewFuelCell(params FuelCellParams, dt float64) (*FuelCell, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("fuel cell dt must be positive, got %f", dt)
	}
	if params.ThermalMass <= 0 {
		return nil, fmt.Errorf("fuel cell thermal mass must be positive, got %f", params.ThermalMass)
	}
	if params.HydrationTimeConstant <= 0 {
		return nil, fmt.Errorf("fuel cell hydration time constant must be positive, got %f", params.HydrationTimeConstant)
	}
	if params.ExchangeCurrent <= 0 {
		return nil, fmt.Errorf("fuel cell exchange current must be positive, got %f", params.ExchangeCurrent)
	}
	if params.LimitingCurrent <= 0 {
		return nil, fmt.Errorf("fuel cell limiting current must be positive, got %f", params.LimitingCurrent)
	}
	return &FuelCell{
		Voltage:             params.BaseOCV,
		HydrogenFlow:        1.0,
		Temperature:         params.InitialTemp,
		MembraneHydration:   clamp(params.InitialHydration, minHydration, maxHydration),
		OxygenConcentration: atmosphericOxygen,
		params:              params,
		dt:                  dt,
	}, nil
}

// Update advances the stack one time step.
//
// load is the commanded current [A]; coolingActive selects between the
// active and idle cooling rates; oxygen is the measured oxygen
// concentration [0, 1]; humidity is the hydration level the membrane
// relaxes toward [0, 1].
func (f *FuelCell) Update(load float64, coolingActive bool, oxygen, humidity float64) {
	f.Current = load

	effectiveOCV := f.params.BaseOCV - f.params.TempCoefficient*(f.Temperature-f.params.AmbientTemp)

	// Activation loss: A * ln(1 + I/I0).
	vAct := f.params.ActivationConstant * math.Log(1.0+load/f.params.ExchangeCurrent)

	// Ohmic loss: a dry membrane amplifies the base resistance.
	effectiveR := f.params.RInternal / f.MembraneHydration
	vOhm := load * effectiveR

	// Concentration loss: -B * ln(1 - I/I_lim) below the limiting
	// current, saturated penalty at or beyond it.
	vConc := concSaturationPenalty
	if load < f.params.LimitingCurrent {
		vConc = -f.params.ConcentrationConstant * math.Log(1.0-load/f.params.LimitingCurrent)
	}

	f.Voltage = effectiveOCV - (vAct + vOhm + vConc)
	if oxygen < starvationThreshold {
		f.Voltage *= starvationDerate
	}
	if f.MembraneHydration < drynessThreshold {
		f.Voltage *= drynessDerate
	}

	f.HydrogenFlow = 1.0 + 0.07*math.Pow(load, 0.9)

	// Hydration relaxes toward the supplied humidity.
	f.MembraneHydration += f.dt * (humidity - f.MembraneHydration) / f.params.HydrationTimeConstant
	f.MembraneHydration = clamp(f.MembraneHydration, minHydration, maxHydration)

	coolingRate := f.params.IdleCoolingRate
	if coolingActive {
		coolingRate = f.params.CoolingEfficiency
	}
	f.Temperature += f.dt * (load*heatPerAmp - coolingRate*(f.Temperature-f.params.AmbientTemp)) / f.params.ThermalMass

	f.OxygenConcentration = oxygen
}

// OxygenConcentrationFromPressure converts manifold pressure into a
// normalized oxygen availability figure, saturating at 1.0 once the
// manifold is at or above atmospheric pressure.
func (f *FuelCell) OxygenConcentrationFromPressure(pressure float64) float64 {
	return math.Min(1.0, pressure/AmbientPressure)
}

// Params returns the construction-time stack constants.
func (f *FuelCell) Params() FuelCellParams {
	return f.params
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
