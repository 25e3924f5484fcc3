package plant

// State-of-charge gain per amp of net current over one tick [%/A].
const socPerAmp = 0.1

// Open-circuit voltage curve: ocvBase + ocvCurve*(soc/100)^2.
const (
	ocvBase  = 47.0
	ocvCurve = 6.0
)

// BatteryParams holds the pack constants supplied at construction.
type BatteryParams struct {
	InitialSoC  float64 `yaml:"initial_soc" koanf:"initial_soc"`   // [%]
	InitialTemp float64 `yaml:"initial_temp" koanf:"initial_temp"` // [°C]
	RInternal   float64 `yaml:"r_internal" koanf:"r_internal"`     // [Ohm]
}

// DefaultBatteryParams returns the reference pack parameters.
func DefaultBatteryParams() BatteryParams {
	return BatteryParams{
		InitialSoC:  100.0,
		InitialTemp: 40.0,
		RInternal:   0.1,
	}
}

// Battery integrates state of charge from net current and derives the
// terminal voltage from a nonlinear open-circuit voltage minus the
// resistive drop.
type Battery struct {
	SoC         float64 // state of charge [%], clamped to [0, 100]
	Voltage     float64 // terminal voltage [V]
	Current     float64 // net current [A], positive while charging
	Temperature float64 // pack temperature [°C]

	rInternal float64
}

// NewBattery builds a pack at rest.
func NewBattery(params BatteryParams) *Battery {
	return &Battery{
		SoC:         clamp(params.InitialSoC, 0, 100),
		Voltage:     53.0,
		Temperature: params.InitialTemp,
		rInternal:   params.RInternal,
	}
}

// Update applies one tick of net current. In charging mode the
// discharge demand is ignored entirely rather than netted out.
func (b *Battery) Update(chargeCurrent, dischargeCurrent float64, charging bool) {
	net := chargeCurrent
	if !charging {
		net = chargeCurrent - dischargeCurrent
	}

	b.SoC = clamp(b.SoC+net*socPerAmp, 0, 100)

	frac := b.SoC / 100.0
	ocv := ocvBase + ocvCurve*frac*frac
	b.Voltage = ocv - net*b.rInternal
	b.Current = net
}
