package scenario

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/powersim/internal/metrics"
	"github.com/san-kum/powersim/internal/sim"
)

// ApplyParam sets one named scalar on a config. The names mirror the
// CLI flags.
func ApplyParam(cfg *sim.Config, name string, value float64) error {
	switch name {
	case "setpoint":
		cfg.Control.LoadSetpoint = value
	case "disturbance":
		cfg.Control.Disturbance = value
	case "dt":
		cfg.Dt = value
	case "initial_soc":
		cfg.Battery.InitialSoC = value
	case "hysteresis_lower":
		cfg.Control.HysteresisLower = value
	case "hysteresis_upper":
		cfg.Control.HysteresisUpper = value
	case "charging_current":
		cfg.Control.ChargingCurrent = value
	case "cooling_threshold":
		cfg.Control.CoolingThreshold = value
	default:
		return fmt.Errorf("unknown sweep parameter: %s", name)
	}
	return nil
}

// Sweep varies one parameter across an evenly spaced range and runs
// every point in parallel.
type Sweep struct {
	Param string
	Min   float64
	Max   float64
	Steps int
}

// Point is the outcome at one swept value.
type Point struct {
	Value        float64
	FinalSoC     float64
	MaxTemp      float64
	StackEnergy  float64
	ModeSwitches int
}

func (s Sweep) Run(ctx context.Context, base sim.Config) ([]Point, error) {
	if s.Steps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", s.Steps)
	}
	if s.Min >= s.Max {
		return nil, fmt.Errorf("sweep range must satisfy min < max, got [%f, %f]", s.Min, s.Max)
	}

	step := (s.Max - s.Min) / float64(s.Steps-1)
	values := make([]float64, s.Steps)
	configs := make([]sim.Config, s.Steps)
	for i := range values {
		values[i] = s.Min + float64(i)*step

		cfg := base
		if err := ApplyParam(&cfg, s.Param, values[i]); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s=%f: %w", s.Param, values[i], err)
		}
		configs[i] = cfg
	}

	results, err := sim.NewSweep(configs).Run(ctx)
	if err != nil {
		return nil, err
	}

	points := make([]Point, len(results))
	for i, res := range results {
		points[i] = summarize(values[i], configs[i], res)
	}
	return points, nil
}

func summarize(value float64, cfg sim.Config, res *sim.Result) Point {
	if len(res.Snapshots) == 0 {
		return Point{Value: value}
	}

	energy := metrics.NewStackEnergy(cfg.Dt)
	switches := metrics.NewModeSwitches()
	maxTemp := math.Inf(-1)
	for _, s := range res.Snapshots {
		energy.Observe(s)
		switches.Observe(s)
		if s.FuelCellTemperature > maxTemp {
			maxTemp = s.FuelCellTemperature
		}
	}

	return Point{
		Value:        value,
		FinalSoC:     res.Final().BatterySoC,
		MaxTemp:      maxTemp,
		StackEnergy:  energy.Value(),
		ModeSwitches: int(switches.Value()),
	}
}
