package scenario

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/powersim/internal/sim"
)

// MonteCarlo runs randomized trials around a base configuration,
// perturbing the initial battery charge and the load disturbance, and
// flags trials that depleted the battery or overheated the stack.
type MonteCarlo struct {
	Trials     int
	Seed       int64   // 0 seeds from the clock
	SoCSpread  float64 // ± percentage points on initial SoC
	LoadSpread float64 // ± amps on the load disturbance
	TempLimit  float64 // °C, 0 disables the overheat check
}

// Trial is the outcome of one randomized run.
type Trial struct {
	ID          int
	InitialSoC  float64
	Disturbance float64
	FinalSoC    float64
	MaxTemp     float64
	Depleted    bool
	Overheated  bool
}

func (t Trial) Stable() bool {
	return !t.Depleted && !t.Overheated
}

func (m MonteCarlo) Run(ctx context.Context, base sim.Config) ([]Trial, error) {
	if m.Trials <= 0 {
		return nil, fmt.Errorf("trial count must be positive, got %d", m.Trials)
	}

	seed := m.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	// All perturbations are drawn up front so the trial set depends
	// only on the seed; the runs themselves execute in parallel.
	configs := make([]sim.Config, m.Trials)
	for i := range configs {
		cfg := base
		cfg.Battery.InitialSoC = clamp(base.Battery.InitialSoC+(rng.Float64()-0.5)*2*m.SoCSpread, 0, 100)
		cfg.Control.Disturbance = math.Max(0, base.Control.Disturbance+(rng.Float64()-0.5)*2*m.LoadSpread)
		configs[i] = cfg
	}

	results, err := sim.NewSweep(configs).Run(ctx)
	if err != nil {
		return nil, err
	}

	trials := make([]Trial, len(results))
	for i, res := range results {
		trial := Trial{
			ID:          i,
			InitialSoC:  configs[i].Battery.InitialSoC,
			Disturbance: configs[i].Control.Disturbance,
			FinalSoC:    res.Final().BatterySoC,
		}

		maxTemp := math.Inf(-1)
		for _, s := range res.Snapshots {
			if s.FuelCellTemperature > maxTemp {
				maxTemp = s.FuelCellTemperature
			}
			if s.BatterySoC <= 0 {
				trial.Depleted = true
			}
		}
		if len(res.Snapshots) > 0 {
			trial.MaxTemp = maxTemp
		}
		if m.TempLimit > 0 && trial.MaxTemp > m.TempLimit {
			trial.Overheated = true
		}

		trials[i] = trial
	}
	return trials, nil
}

// StableCount tallies stable and unstable trials.
func StableCount(trials []Trial) (stable, unstable int) {
	for _, t := range trials {
		if t.Stable() {
			stable++
		} else {
			unstable++
		}
	}
	return
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
