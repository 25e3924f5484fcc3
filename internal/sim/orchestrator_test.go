package sim

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/powersim/internal/plant"
)

func newTestOrchestrator(t *testing.T, mutate func(*Config)) *Orchestrator {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	o, err := New(cfg)
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}
	return o
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"inverted hysteresis", func(c *Config) { c.Control.HysteresisLower = 80 }},
		{"zero thermal mass", func(c *Config) { c.FuelCell.ThermalMass = 0 }},
		{"zero limiting current", func(c *Config) { c.FuelCell.LimitingCurrent = 0 }},
		{"zero manifold volume", func(c *Config) { c.Manifold.Volume = 0 }},
		{"zero compressor inertia", func(c *Config) { c.Compressor.Inertia = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := New(cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSnapshotBeforeFirstTick(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	snap := o.Snapshot()

	if snap.Step != 0 || snap.Time != 0 {
		t.Errorf("expected step 0 at t=0, got step %d t=%f", snap.Step, snap.Time)
	}
	if snap.FuelCellVoltage != 60.0 {
		t.Errorf("expected open-circuit voltage 60, got %f", snap.FuelCellVoltage)
	}
	if snap.BatterySoC != 100.0 {
		t.Errorf("expected full battery, got soc %f", snap.BatterySoC)
	}
	if snap.ManifoldPressure != plant.AmbientPressure {
		t.Errorf("expected ambient manifold pressure, got %f", snap.ManifoldPressure)
	}
	if snap.CompressorSpeed != 0 {
		t.Errorf("expected compressor at rest, got %f", snap.CompressorSpeed)
	}
	if snap.Charging || snap.Cooling {
		t.Error("expected discharging mode with cooling off before the first tick")
	}
}

func TestFirstTickDischargesFullBattery(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	snap := o.Step()

	if snap.Step != 1 {
		t.Fatalf("expected step 1, got %d", snap.Step)
	}
	if snap.Time != 0.5 {
		t.Errorf("expected t=0.5, got %f", snap.Time)
	}
	if snap.Charging {
		t.Error("full battery should start discharging")
	}
	// Commanded load is the regulator output plus the disturbance term.
	if snap.Load <= 10.0 || snap.Load >= 13.0 {
		t.Errorf("expected load slightly above the disturbance, got %f", snap.Load)
	}
	if snap.FuelCellCurrent != snap.Load {
		t.Errorf("stack current should equal commanded load: %f vs %f", snap.FuelCellCurrent, snap.Load)
	}
	if snap.BatterySoC <= 98.0 || snap.BatterySoC >= 100.0 {
		t.Errorf("expected soc just below full, got %f", snap.BatterySoC)
	}
	if snap.BatteryCurrent != -snap.Load {
		t.Errorf("discharge current should mirror the load: %f vs %f", snap.BatteryCurrent, -snap.Load)
	}
	// With the manifold pinned at ambient, normalized oxygen
	// availability saturates at 1.
	if snap.OxygenConcentration != 1.0 {
		t.Errorf("expected saturated oxygen availability, got %f", snap.OxygenConcentration)
	}
	if snap.ManifoldPressure != plant.AmbientPressure {
		t.Errorf("expected manifold floored at ambient, got %f", snap.ManifoldPressure)
	}
}

func TestCoolingFlagFollowsTemperatureThreshold(t *testing.T) {
	t.Run("above threshold", func(t *testing.T) {
		o := newTestOrchestrator(t, nil)
		if snap := o.Step(); !snap.Cooling {
			t.Error("expected cooling active at 45 degrees")
		}
	})

	t.Run("below threshold", func(t *testing.T) {
		o := newTestOrchestrator(t, func(c *Config) { c.FuelCell.InitialTemp = 40 })
		if snap := o.Step(); snap.Cooling {
			t.Error("expected cooling inactive at 40 degrees")
		}
	})
}

func TestLowBatteryTickCharges(t *testing.T) {
	o := newTestOrchestrator(t, func(c *Config) { c.Battery.InitialSoC = 50 })

	snap := o.Step()

	if !snap.Charging {
		t.Fatal("expected charging mode below the lower threshold")
	}
	if snap.Load != 8.0 {
		t.Errorf("expected fixed charging current 8, got %f", snap.Load)
	}
	if snap.BatteryCurrent != 8.0 {
		t.Errorf("expected battery current 8, got %f", snap.BatteryCurrent)
	}
	if math.Abs(snap.BatterySoC-50.8) > 1e-9 {
		t.Errorf("expected soc 50.8, got %f", snap.BatterySoC)
	}
}

func TestModeOscillatesAcrossRun(t *testing.T) {
	o := newTestOrchestrator(t, func(c *Config) { c.Battery.InitialSoC = 50 })

	result, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	var charged, discharged bool
	for _, snap := range result.Snapshots {
		if snap.BatterySoC < 0 || snap.BatterySoC > 100 {
			t.Fatalf("soc out of range at step %d: %f", snap.Step, snap.BatterySoC)
		}
		if snap.Charging {
			charged = true
			if snap.Load != 8.0 {
				t.Fatalf("charging tick %d should command 8 A, got %f", snap.Step, snap.Load)
			}
		} else {
			discharged = true
			if snap.Load <= 10.0 {
				t.Fatalf("discharging tick %d should exceed the disturbance, got %f", snap.Step, snap.Load)
			}
		}
	}

	if !charged || !discharged {
		t.Errorf("expected both modes over the run: charged=%v discharged=%v", charged, discharged)
	}
}

func TestRunCollectsFullTrace(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	result, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Snapshots) != 120 {
		t.Fatalf("expected 120 snapshots, got %d", len(result.Snapshots))
	}
	if got := result.Final(); got.Step != 120 || math.Abs(got.Time-60.0) > 1e-9 {
		t.Errorf("expected final step 120 at t=60, got step %d t=%f", got.Step, got.Time)
	}

	for i := 1; i < len(result.Snapshots); i++ {
		if result.Snapshots[i].Time <= result.Snapshots[i-1].Time {
			t.Fatalf("time not monotonic at index %d", i)
		}
	}
}

func TestHistoryStaysBounded(t *testing.T) {
	o := newTestOrchestrator(t, func(c *Config) { c.HistoryCapacity = 10 })

	if _, err := o.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	history := o.History()
	if len(history) != 10 {
		t.Fatalf("expected history capped at 10, got %d", len(history))
	}
	if history[0].Step != 111 || history[9].Step != 120 {
		t.Errorf("expected newest ten steps, got %d..%d", history[0].Step, history[9].Step)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := o.Run(ctx)
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(result.Snapshots) != 0 {
		t.Errorf("expected no completed ticks, got %d", len(result.Snapshots))
	}
}

type tickCounter struct {
	count int
}

func (m *tickCounter) Name() string { return "ticks" }
func (m *tickCounter) Observe(Snapshot) {
	m.count++
}
func (m *tickCounter) Value() float64 {
	return float64(m.count)
}
func (m *tickCounter) Reset() {
	m.count = 0
}

type stepRecorder struct {
	steps []int
}

func (r *stepRecorder) OnTick(snap Snapshot) {
	r.steps = append(r.steps, snap.Step)
}

func TestMetricsObservedEveryTick(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	metric := &tickCounter{}
	o.AddMetric(metric)

	result, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if got, ok := result.Metrics["ticks"]; !ok || got != 120 {
		t.Errorf("expected 120 observations in result, got %f (present=%v)", got, ok)
	}
}

func TestObserverNotifiedPerTick(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	rec := &stepRecorder{}
	o.AddObserver(rec)

	o.Step()
	o.Step()

	if len(rec.steps) != 2 || rec.steps[0] != 1 || rec.steps[1] != 2 {
		t.Errorf("expected observer calls for steps 1,2, got %v", rec.steps)
	}
}

func TestRunWithCallbackStopsEarly(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	result, err := o.RunWithCallback(context.Background(), func(snap Snapshot) bool {
		return snap.Step < 5
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Snapshots) != 5 {
		t.Errorf("expected 5 snapshots before stop, got %d", len(result.Snapshots))
	}
}
