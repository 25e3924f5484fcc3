package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/powersim/internal/sim"
)

func TestModeSwitchesCountsTransitions(t *testing.T) {
	m := NewModeSwitches()

	for _, charging := range []bool{false, false, true, true, false} {
		m.Observe(sim.Snapshot{Charging: charging})
	}

	if m.Value() != 2 {
		t.Errorf("expected 2 switches, got %f", m.Value())
	}

	m.Reset()
	m.Observe(sim.Snapshot{Charging: true})
	if m.Value() != 0 {
		t.Error("first observation after reset is not a switch")
	}
}

func TestSeriesSummaryStats(t *testing.T) {
	m := NewSeriesSummary("soc", func(snap sim.Snapshot) float64 { return snap.BatterySoC })

	for _, soc := range []float64{30, 10, 20} {
		m.Observe(sim.Snapshot{BatterySoC: soc})
	}

	if m.Value() != 20 {
		t.Errorf("expected mean 20, got %f", m.Value())
	}

	stats := m.Stats()
	if stats.Min != 10 || stats.Max != 30 {
		t.Errorf("expected range [10,30], got [%f,%f]", stats.Min, stats.Max)
	}
	if stats.Median != 20 {
		t.Errorf("expected median 20, got %f", stats.Median)
	}
	if math.Abs(stats.StdDev-10) > 1e-9 {
		t.Errorf("expected stddev 10, got %f", stats.StdDev)
	}
}

func TestSeriesSummaryEmpty(t *testing.T) {
	m := NewSeriesSummary("load", func(snap sim.Snapshot) float64 { return snap.Load })

	if m.Value() != 0 {
		t.Error("expected zero mean with no samples")
	}

	stats := m.Stats()
	if stats.Mean != 0 || stats.Min != 0 || stats.Max != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}
