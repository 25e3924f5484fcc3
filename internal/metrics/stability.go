package metrics

import (
	"github.com/san-kum/powersim/internal/sim"
)

// ThermalStability reports the fraction of ticks the stack stayed at
// or below a temperature limit.
type ThermalStability struct {
	name       string
	limit      float64
	violations int
	samples    int
}

func NewThermalStability(limit float64) *ThermalStability {
	return &ThermalStability{
		name:  "thermal_stability",
		limit: limit,
	}
}

func (s *ThermalStability) Name() string {
	return s.name
}

func (s *ThermalStability) Observe(snap sim.Snapshot) {
	s.samples++
	if snap.FuelCellTemperature > s.limit {
		s.violations++
	}
}

func (s *ThermalStability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *ThermalStability) Reset() {
	s.violations = 0
	s.samples = 0
}

// ModeSwitches counts charge/discharge transitions over the run.
// Heavy switching indicates the hysteresis band is too narrow for the
// load profile.
type ModeSwitches struct {
	name     string
	seen     bool
	prev     bool
	switches int
}

func NewModeSwitches() *ModeSwitches {
	return &ModeSwitches{
		name: "mode_switches",
	}
}

func (m *ModeSwitches) Name() string {
	return m.name
}

func (m *ModeSwitches) Observe(snap sim.Snapshot) {
	if m.seen && snap.Charging != m.prev {
		m.switches++
	}
	m.seen = true
	m.prev = snap.Charging
}

func (m *ModeSwitches) Value() float64 {
	return float64(m.switches)
}

func (m *ModeSwitches) Reset() {
	m.seen = false
	m.prev = false
	m.switches = 0
}
