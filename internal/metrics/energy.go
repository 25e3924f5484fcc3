package metrics

import (
	"math"

	"github.com/san-kum/powersim/internal/sim"
)

// StackEnergy integrates fuel cell electrical output over the run.
type StackEnergy struct {
	name  string
	dt    float64
	total float64
}

func NewStackEnergy(dt float64) *StackEnergy {
	return &StackEnergy{
		name: "stack_energy",
		dt:   dt,
	}
}

func (e *StackEnergy) Name() string { return e.name }

func (e *StackEnergy) Observe(snap sim.Snapshot) {
	e.total += snap.FuelCellVoltage * snap.FuelCellCurrent * e.dt
}

// Value returns accumulated stack output in joules.
func (e *StackEnergy) Value() float64 {
	return e.total
}

func (e *StackEnergy) Reset() {
	e.total = 0
}

// BatteryThroughput accumulates absolute battery current over the run,
// charging and discharging alike.
type BatteryThroughput struct {
	name  string
	dt    float64
	total float64
}

func NewBatteryThroughput(dt float64) *BatteryThroughput {
	return &BatteryThroughput{
		name: "battery_throughput",
		dt:   dt,
	}
}

func (b *BatteryThroughput) Name() string { return b.name }

func (b *BatteryThroughput) Observe(snap sim.Snapshot) {
	b.total += math.Abs(snap.BatteryCurrent) * b.dt
}

// Value returns total charge moved in amp seconds.
func (b *BatteryThroughput) Value() float64 {
	return b.total
}

func (b *BatteryThroughput) Reset() {
	b.total = 0
}
