package sim

// Snapshot is a read-only view of the plant after a completed tick.
// Snapshots are plain values; handing one out never exposes live
// simulation state.
type Snapshot struct {
	Step int     `json:"step"`
	Time float64 `json:"time"`

	FuelCellVoltage     float64 `json:"voltage"`
	FuelCellCurrent     float64 `json:"current"`
	FuelCellTemperature float64 `json:"temperature"`
	HydrogenFlow        float64 `json:"hydrogen_flow"`
	MembraneHydration   float64 `json:"hydration"`
	OxygenConcentration float64 `json:"oxygen"`

	BatterySoC         float64 `json:"soc"`
	BatteryVoltage     float64 `json:"battery_voltage"`
	BatteryCurrent     float64 `json:"battery_current"`
	BatteryTemperature float64 `json:"battery_temp"`

	ManifoldPressure float64 `json:"manifold_pressure"`
	CompressorSpeed  float64 `json:"compressor_speed"`

	Load        float64 `json:"load"`
	MotorTorque float64 `json:"motor_torque"`
	Charging    bool    `json:"charging"`
	Cooling     bool    `json:"cooling"`
}

// Observer receives every completed tick. Callbacks run on the
// stepping goroutine, so a slow observer delays the next tick.
type Observer interface {
	OnTick(snap Snapshot)
}

// Metric aggregates a scalar over a run.
type Metric interface {
	Name() string
	Observe(snap Snapshot)
	Value() float64
	Reset()
}

// Result holds the full trace of a batch run plus final metric values.
type Result struct {
	Snapshots []Snapshot
	Metrics   map[string]float64
}

// Final returns the last snapshot of the run.
func (r *Result) Final() Snapshot {
	if len(r.Snapshots) == 0 {
		return Snapshot{}
	}
	return r.Snapshots[len(r.Snapshots)-1]
}
