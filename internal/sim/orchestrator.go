package sim

import (
	"context"

	"github.com/san-kum/powersim/internal/control"
	"github.com/san-kum/powersim/internal/plant"
)

// Orchestrator owns the plant models and controllers and advances the
// whole system one tick at a time in a fixed coupling order. All
// mutable state stays inside; collaborators see only the Snapshot
// emitted after each tick.
type Orchestrator struct {
	cfg Config

	fuelCell *plant.FuelCell
	battery  *plant.Battery
	air      *plant.AirSupply

	loadCtl *control.Adaptive
	airCtl  *control.PID
	mode    *control.ModeSelector

	step     int
	time     float64
	load     float64
	torque   float64
	charging bool
	cooling  bool

	history   *History
	metrics   []Metric
	observers []Observer
}

// New builds an orchestrator from cfg. Construction fails if any
// run-level, plant or controller parameter is out of range; a
// constructed orchestrator never errors while ticking.
func New(cfg Config) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fc, err := plant.NewFuelCell(cfg.FuelCell, cfg.Dt)
	if err != nil {
		return nil, err
	}
	air, err := plant.NewAirSupply(cfg.Compressor, cfg.Manifold)
	if err != nil {
		return nil, err
	}

	loadPID, err := control.NewPID(cfg.Control.LoadPID.Kp, cfg.Control.LoadPID.Ki, cfg.Control.LoadPID.Kd, cfg.Dt)
	if err != nil {
		return nil, err
	}
	loadCtl := control.NewAdaptive(loadPID)
	if cfg.Control.AdaptiveThreshold > 0 {
		loadCtl.ErrThreshold = cfg.Control.AdaptiveThreshold
	}
	if cfg.Control.AdaptiveBoost > 0 {
		loadCtl.Boost = cfg.Control.AdaptiveBoost
	}

	airCtl, err := control.NewPID(cfg.Control.AirPID.Kp, cfg.Control.AirPID.Ki, cfg.Control.AirPID.Kd, cfg.Dt)
	if err != nil {
		return nil, err
	}
	mode, err := control.NewModeSelector(cfg.Control.HysteresisLower, cfg.Control.HysteresisUpper)
	if err != nil {
		return nil, err
	}

	return &Orchestrator{
		cfg:      cfg,
		fuelCell: fc,
		battery:  plant.NewBattery(cfg.Battery),
		air:      air,
		loadCtl:  loadCtl,
		airCtl:   airCtl,
		mode:     mode,
		history:  NewHistory(cfg.HistoryCapacity),
	}, nil
}

func (o *Orchestrator) AddMetric(m Metric) {
	o.metrics = append(o.metrics, m)
}

func (o *Orchestrator) AddObserver(obs Observer) {
	o.observers = append(o.observers, obs)
}

// Step advances the plant by one tick and returns the resulting
// snapshot. The coupling order is fixed: mode selection, stack
// sensing, air regulation, pneumatics, oxygen availability, load
// command, cooling, stack update, battery update.
func (o *Orchestrator) Step() Snapshot {
	dt := o.cfg.Dt
	ctl := o.cfg.Control

	o.step++
	o.time += dt

	o.charging = o.mode.Update(o.battery.SoC) == control.ModeCharging

	// Controllers act on the stack as sensed before this tick moves it.
	fc := plant.ReadFuelCell(o.fuelCell)

	o.torque = o.airCtl.Compute(ctl.OxygenSetpoint, fc.OxygenConcentration)

	massFlowOut := fc.HydrogenFlow * ctl.ConsumptionFactor
	o.air.Update(o.torque, dt, massFlowOut, !o.charging)

	oxygen := o.fuelCell.OxygenConcentrationFromPressure(o.air.Manifold.Pressure)

	if o.charging {
		o.load = ctl.ChargingCurrent
	} else {
		o.load = o.loadCtl.Compute(ctl.LoadSetpoint, fc.OxygenConcentration) + ctl.Disturbance
	}

	o.cooling = o.fuelCell.Temperature > ctl.CoolingThreshold

	o.fuelCell.Update(o.load, o.cooling, oxygen, ctl.Humidity)

	if o.charging {
		o.battery.Update(ctl.ChargingCurrent, 0, true)
	} else {
		o.battery.Update(0, o.load, false)
	}

	snap := o.Snapshot()
	o.history.Push(snap)
	for _, m := range o.metrics {
		m.Observe(snap)
	}
	for _, obs := range o.observers {
		obs.OnTick(snap)
	}
	return snap
}

// Snapshot captures the current plant state without advancing it.
func (o *Orchestrator) Snapshot() Snapshot {
	fc := plant.ReadFuelCell(o.fuelCell)
	bat := plant.ReadBattery(o.battery)

	return Snapshot{
		Step: o.step,
		Time: o.time,

		FuelCellVoltage:     fc.Voltage,
		FuelCellCurrent:     fc.Current,
		FuelCellTemperature: fc.Temperature,
		HydrogenFlow:        fc.HydrogenFlow,
		MembraneHydration:   o.fuelCell.MembraneHydration,
		OxygenConcentration: fc.OxygenConcentration,

		BatterySoC:         bat.SoC,
		BatteryVoltage:     bat.Voltage,
		BatteryCurrent:     bat.Current,
		BatteryTemperature: bat.Temperature,

		ManifoldPressure: o.air.Manifold.Pressure,
		CompressorSpeed:  o.air.Compressor.Speed,

		Load:        o.load,
		MotorTorque: o.torque,
		Charging:    o.charging,
		Cooling:     o.cooling,
	}
}

// History returns a copy of the retained snapshot log, oldest first.
func (o *Orchestrator) History() []Snapshot {
	return o.history.Snapshots()
}

// Done reports whether the configured duration has elapsed.
func (o *Orchestrator) Done() bool {
	return o.time >= o.cfg.Duration
}

func (o *Orchestrator) Config() Config {
	return o.cfg
}

// Run advances the plant tick by tick until the configured duration
// has elapsed. Cancellation is honored between ticks; a tick never
// stops midway.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	for _, m := range o.metrics {
		m.Reset()
	}

	steps := o.cfg.Steps()
	trace := make([]Snapshot, 0, steps)

	for !o.Done() {
		select {
		case <-ctx.Done():
			return o.result(trace), ctx.Err()
		default:
		}
		trace = append(trace, o.Step())
	}

	return o.result(trace), nil
}

// RunWithCallback is Run with a per-tick callback. Returning false
// from the callback stops the run early.
func (o *Orchestrator) RunWithCallback(ctx context.Context, callback func(Snapshot) bool) (*Result, error) {
	for _, m := range o.metrics {
		m.Reset()
	}

	steps := o.cfg.Steps()
	trace := make([]Snapshot, 0, steps)

	for !o.Done() {
		select {
		case <-ctx.Done():
			return o.result(trace), ctx.Err()
		default:
		}
		snap := o.Step()
		trace = append(trace, snap)
		if !callback(snap) {
			break
		}
	}

	return o.result(trace), nil
}

func (o *Orchestrator) result(trace []Snapshot) *Result {
	res := &Result{
		Snapshots: trace,
		Metrics:   make(map[string]float64),
	}
	for _, m := range o.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	return res
}
