package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/powersim/internal/sim"
)

// PromSink mirrors the latest tick into Prometheus gauges. The scrape
// endpoint is served separately by StartPromServer.
type PromSink struct {
	voltage   prometheus.Gauge
	current   prometheus.Gauge
	temp      prometheus.Gauge
	hydration prometheus.Gauge
	oxygen    prometheus.Gauge
	soc       prometheus.Gauge
	pressure  prometheus.Gauge
	speed     prometheus.Gauge
	load      prometheus.Gauge
	charging  prometheus.Gauge
	ticks     prometheus.Counter
}

// NewPromSink registers the simulation gauges on the default Prometheus
// registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{}

	gauges := []struct {
		target *prometheus.Gauge
		name   string
		help   string
	}{
		{&s.voltage, "powersim_stack_voltage_volts", "Fuel cell stack terminal voltage"},
		{&s.current, "powersim_stack_current_amps", "Fuel cell stack current"},
		{&s.temp, "powersim_stack_temperature_celsius", "Fuel cell stack temperature"},
		{&s.hydration, "powersim_membrane_hydration", "Membrane hydration level"},
		{&s.oxygen, "powersim_oxygen_concentration", "Normalized oxygen availability"},
		{&s.soc, "powersim_battery_soc_percent", "Battery state of charge"},
		{&s.pressure, "powersim_manifold_pressure_pascals", "Air manifold pressure"},
		{&s.speed, "powersim_compressor_speed_rad_per_s", "Compressor rotor speed"},
		{&s.load, "powersim_commanded_load_amps", "Commanded load current"},
		{&s.charging, "powersim_charging_mode", "1 while charging, 0 while discharging"},
	}
	for _, g := range gauges {
		gauge, err := registerGauge(reg, g.name, g.help)
		if err != nil {
			return nil, err
		}
		*g.target = gauge
	}

	ticks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "powersim_ticks_total",
		Help: "Total completed simulation ticks",
	})
	if err := reg.Register(ticks); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			ticks = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	s.ticks = ticks

	return s, nil
}

func registerGauge(reg prometheus.Registerer, name, help string) (prometheus.Gauge, error) {
	g := prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help})
	if err := reg.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(prometheus.Gauge), nil
		}
		return nil, err
	}
	return g, nil
}

// Record sets every gauge from the snapshot.
func (s *PromSink) Record(snap sim.Snapshot) error {
	s.voltage.Set(snap.FuelCellVoltage)
	s.current.Set(snap.FuelCellCurrent)
	s.temp.Set(snap.FuelCellTemperature)
	s.hydration.Set(snap.MembraneHydration)
	s.oxygen.Set(snap.OxygenConcentration)
	s.soc.Set(snap.BatterySoC)
	s.pressure.Set(snap.ManifoldPressure)
	s.speed.Set(snap.CompressorSpeed)
	s.load.Set(snap.Load)
	if snap.Charging {
		s.charging.Set(1)
	} else {
		s.charging.Set(0)
	}
	s.ticks.Inc()
	return nil
}

func (s *PromSink) Close() error { return nil }
