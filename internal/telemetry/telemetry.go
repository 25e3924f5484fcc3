package telemetry

import (
	"github.com/san-kum/powersim/internal/logger"
	"github.com/san-kum/powersim/internal/sim"
)

// Sink receives one record per completed tick.
type Sink interface {
	Record(snap sim.Snapshot) error
	Close() error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) Record(sim.Snapshot) error { return nil }
func (NopSink) Close() error              { return nil }

// Config defines settings for telemetry sinks. Disabled sections are
// never dialed.
type Config struct {
	Influx     InfluxConfig `yaml:"influx" koanf:"influx"`
	MQTT       MQTTConfig   `yaml:"mqtt" koanf:"mqtt"`
	Prometheus PromConfig   `yaml:"prometheus" koanf:"prometheus"`
}

type InfluxConfig struct {
	Enabled bool   `yaml:"enabled" koanf:"enabled"`
	URL     string `yaml:"url" koanf:"url"`
	Token   string `yaml:"token" koanf:"token"`
	Org     string `yaml:"org" koanf:"org"`
	Bucket  string `yaml:"bucket" koanf:"bucket"`
}

type MQTTConfig struct {
	Enabled  bool   `yaml:"enabled" koanf:"enabled"`
	Broker   string `yaml:"broker" koanf:"broker"`
	ClientID string `yaml:"client_id" koanf:"client_id"`
	Topic    string `yaml:"topic" koanf:"topic"`
	Username string `yaml:"username" koanf:"username"`
	Password string `yaml:"password" koanf:"password"`
	QoS      byte   `yaml:"qos" koanf:"qos"`
}

type PromConfig struct {
	Enabled bool   `yaml:"enabled" koanf:"enabled"`
	Addr    string `yaml:"addr" koanf:"addr"`
}

func DefaultConfig() Config {
	return Config{
		Influx: InfluxConfig{
			URL:    "http://localhost:8086",
			Org:    "powersim",
			Bucket: "powersim",
		},
		MQTT: MQTTConfig{
			Broker:   "tcp://localhost:1883",
			ClientID: "powersim",
			Topic:    "powersim/telemetry",
			QoS:      1,
		},
		Prometheus: PromConfig{
			Addr: ":9090",
		},
	}
}

// Observer adapts a Sink to the simulator's per-tick callback. Record
// failures are logged, not propagated; telemetry never interrupts a
// run.
type Observer struct {
	sink Sink
	log  logger.Logger
}

func NewObserver(sink Sink, log logger.Logger) *Observer {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Observer{sink: sink, log: log}
}

func (o *Observer) OnTick(snap sim.Snapshot) {
	if err := o.sink.Record(snap); err != nil {
		o.log.Errorf("telemetry record failed at step %d: %v", snap.Step, err)
	}
}
