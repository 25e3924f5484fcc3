package telemetry

// NewSink assembles the sink set enabled by cfg. With nothing enabled
// the result is a NopSink, so callers can always record
// unconditionally.
func NewSink(cfg Config, runID string) (Sink, error) {
	var sinks []Sink

	if cfg.Influx.Enabled {
		sinks = append(sinks, NewInfluxSinkWithFallback(cfg.Influx, runID))
	}
	if cfg.MQTT.Enabled {
		s, err := NewMQTTSink(cfg.MQTT)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	if cfg.Prometheus.Enabled {
		s, err := NewPromSink()
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}

	switch len(sinks) {
	case 0:
		return NopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return NewMultiSink(sinks...), nil
	}
}
