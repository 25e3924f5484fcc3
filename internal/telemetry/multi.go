package telemetry

import "github.com/san-kum/powersim/internal/sim"

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// Record forwards the snapshot to all sinks, returning the first error
// encountered.
func (m *MultiSink) Record(snap sim.Snapshot) error {
	for _, s := range m.Sinks {
		if err := s.Record(snap); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink, returning the first error encountered.
func (m *MultiSink) Close() error {
	var first error
	for _, s := range m.Sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
