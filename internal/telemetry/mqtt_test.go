package telemetry

import (
	"encoding/json"
	"testing"
)

// The published payload is the snapshot's JSON form; downstream
// consumers key on these field names.
func TestSnapshotPayloadFields(t *testing.T) {
	payload, err := json.Marshal(testSnapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(payload, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{
		"step", "time", "voltage", "current", "temperature",
		"hydration", "oxygen", "soc", "battery_voltage",
		"manifold_pressure", "compressor_speed", "load", "charging", "cooling",
	} {
		if _, ok := fields[key]; !ok {
			t.Errorf("payload missing field %q", key)
		}
	}

	if got, ok := fields["soc"].(float64); !ok || got != 98.8 {
		t.Errorf("expected soc 98.8, got %v", fields["soc"])
	}
}

func TestFactoryReturnsNopWhenDisabled(t *testing.T) {
	sink, err := NewSink(Config{}, "run-1")
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	if _, ok := sink.(NopSink); !ok {
		t.Errorf("expected NopSink with no sections enabled, got %T", sink)
	}
}
