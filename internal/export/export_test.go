package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/powersim/internal/sim"
)

func sampleTrace() []sim.Snapshot {
	return []sim.Snapshot{
		{
			Step: 1, Time: 0.5,
			FuelCellVoltage: 58.2, FuelCellCurrent: 11.5, FuelCellTemperature: 45.1,
			HydrogenFlow: 1.6, MembraneHydration: 0.99, OxygenConcentration: 1.0,
			BatterySoC: 98.8, BatteryVoltage: 54.0, BatteryCurrent: -11.5, BatteryTemperature: 40.0,
			ManifoldPressure: 101325.0, CompressorSpeed: 0.0,
			Load: 11.5, MotorTorque: 0.0,
			Charging: false, Cooling: true,
		},
		{
			Step: 2, Time: 1.0,
			FuelCellVoltage: 57.9, FuelCellCurrent: 11.6, FuelCellTemperature: 45.3,
			HydrogenFlow: 1.62, MembraneHydration: 0.98, OxygenConcentration: 1.0,
			BatterySoC: 97.7, BatteryVoltage: 53.9, BatteryCurrent: 8.0, BatteryTemperature: 40.1,
			ManifoldPressure: 101325.0, CompressorSpeed: 0.0,
			Load: 8.0, MotorTorque: 0.0,
			Charging: true, Cooling: true,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleTrace()); err != nil {
		t.Fatalf("write csv failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}

	header := records[0]
	if header[0] != "step" || header[1] != "time" {
		t.Errorf("unexpected header start: %v", header[:2])
	}
	if len(header) != 18 {
		t.Errorf("expected 18 columns, got %d", len(header))
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	first := records[1]
	if first[col["step"]] != "1" {
		t.Errorf("expected step 1, got %s", first[col["step"]])
	}
	if first[col["soc"]] != "98.800000" {
		t.Errorf("expected soc 98.800000, got %s", first[col["soc"]])
	}
	if first[col["charging"]] != "0" || first[col["cooling"]] != "1" {
		t.Errorf("expected flags 0/1, got %s/%s", first[col["charging"]], first[col["cooling"]])
	}

	second := records[2]
	if second[col["charging"]] != "1" {
		t.Errorf("expected charging flag 1, got %s", second[col["charging"]])
	}
}

func TestCSVToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.csv")

	if err := CSVToFile(path, sampleTrace()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("trace.csv not created")
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	cfg := sim.DefaultConfig()
	result := &sim.Result{
		Snapshots: sampleTrace(),
		Metrics:   map[string]float64{"stack_energy": 334.9},
	}

	doc := NewDocument("run-42", cfg, result)

	var buf bytes.Buffer
	if err := WriteJSON(&buf, doc); err != nil {
		t.Fatalf("write json failed: %v", err)
	}

	var decoded Document
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if decoded.RunID != "run-42" {
		t.Errorf("expected run id 'run-42', got '%s'", decoded.RunID)
	}
	if decoded.Steps != 2 {
		t.Errorf("expected 2 steps, got %d", decoded.Steps)
	}
	if decoded.Dt != cfg.Dt {
		t.Errorf("expected dt %f, got %f", cfg.Dt, decoded.Dt)
	}
	if decoded.Metrics["stack_energy"] != 334.9 {
		t.Errorf("expected stack_energy 334.9, got %f", decoded.Metrics["stack_energy"])
	}
	if decoded.Snapshots[1].BatterySoC != 97.7 {
		t.Errorf("expected soc 97.7, got %f", decoded.Snapshots[1].BatterySoC)
	}
	if !decoded.Snapshots[1].Charging {
		t.Error("expected second snapshot to be charging")
	}
}

func TestJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")

	doc := NewDocument("run-7", sim.DefaultConfig(), &sim.Result{Snapshots: sampleTrace()})
	if err := JSONToFile(path, doc); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty export")
	}
}

func TestTrajectorySVG(t *testing.T) {
	xs := []float64{65, 70, 75, 70}
	ys := []float64{8, 8, -11, -11}

	svg := TrajectorySVG(xs, ys, 800, 600, "#00ccff")

	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("expected xml header")
	}
	if !strings.Contains(svg, `<svg xmlns`) || !strings.Contains(svg, "</svg>") {
		t.Error("expected svg envelope")
	}
	// 4 points give 3 line segments.
	if got := strings.Count(svg, " L"); got != 3 {
		t.Errorf("expected 3 line segments, got %d", got)
	}
}

func TestTrajectorySVGRejectsBadInput(t *testing.T) {
	if svg := TrajectorySVG([]float64{1}, []float64{2}, 100, 100, "#fff"); svg != "" {
		t.Error("expected empty output for a single point")
	}
	if svg := TrajectorySVG([]float64{1, 2, 3}, []float64{1, 2}, 100, 100, "#fff"); svg != "" {
		t.Error("expected empty output for mismatched lengths")
	}
}
