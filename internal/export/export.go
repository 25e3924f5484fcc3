package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/san-kum/powersim/internal/sim"
)

// csvHeader is the column order for trace exports. Flag columns carry
// 0/1 so the file loads cleanly into numeric tooling.
var csvHeader = []string{
	"step", "time",
	"voltage", "current", "temperature", "hydrogen_flow", "hydration", "oxygen",
	"soc", "battery_voltage", "battery_current", "battery_temp",
	"manifold_pressure", "compressor_speed",
	"load", "motor_torque", "charging", "cooling",
}

// Document is the JSON export shape for one completed run.
type Document struct {
	RunID     string             `json:"run_id"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Snapshots []sim.Snapshot     `json:"snapshots"`
	Metrics   map[string]float64 `json:"metrics"`
}

func NewDocument(runID string, cfg sim.Config, result *sim.Result) *Document {
	return &Document{
		RunID:     runID,
		Timestamp: time.Now(),
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Steps:     len(result.Snapshots),
		Snapshots: result.Snapshots,
		Metrics:   result.Metrics,
	}
}

func WriteJSON(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func JSONToFile(path string, doc *Document) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, doc)
}

func WriteCSV(w io.Writer, snapshots []sim.Snapshot) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, s := range snapshots {
		row := []string{
			strconv.Itoa(s.Step),
			formatFloat(s.Time),
			formatFloat(s.FuelCellVoltage),
			formatFloat(s.FuelCellCurrent),
			formatFloat(s.FuelCellTemperature),
			formatFloat(s.HydrogenFlow),
			formatFloat(s.MembraneHydration),
			formatFloat(s.OxygenConcentration),
			formatFloat(s.BatterySoC),
			formatFloat(s.BatteryVoltage),
			formatFloat(s.BatteryCurrent),
			formatFloat(s.BatteryTemperature),
			formatFloat(s.ManifoldPressure),
			formatFloat(s.CompressorSpeed),
			formatFloat(s.Load),
			formatFloat(s.MotorTorque),
			flag(s.Charging),
			flag(s.Cooling),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func CSVToFile(path string, snapshots []sim.Snapshot) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteCSV(file, snapshots)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
