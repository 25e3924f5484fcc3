package telemetry

import (
	"context"
	"net/http"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/san-kum/powersim/internal/logger"
	"github.com/san-kum/powersim/internal/sim"
)

// InfluxSink writes tick snapshots to an InfluxDB instance using the
// official client. Each snapshot becomes one bms_metrics point tagged
// with the run ID, timestamped at run start plus simulated time.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	runID    string
	start    time.Time
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig, runID string) *InfluxSink {
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		runID:    runID,
		start:    time.Now(),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig, runID string) Sink {
	sink := NewInfluxSink(cfg, runID)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return NopSink{}
	}
	return sink
}

// Record writes the snapshot as one line-protocol point.
func (s *InfluxSink) Record(snap sim.Snapshot) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("bms_metrics").
		AddTag("run_id", s.runID).
		AddField("voltage", snap.FuelCellVoltage).
		AddField("current", snap.FuelCellCurrent).
		AddField("temperature", snap.FuelCellTemperature).
		AddField("hydration", snap.MembraneHydration).
		AddField("oxygen", snap.OxygenConcentration).
		AddField("soc", snap.BatterySoC).
		AddField("battery_voltage", snap.BatteryVoltage).
		AddField("battery_current", snap.BatteryCurrent).
		AddField("battery_temp", snap.BatteryTemperature).
		AddField("manifold_pressure", snap.ManifoldPressure).
		AddField("compressor_speed", snap.CompressorSpeed).
		AddField("charging_mode", boolToInt(snap.Charging)).
		AddField("cooling_active", boolToInt(snap.Cooling)).
		SetTime(s.pointTime(snap))
	return s.writeAPI.WritePoint(ctx, p)
}

func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

func (s *InfluxSink) pointTime(snap sim.Snapshot) time.Time {
	return s.start.Add(time.Duration(snap.Time * float64(time.Second)))
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
