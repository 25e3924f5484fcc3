package sim

import (
	"context"
	"time"

	"github.com/san-kum/powersim/internal/logger"
)

// Runner drives an orchestrator in real time, one tick per wall-clock
// interval. Everything runs on the caller's goroutine; observers that
// lag delay the next tick rather than overlapping it.
type Runner struct {
	orch     *Orchestrator
	interval time.Duration
	log      logger.Logger
}

// NewRunner schedules orch at its configured dt, so one simulated
// second takes one wall-clock second.
func NewRunner(orch *Orchestrator, log logger.Logger) *Runner {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Runner{
		orch:     orch,
		interval: time.Duration(orch.Config().Dt * float64(time.Second)),
		log:      log,
	}
}

// SetInterval overrides the wall-clock tick interval. Simulated time
// still advances by dt per tick.
func (r *Runner) SetInterval(d time.Duration) {
	if d > 0 {
		r.interval = d
	}
}

// Run ticks the orchestrator until the configured duration elapses or
// ctx is canceled.
func (r *Runner) Run(ctx context.Context) error {
	cfg := r.orch.Config()
	r.log.Infof("starting run: dt=%.2fs duration=%.0fs interval=%s", cfg.Dt, cfg.Duration, r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Infof("run canceled after %d steps", r.orch.Snapshot().Step)
			return ctx.Err()
		case <-ticker.C:
			snap := r.orch.Step()
			r.log.Debugw("tick", map[string]any{
				"step":     snap.Step,
				"t":        snap.Time,
				"voltage":  snap.FuelCellVoltage,
				"soc":      snap.BatterySoC,
				"pressure": snap.ManifoldPressure,
				"charging": snap.Charging,
			})
			if r.orch.Done() {
				r.log.Infof("run complete: %d steps, %.1fs simulated", snap.Step, snap.Time)
				return nil
			}
		}
	}
}
