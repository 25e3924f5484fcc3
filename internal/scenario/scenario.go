// Package scenario runs scripted batches of simulations: named phase
// sequences loaded from YAML, one-parameter sweeps, and Monte Carlo
// perturbation trials. Every run starts from a fresh plant; batches
// vary operating parameters, never carried-over state.
package scenario

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/powersim/internal/config"
	"github.com/san-kum/powersim/internal/sim"
)

// Scenario is a scripted sequence of independent runs.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description,omitempty"`
	Phases      []Phase `yaml:"phases"`
}

// Phase is one scripted run. Zero-valued fields inherit the base
// configuration; a named preset replaces the base entirely before the
// remaining overrides apply.
type Phase struct {
	Name        string  `yaml:"name"`
	Preset      string  `yaml:"preset,omitempty"`
	Duration    float64 `yaml:"duration,omitempty"`
	Dt          float64 `yaml:"dt,omitempty"`
	InitialSoC  float64 `yaml:"initial_soc,omitempty"`
	Setpoint    float64 `yaml:"setpoint,omitempty"`
	Disturbance float64 `yaml:"disturbance,omitempty"`
}

// PhaseResult is the outcome of one completed phase.
type PhaseResult struct {
	Phase   string
	Steps   int
	Final   sim.Snapshot
	Metrics map[string]float64
}

// Load reads a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if len(s.Phases) == 0 {
		return nil, fmt.Errorf("scenario %s has no phases", s.Name)
	}
	return &s, nil
}

func (p Phase) config(base sim.Config) (sim.Config, error) {
	cfg := base
	if p.Preset != "" {
		preset := config.GetPreset(p.Preset)
		if preset == nil {
			return cfg, fmt.Errorf("unknown preset: %s", p.Preset)
		}
		cfg = preset.Sim
	}

	if p.Duration > 0 {
		cfg.Duration = p.Duration
	}
	if p.Dt > 0 {
		cfg.Dt = p.Dt
	}
	if p.InitialSoC > 0 {
		cfg.Battery.InitialSoC = p.InitialSoC
	}
	if p.Setpoint > 0 {
		cfg.Control.LoadSetpoint = p.Setpoint
	}
	if p.Disturbance > 0 {
		cfg.Control.Disturbance = p.Disturbance
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Run executes every phase in order. buildMetrics, when non-nil,
// supplies the metrics attached to each phase run. On error the
// results of the completed phases are still returned.
func Run(ctx context.Context, s *Scenario, base sim.Config, buildMetrics func(sim.Config) []sim.Metric) ([]PhaseResult, error) {
	results := make([]PhaseResult, 0, len(s.Phases))

	for i, phase := range s.Phases {
		name := phase.Name
		if name == "" {
			name = fmt.Sprintf("phase %d", i+1)
		}

		cfg, err := phase.config(base)
		if err != nil {
			return results, fmt.Errorf("phase %s: %w", name, err)
		}

		orch, err := sim.New(cfg)
		if err != nil {
			return results, fmt.Errorf("phase %s: %w", name, err)
		}
		if buildMetrics != nil {
			for _, m := range buildMetrics(cfg) {
				orch.AddMetric(m)
			}
		}

		result, err := orch.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("phase %s: %w", name, err)
		}

		results = append(results, PhaseResult{
			Phase:   name,
			Steps:   len(result.Snapshots),
			Final:   result.Final(),
			Metrics: result.Metrics,
		})
	}

	return results, nil
}
