package metrics

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/powersim/internal/sim"
)

// Stats is a distribution summary of one recorded series.
type Stats struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Median float64
}

// SeriesSummary records one scalar per tick and reports distribution
// statistics over the whole run. Value returns the mean, so a summary
// can stand in anywhere a plain metric is expected.
type SeriesSummary struct {
	name   string
	sample func(sim.Snapshot) float64
	values []float64
}

func NewSeriesSummary(name string, sample func(sim.Snapshot) float64) *SeriesSummary {
	return &SeriesSummary{
		name:   name,
		sample: sample,
	}
}

func (s *SeriesSummary) Name() string { return s.name }

func (s *SeriesSummary) Observe(snap sim.Snapshot) {
	s.values = append(s.values, s.sample(snap))
}

func (s *SeriesSummary) Value() float64 {
	if len(s.values) == 0 {
		return 0
	}
	return stat.Mean(s.values, nil)
}

func (s *SeriesSummary) Reset() {
	s.values = s.values[:0]
}

// Stats computes the full summary of the recorded series.
func (s *SeriesSummary) Stats() Stats {
	if len(s.values) == 0 {
		return Stats{}
	}

	sorted := append([]float64(nil), s.values...)
	sort.Float64s(sorted)

	return Stats{
		Mean:   stat.Mean(sorted, nil),
		StdDev: stat.StdDev(sorted, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
	}
}
