package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/powersim/internal/sim"
)

func TestDominantPeriodFindsSineCycle(t *testing.T) {
	// 64 samples at dt 0.5 with a 16-sample cycle: period 8 seconds.
	dt := 0.5
	values := make([]float64, 64)
	for i := range values {
		values[i] = 70 + 5*math.Sin(2*math.Pi*float64(i)/16)
	}

	period, ok := DominantPeriod(values, dt)
	if !ok {
		t.Fatal("expected a dominant period")
	}
	if math.Abs(period-8.0) > 1e-9 {
		t.Errorf("expected period 8.0, got %f", period)
	}
}

func TestDominantPeriodRejectsFlatSeries(t *testing.T) {
	values := make([]float64, 32)
	for i := range values {
		values[i] = 100.0
	}

	if _, ok := DominantPeriod(values, 0.5); ok {
		t.Error("expected no dominant period for a flat series")
	}
}

func TestDominantPeriodRejectsShortSeries(t *testing.T) {
	if _, ok := DominantPeriod([]float64{1, 2, 3}, 0.5); ok {
		t.Error("expected no dominant period for a short series")
	}
}

func TestPowerSpectrumPeakBin(t *testing.T) {
	values := make([]float64, 32)
	for i := range values {
		values[i] = math.Sin(2 * math.Pi * float64(i) / 8)
	}

	ps := PowerSpectrum(values)
	if len(ps) == 0 {
		t.Fatal("expected a non-empty spectrum")
	}

	// 32 samples with an 8-sample cycle peak at bin 4.
	maxIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > ps[maxIdx] {
			maxIdx = i
		}
	}
	if maxIdx != 4 {
		t.Errorf("expected peak at bin 4, got %d", maxIdx)
	}
}

func TestPortraitASCII(t *testing.T) {
	snaps := []sim.Snapshot{
		{BatterySoC: 65, BatteryCurrent: 8},
		{BatterySoC: 70, BatteryCurrent: 8},
		{BatterySoC: 75, BatteryCurrent: -11},
		{BatterySoC: 70, BatteryCurrent: -11},
	}

	p := NewPortrait(snaps,
		"soc", func(s sim.Snapshot) float64 { return s.BatterySoC },
		"battery_current", func(s sim.Snapshot) float64 { return s.BatteryCurrent },
	)

	if len(p.Points) != 4 {
		t.Fatalf("expected 4 points, got %d", len(p.Points))
	}

	minX, maxX, minY, maxY := p.Bounds()
	if minX != 65 || maxX != 75 {
		t.Errorf("expected x bounds [65, 75], got [%f, %f]", minX, maxX)
	}
	if minY != -11 || maxY != 8 {
		t.Errorf("expected y bounds [-11, 8], got [%f, %f]", minY, maxY)
	}

	out := p.ASCII(40, 12)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 12 {
		t.Fatalf("expected 12 canvas rows, got %d", len(lines))
	}
	if !strings.Contains(out, "•") {
		t.Error("expected plotted points in canvas")
	}
	// The current range spans zero, so the horizontal axis is drawn.
	if !strings.Contains(out, "─") {
		t.Error("expected zero axis in canvas")
	}
}

func TestPortraitEmptyTrace(t *testing.T) {
	p := NewPortrait(nil,
		"x", func(s sim.Snapshot) float64 { return s.Time },
		"y", func(s sim.Snapshot) float64 { return s.Load },
	)
	if out := p.ASCII(10, 5); out != "" {
		t.Errorf("expected empty render, got %q", out)
	}
}
