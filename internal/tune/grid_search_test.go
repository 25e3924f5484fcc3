package tune

import (
	"context"
	"fmt"
	"math"
	"testing"
)

func TestGridSearchFindsMinimum(t *testing.T) {
	gs := NewGridSearch(
		Linspace("kp", 0.0, 1.0, 11),
		Axis{Name: "ki", Values: []float64{0.1, 0.3, 0.5}},
	)

	point, val, err := gs.Search(context.Background(), func(_ context.Context, p map[string]float64) (float64, error) {
		dkp := p["kp"] - 0.7
		dki := p["ki"] - 0.3
		return dkp*dkp + dki*dki, nil
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if math.Abs(point["kp"]-0.7) > 1e-9 {
		t.Errorf("expected kp near 0.7, got %f", point["kp"])
	}
	if point["ki"] != 0.3 {
		t.Errorf("expected ki 0.3, got %f", point["ki"])
	}
	if val > 1e-9 {
		t.Errorf("expected near-zero objective at the minimum, got %g", val)
	}
}

func TestGridSearchSkipsFailedPoints(t *testing.T) {
	gs := NewGridSearch(Linspace("x", 0.0, 1.0, 5))

	point, val, err := gs.Search(context.Background(), func(_ context.Context, p map[string]float64) (float64, error) {
		if p["x"] > 0.5 {
			return 0, fmt.Errorf("unstable at x=%f", p["x"])
		}
		return -p["x"], nil
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	// The true minimum lies in the failing region, so the best
	// surviving point is the largest x that still evaluated.
	if point["x"] != 0.5 {
		t.Errorf("expected best x 0.5, got %f", point["x"])
	}
	if val != -0.5 {
		t.Errorf("expected objective -0.5, got %f", val)
	}
}

func TestGridSearchHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gs := NewGridSearch(Linspace("x", 0.0, 1.0, 5))
	_, _, err := gs.Search(ctx, func(context.Context, map[string]float64) (float64, error) {
		t.Fatal("objective must not run after cancellation")
		return 0, nil
	})
	if err == nil {
		t.Fatal("expected a cancellation error")
	}
}

func TestLinspace(t *testing.T) {
	axis := Linspace("x", 2.0, 4.0, 5)
	if len(axis.Values) != 5 {
		t.Fatalf("expected 5 values, got %d", len(axis.Values))
	}
	if axis.Values[0] != 2.0 || axis.Values[4] != 4.0 {
		t.Errorf("expected endpoints 2 and 4, got %f and %f", axis.Values[0], axis.Values[4])
	}
	if math.Abs(axis.Values[2]-3.0) > 1e-12 {
		t.Errorf("expected midpoint 3, got %f", axis.Values[2])
	}

	single := Linspace("x", 1.0, 9.0, 1)
	if len(single.Values) != 1 || single.Values[0] != 1.0 {
		t.Errorf("expected degenerate axis [1], got %v", single.Values)
	}
}

func TestPoints(t *testing.T) {
	gs := NewGridSearch(
		Linspace("a", 0, 1, 3),
		Linspace("b", 0, 1, 4),
		Axis{Name: "c", Values: []float64{1, 2}},
	)
	if got := gs.Points(); got != 24 {
		t.Errorf("expected 24 grid points, got %d", got)
	}
}
