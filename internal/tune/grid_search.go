package tune

import (
	"context"
	"math"
)

// Axis is one named parameter dimension of a grid search.
type Axis struct {
	Name   string
	Values []float64
}

// Linspace builds an axis of n evenly spaced values from min to max
// inclusive. n below 2 collapses to the single value min.
func Linspace(name string, min, max float64, n int) Axis {
	if n < 2 {
		return Axis{Name: name, Values: []float64{min}}
	}
	step := (max - min) / float64(n-1)
	values := make([]float64, n)
	for i := range values {
		values[i] = min + float64(i)*step
	}
	return Axis{Name: name, Values: values}
}

// GridSearch walks the cartesian product of its axes and keeps the
// point with the lowest objective value. A failing evaluation skips
// that point rather than aborting the search.
type GridSearch struct {
	axes []Axis
}

func NewGridSearch(axes ...Axis) *GridSearch {
	return &GridSearch{axes: axes}
}

// Points returns the number of grid points the search will evaluate.
func (g *GridSearch) Points() int {
	n := 1
	for _, axis := range g.axes {
		n *= len(axis.Values)
	}
	return n
}

func (g *GridSearch) Search(ctx context.Context, objective func(ctx context.Context, point map[string]float64) (float64, error)) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestPoint map[string]float64

	if err := g.walk(ctx, 0, make(map[string]float64), objective, &best, &bestPoint); err != nil {
		return nil, 0, err
	}
	return bestPoint, best, nil
}

func (g *GridSearch) walk(
	ctx context.Context,
	depth int,
	point map[string]float64,
	objective func(ctx context.Context, point map[string]float64) (float64, error),
	best *float64,
	bestPoint *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.axes) {
		val, err := objective(ctx, point)
		if err != nil {
			return nil
		}
		if val < *best {
			*best = val
			kept := make(map[string]float64, len(point))
			for k, v := range point {
				kept[k] = v
			}
			*bestPoint = kept
		}
		return nil
	}

	axis := g.axes[depth]
	for _, val := range axis.Values {
		next := make(map[string]float64, len(point)+1)
		for k, v := range point {
			next[k] = v
		}
		next[axis.Name] = val

		if err := g.walk(ctx, depth+1, next, objective, best, bestPoint); err != nil {
			return err
		}
	}
	return nil
}
