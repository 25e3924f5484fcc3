package analysis

import (
	"strings"

	"github.com/san-kum/powersim/internal/sim"
)

// Point is one sample in a two-channel scatter.
type Point struct{ X, Y float64 }

// Portrait is a 2D scatter of one sampled channel against another.
// Plotting battery state of charge against battery current traces the
// hysteresis loop of the mode selector.
type Portrait struct {
	XLabel, YLabel string
	Points         []Point
}

// NewPortrait samples two channels over a trace.
func NewPortrait(snapshots []sim.Snapshot, xLabel string, x func(sim.Snapshot) float64, yLabel string, y func(sim.Snapshot) float64) *Portrait {
	p := &Portrait{
		XLabel: xLabel,
		YLabel: yLabel,
		Points: make([]Point, 0, len(snapshots)),
	}
	for _, s := range snapshots {
		p.Points = append(p.Points, Point{X: x(s), Y: y(s)})
	}
	return p
}

// Bounds returns the raw extent of the scatter before padding.
func (p *Portrait) Bounds() (minX, maxX, minY, maxY float64) {
	if len(p.Points) == 0 {
		return 0, 0, 0, 0
	}
	minX, maxX = p.Points[0].X, p.Points[0].X
	minY, maxY = p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		if pt.X < minX {
			minX = pt.X
		}
		if pt.X > maxX {
			maxX = pt.X
		}
		if pt.Y < minY {
			minY = pt.Y
		}
		if pt.Y > maxY {
			maxY = pt.Y
		}
	}
	return minX, maxX, minY, maxY
}

// ASCII renders the portrait on a width by height character canvas,
// with the zero axes drawn where they cross the visible range.
func (p *Portrait) ASCII(width, height int) string {
	if len(p.Points) == 0 {
		return ""
	}

	minX, maxX, minY, maxY := p.Bounds()

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
