package progress

import (
	"strconv"
	"strings"
)

// Point is a position inside the chart viewport.
type Point struct {
	X, Y float64
}

// Chart is a series laid out for a dual-axis line plot. Each line is scaled
// against its own maximum so both fit the same viewport.
type Chart struct {
	Width, Height float64
	Pad           float64
	Weight        []Point
	Reps          []Point
	MaxWeight     float64
	MaxReps       int
	Labels        []string
}

// Layout scales s into a width×height viewport with pad on every side.
func Layout(s Series, width, height, pad float64) Chart {
	c := Chart{Width: width, Height: height, Pad: pad, Labels: s.Labels}
	for _, w := range s.TotalWeight {
		c.MaxWeight = max(c.MaxWeight, w)
	}
	for _, r := range s.TotalReps {
		c.MaxReps = max(c.MaxReps, r)
	}

	n := s.Len()
	c.Weight = make([]Point, n)
	c.Reps = make([]Point, n)
	for i := 0; i < n; i++ {
		x := c.x(i, n)
		c.Weight[i] = Point{X: x, Y: c.y(s.TotalWeight[i], c.MaxWeight)}
		c.Reps[i] = Point{X: x, Y: c.y(float64(s.TotalReps[i]), float64(c.MaxReps))}
	}
	return c
}

func (c Chart) x(i, n int) float64 {
	inner := c.Width - 2*c.Pad
	if n <= 1 {
		return c.Pad + inner/2
	}
	return c.Pad + inner*float64(i)/float64(n-1)
}

func (c Chart) y(v, maxV float64) float64 {
	bottom := c.Height - c.Pad
	if maxV <= 0 {
		return bottom
	}
	return bottom - (c.Height-2*c.Pad)*v/maxV
}

// Polyline renders points in SVG "x,y x,y" form.
func Polyline(pts []Point) string {
	var b strings.Builder
	for i, p := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(p.X, 'f', 1, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(p.Y, 'f', 1, 64))
	}
	return b.String()
}
