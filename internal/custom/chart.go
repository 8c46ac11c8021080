package custom

import (
	"errors"
	"fmt"
	"strings"
)

// LineChart is the only chart type.
const LineChart = "LineChart"

var errEmptyChart = errors.New("chart has no data")

// Chart describes a chart as written in a Plotters block body. Every series
// is a list of [x, y] points.
type Chart struct {
	Type   string        `yaml:"type"`
	Title  string        `yaml:"title"`
	RangeX []float64     `yaml:"range_x,omitempty,flow"`
	RangeY []float64     `yaml:"range_y,omitempty,flow"`
	Data   [][][]float64 `yaml:"data,flow"`
}

// Plotter renders a chart as an SVG document.
type Plotter interface {
	Plot(chart *Chart) (string, error)
}

// Validate checks the chart type, ranges and points.
func (c *Chart) Validate() error {
	if c.Type != LineChart {
		return fmt.Errorf("unsupported chart type %q", c.Type)
	}

	for _, r := range [][]float64{c.RangeX, c.RangeY} {
		if r != nil && (len(r) != 2 || r[0] >= r[1]) {
			return fmt.Errorf("invalid range %v", r)
		}
	}

	if len(c.Data) == 0 {
		return errEmptyChart
	}

	for i, series := range c.Data {
		for j, point := range series {
			if len(point) != 2 {
				return fmt.Errorf("series %d point %d: want [x, y], got %d values", i, j, len(point))
			}
		}
	}

	return nil
}

// Bounds returns the x and y ranges of the chart. A missing range spans from
// 0 to the largest value of its axis.
func (c *Chart) Bounds() ([2]float64, [2]float64) {
	var x, y [2]float64

	for _, series := range c.Data {
		for _, p := range series {
			if len(p) == 2 {
				x[1] = max(x[1], p[0])
				y[1] = max(y[1], p[1])
			}
		}
	}

	if len(c.RangeX) == 2 {
		x = [2]float64{c.RangeX[0], c.RangeX[1]}
	}

	if len(c.RangeY) == 2 {
		y = [2]float64{c.RangeY[0], c.RangeY[1]}
	}

	return x, y
}

// SVG trims an SVG document to its root element for inlining into HTML.
func SVG(doc string) string {
	if idx := strings.Index(doc, "<svg"); idx > 0 {
		doc = doc[idx:]
	}

	return strings.TrimSpace(doc) + "\n"
}
