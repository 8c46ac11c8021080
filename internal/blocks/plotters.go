package blocks

import (
	"bytes"
	"fmt"

	"github.com/ezerfernandes/mdrender/internal/custom"
	"github.com/ezerfernandes/mdrender/internal/mdcode"
	"github.com/wcharczuk/go-chart/v2"
	"gopkg.in/yaml.v3"
)

// TagPlotters is the tag of declarative chart blocks.
const TagPlotters = "Plotters"

// Chart size in pixels.
const (
	chartWidth  = 600
	chartHeight = 400
)

// GoChart draws charts with go-chart.
type GoChart struct{}

func axis(r [2]float64) *chart.ContinuousRange {
	if r[1] <= r[0] {
		r[1] = r[0] + 1
	}

	return &chart.ContinuousRange{Min: r[0], Max: r[1]}
}

func (GoChart) Plot(c *custom.Chart) (string, error) {
	x, y := c.Bounds()

	graph := chart.Chart{
		Title:  c.Title,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Range: axis(x)},
		YAxis:  chart.YAxis{Range: axis(y)},
	}

	for i, points := range c.Data {
		series := chart.ContinuousSeries{
			Name:  fmt.Sprintf("series %d", i+1),
			Style: chart.Style{StrokeColor: chart.GetDefaultColor(i)},
		}

		for _, p := range points {
			series.XValues = append(series.XValues, p[0])
			series.YValues = append(series.YValues, p[1])
		}

		graph.Series = append(graph.Series, series)
	}

	var buf bytes.Buffer

	if err := graph.Render(chart.SVG, &buf); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// PlottersReader reads Plotters blocks.
type PlottersReader struct {
	custom.TagReader
	custom.NoInline

	plotter custom.Plotter
}

// NewPlottersReader returns a reader drawing charts with plotter.
func NewPlottersReader(plotter custom.Plotter) *PlottersReader {
	return &PlottersReader{TagReader: custom.TagReader{TagPlotters}, plotter: plotter}
}

func (r *PlottersReader) ReadBlock(header *mdcode.Header, body string) (custom.Block, error) {
	var c custom.Chart

	if err := yaml.Unmarshal([]byte(body), &c); err != nil {
		return nil, fmt.Errorf("failed to parse block: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	svg, err := r.plotter.Plot(&c)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(&c); err != nil {
		return nil, err
	}

	if err := enc.Close(); err != nil {
		return nil, err
	}

	return &plottersBlock{header: header, yaml: buf.String(), svg: svg}, nil
}

type plottersBlock struct {
	header *mdcode.Header
	yaml   string
	svg    string
}

func (b *plottersBlock) HTML() string { return custom.SVG(b.svg) }

func (b *plottersBlock) Markdown() string { return custom.Fence(b.header, b.yaml) }
