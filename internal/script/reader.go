package script

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ezerfernandes/mdrender/internal/custom"
	"github.com/ezerfernandes/mdrender/internal/mdcode"
	"github.com/ezerfernandes/mdrender/internal/region"
	"gopkg.in/yaml.v3"
)

// Tags read by Reader.
const (
	TagScript  = "Script"
	TagGlobals = "ScriptGlobals"
	TagTable   = "DynamicTable"
	TagChart   = "DynamicChart"
	TagData    = "Data"
)

// Sentinel delimiting inline expressions, as in `_1 + 1_`.
const Sentinel = "_"

const hiddenTitle = "hidden_title"

var errNoPlotter = errors.New("no chart plotter configured")

// Reader reads the script family of blocks and inline expressions. It owns
// the Runtime of one render.
type Reader struct {
	custom.TagReader

	runtime *Runtime
	plotter custom.Plotter
}

// NewReader returns a reader with a fresh runtime. Charts are drawn by
// plotter.
func NewReader(plotter custom.Plotter) *Reader {
	return &Reader{
		TagReader: custom.TagReader{TagScript, TagGlobals, TagTable, TagChart, TagData},
		runtime:   NewRuntime(),
		plotter:   plotter,
	}
}

func (r *Reader) ReadBlock(header *mdcode.Header, body string) (custom.Block, error) {
	switch header.Tag {
	case TagScript:
		lines, err := r.runtime.Run(body)
		if err != nil {
			return nil, err
		}

		return &scriptBlock{header: header, lines: lines}, nil
	case TagGlobals:
		return nil, r.runtime.SetGlobals(body)
	case TagTable:
		head, rows, err := r.runtime.Table(body)
		if err != nil {
			return nil, err
		}

		return &tableBlock{header: header, code: sourceLines(body), head: head, rows: rows}, nil
	case TagChart:
		return r.readChart(header, body)
	case TagData:
		return r.readData(header, body)
	}

	return nil, fmt.Errorf("%w: %s", custom.ErrUnsupported, header.Tag)
}

func (r *Reader) readChart(header *mdcode.Header, body string) (custom.Block, error) {
	if r.plotter == nil {
		return nil, errNoPlotter
	}

	series, err := r.runtime.Chart(body)
	if err != nil {
		return nil, err
	}

	chart := &custom.Chart{Type: custom.LineChart, Title: header.Get("title"), Data: series}
	if err := chart.Validate(); err != nil {
		return nil, err
	}

	svg, err := r.plotter.Plot(chart)
	if err != nil {
		return nil, err
	}

	return &chartBlock{header: header, code: sourceLines(body), svg: svg}, nil
}

type dataBody struct {
	Name   string                   `yaml:"name"`
	Fields []string                 `yaml:"fields"`
	Data   []map[string]interface{} `yaml:"data"`
}

func (r *Reader) readData(header *mdcode.Header, body string) (custom.Block, error) {
	var data dataBody

	if err := yaml.Unmarshal([]byte(region.Strip(body, region.TablePrefix)), &data); err != nil {
		return nil, fmt.Errorf("failed to parse block: %w", err)
	}

	ds := custom.Dataset{Name: data.Name, Fields: data.Fields, Rows: make([]map[string]string, 0, len(data.Data))}

	for _, row := range data.Data {
		values := make(map[string]string, len(row))

		for k, v := range row {
			if v != nil {
				values[k] = fmt.Sprint(v)
			} else {
				values[k] = ""
			}
		}

		ds.Rows = append(ds.Rows, values)
	}

	if err := r.runtime.AddDataset(ds); err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(&ds); err != nil {
		return nil, err
	}

	if err := enc.Close(); err != nil {
		return nil, err
	}

	return &dataBlock{header: header, dataset: ds, yaml: buf.String()}, nil
}

func (r *Reader) CanReadInline(code string) bool {
	return len(code) > 2 && strings.HasPrefix(code, Sentinel) && strings.HasSuffix(code, Sentinel)
}

func (r *Reader) ReadInline(code string) (custom.Block, error) {
	if !r.CanReadInline(code) {
		return nil, custom.ErrUnsupported
	}

	expr, _, _ := strings.Cut(code[len(Sentinel):len(code)-len(Sentinel)], " "+strings.TrimSpace(region.ScriptPrefix))

	value, err := r.runtime.Eval(expr)
	if err != nil {
		return nil, err
	}

	return &inlineBlock{expr: expr, value: strings.ReplaceAll(value, "\n", " ")}, nil
}

// Datasets returns the datasets of the Data blocks read so far.
func (r *Reader) Datasets() []custom.Dataset {
	return r.runtime.Datasets()
}

func sourceLines(body string) []string {
	return region.Lines(region.Strip(body, region.ScriptPrefix))
}
