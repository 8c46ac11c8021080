package blocks

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ezerfernandes/mdrender/internal/custom"
	"github.com/ezerfernandes/mdrender/internal/mdcode"
	"github.com/goccy/go-graphviz"
)

// TagGraph is the tag of graph blocks.
const TagGraph = "Graph"

// Layouter lays out a graph written in the DOT language as an SVG document.
type Layouter interface {
	Layout(ctx context.Context, dot []byte) (string, error)
}

// Graphviz lays out graphs with the graphviz engine.
type Graphviz struct{}

func (Graphviz) Layout(ctx context.Context, dot []byte) (string, error) {
	g, err := graphviz.New(ctx)
	if err != nil {
		return "", err
	}

	defer g.Close()

	graph, err := graphviz.ParseBytes(dot)
	if err != nil {
		return "", fmt.Errorf("error parsing graph block: %w", err)
	}

	defer graph.Close()

	var buf bytes.Buffer

	if err := g.Render(ctx, graph, graphviz.SVG, &buf); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// GraphReader reads Graph blocks.
type GraphReader struct {
	custom.TagReader
	custom.NoInline

	layouter Layouter
}

// NewGraphReader returns a reader laying out graphs with layouter.
func NewGraphReader(layouter Layouter) *GraphReader {
	return &GraphReader{TagReader: custom.TagReader{TagGraph}, layouter: layouter}
}

func (r *GraphReader) ReadBlock(header *mdcode.Header, body string) (custom.Block, error) {
	svg, err := r.layouter.Layout(context.Background(), []byte(body))
	if err != nil {
		return nil, err
	}

	tracer().Debugf("graph laid out: %d bytes of SVG", len(svg))

	return &graphBlock{header: header, body: body, svg: svg}, nil
}

type graphBlock struct {
	header *mdcode.Header
	body   string
	svg    string
}

func (b *graphBlock) HTML() string { return custom.SVG(b.svg) }

func (b *graphBlock) Markdown() string { return custom.Fence(b.header, b.body) }
