package blocks_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ezerfernandes/mdrender/internal/blocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLayouter struct {
	dot []byte
	err error
}

func (l *fakeLayouter) Layout(_ context.Context, dot []byte) (string, error) {
	l.dot = dot

	if l.err != nil {
		return "", l.err
	}

	return `<?xml version="1.0"?>` + "\n" + `<svg><g/></svg>`, nil
}

func TestGraphBlock(t *testing.T) {
	layouter := &fakeLayouter{}
	r := blocks.NewGraphReader(layouter)
	h := header(t, `{t: Graph}`)

	require.True(t, r.CanReadBlock(h))
	require.False(t, r.CanReadInline("_x_"))

	b, err := r.ReadBlock(h, "digraph { a -> b }\n")
	require.NoError(t, err)

	assert.Equal(t, "digraph { a -> b }\n", string(layouter.dot))
	assert.Equal(t, "<svg><g/></svg>\n", b.HTML())
	assert.Equal(t, "```{\"t\":\"Graph\"}\ndigraph { a -> b }\n```\n", b.Markdown())
}

func TestGraphLayoutFailure(t *testing.T) {
	failure := errors.New("syntax error in line 1")
	r := blocks.NewGraphReader(&fakeLayouter{err: failure})

	_, err := r.ReadBlock(header(t, `{t: Graph}`), "digraph {")
	require.ErrorIs(t, err, failure)
}

func TestGraphvizLayout(t *testing.T) {
	svg, err := blocks.Graphviz{}.Layout(context.Background(), []byte("digraph { a -> b }"))
	require.NoError(t, err)

	assert.Contains(t, svg, "<svg")
	assert.Contains(t, svg, ">a</text>")
}
