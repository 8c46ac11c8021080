package pipeline

import (
	"bufio"
	"bytes"

	"github.com/ezerfernandes/mdrender/internal/mdcode"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// htmlRenderer writes standard events with goldmark's node renderers and
// custom events with the HTML of their blocks.
type htmlRenderer struct {
	source []byte
	funcs  map[ast.NodeKind]renderer.NodeRendererFunc

	buf  bytes.Buffer
	w    *bufio.Writer
	skip ast.Node
}

func newHTMLRenderer(source []byte) *htmlRenderer {
	r := &htmlRenderer{source: source, funcs: make(map[ast.NodeKind]renderer.NodeRendererFunc)}
	r.w = bufio.NewWriter(&r.buf)

	for _, nr := range []renderer.NodeRenderer{
		html.NewRenderer(html.WithUnsafe()),
		extension.NewTableHTMLRenderer(extension.WithTableHTMLOptions(html.WithUnsafe())),
		extension.NewStrikethroughHTMLRenderer(html.WithUnsafe()),
		extension.NewTaskCheckBoxHTMLRenderer(html.WithUnsafe()),
	} {
		nr.RegisterFuncs(r)
	}

	return r
}

// Register implements renderer.NodeRendererFuncRegisterer.
func (r *htmlRenderer) Register(kind ast.NodeKind, fn renderer.NodeRendererFunc) {
	r.funcs[kind] = fn
}

func (r *htmlRenderer) node(n ast.Node, entering bool) (ast.WalkStatus, error) {
	fn := r.funcs[n.Kind()]
	if fn == nil {
		return ast.WalkContinue, nil
	}

	return fn(r.w, r.source, n, entering)
}

func (r *htmlRenderer) standard(ev mdcode.Event) error {
	if r.skip != nil {
		if ev.Kind == mdcode.KindEnd && ev.Node == r.skip {
			r.skip = nil

			_, err := r.node(ev.Node, false)

			return err
		}

		return nil
	}

	if ev.Node == nil {
		return nil
	}

	switch ev.Kind {
	case mdcode.KindStart:
		status, err := r.node(ev.Node, true)
		if err != nil {
			return err
		}

		if status == ast.WalkSkipChildren {
			r.skip = ev.Node
		}
	case mdcode.KindEnd:
		if _, err := r.node(ev.Node, false); err != nil {
			return err
		}
	default:
		if _, err := r.node(ev.Node, true); err != nil {
			return err
		}

		if _, err := r.node(ev.Node, false); err != nil {
			return err
		}
	}

	return nil
}

func (r *htmlRenderer) render(events []Event) (string, error) {
	for _, ev := range events {
		switch ev.Kind {
		case Standard:
			if err := r.standard(ev.Raw); err != nil {
				return "", err
			}
		case Custom:
			if r.skip == nil {
				if _, err := r.w.WriteString(ev.Block.HTML()); err != nil {
					return "", err
				}
			}
		case External, Separator:
		}
	}

	if err := r.w.Flush(); err != nil {
		return "", err
	}

	return r.buf.String(), nil
}
