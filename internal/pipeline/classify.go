package pipeline

import (
	"fmt"

	"github.com/ezerfernandes/mdrender/internal/custom"
	"github.com/ezerfernandes/mdrender/internal/mdcode"
	"github.com/yuin/goldmark/ast"
)

// pendingFence is a fenced block with a header whose body is being read.
type pendingFence struct {
	header *mdcode.Header
	line   int
	nested bool
	body   string
}

// classifier turns tokenizer events into classified events. It is used for
// one pass over one document.
type classifier struct {
	registry *custom.Registry
	policy   ErrorPolicy

	events []Event
	depth  int
	fence  *pendingFence
}

func classify(raw []mdcode.Event, registry *custom.Registry, policy ErrorPolicy) ([]Event, error) {
	c := &classifier{registry: registry, policy: policy, events: make([]Event, 0, len(raw))}

	for _, ev := range raw {
		if err := c.push(ev); err != nil {
			return nil, err
		}
	}

	return c.events, nil
}

func (c *classifier) push(ev mdcode.Event) error {
	if c.fence != nil {
		switch ev.Kind {
		case mdcode.KindText:
			c.fence.body += ev.Literal
		case mdcode.KindEnd:
			c.depth--

			fence := c.fence
			c.fence = nil

			return c.dispatch(fence)
		default:
			return fmt.Errorf("unexpected %s event in code block at line %d", ev.Kind, c.fence.line)
		}

		return nil
	}

	switch ev.Kind {
	case mdcode.KindMarker:
		index, start, err := mdcode.Boundary(ev)
		if err != nil {
			return err
		}

		if start {
			c.events = append(c.events, separator(index))
		}

		return nil
	case mdcode.KindStart:
		if _, ok := ev.Node.(*ast.FencedCodeBlock); ok {
			if header, err := mdcode.ParseHeader(ev.Literal); err == nil {
				c.fence = &pendingFence{header: header, line: ev.Line, nested: c.depth > 0}
				c.depth++

				return nil
			}
		}

		c.depth++
	case mdcode.KindEnd:
		c.depth--
	case mdcode.KindCode:
		return c.inline(ev)
	}

	c.events = append(c.events, standard(ev))

	return nil
}

func (c *classifier) dispatch(fence *pendingFence) error {
	if fence.header.Tag == custom.ExternalTag {
		if fence.nested {
			return c.fail(&custom.BlockError{Tag: fence.header.Tag, Line: fence.line, Kind: custom.ErrNestedExternal}, false)
		}

		c.events = append(c.events, external(custom.NewExternal(fence.header, fence.body)))

		return nil
	}

	block, err := c.registry.ReadBlock(fence.header, fence.body, fence.line)
	if err != nil {
		return c.fail(err, false)
	}

	if block == nil {
		block = &custom.Passthrough{Header: fence.header, Body: fence.body}
	}

	c.events = append(c.events, customBlock(block, false))

	return nil
}

func (c *classifier) inline(ev mdcode.Event) error {
	block, claimed, err := c.registry.ReadInline(ev.Literal, ev.Line)

	switch {
	case err != nil:
		return c.fail(err, true)
	case !claimed || block == nil:
		c.events = append(c.events, standard(ev))
	default:
		c.events = append(c.events, customBlock(block, true))
	}

	return nil
}

func (c *classifier) fail(err error, inline bool) error {
	if c.policy == FailFast {
		return err
	}

	tracer().Infof("substituting error marker: %v", err)
	c.events = append(c.events, customBlock(custom.NewErrorBlock(err, inline), inline))

	return nil
}
