package pipeline

import (
	"strings"

	"github.com/ezerfernandes/mdrender/internal/custom"
	"github.com/ezerfernandes/mdrender/internal/mdcode"
)

// parsed is a classified document with the readers that classified it.
type parsed struct {
	source   []byte
	events   []Event
	registry *custom.Registry
}

func parse(source []byte, opts Options) (*parsed, error) {
	registry := NewRegistry(opts)

	events, err := classify(mdcode.Tokenize(source), registry, opts.Errors)
	if err != nil {
		return nil, err
	}

	tracer().Debugf("classified %d event(s)", len(events))

	return &parsed{source: source, events: events, registry: registry}, nil
}

// Parse classifies a document. Custom blocks are built, so scripts run, in
// source order.
func Parse(source []byte, opts Options) ([]Event, error) {
	p, err := parse(source, opts)
	if err != nil {
		return nil, err
	}

	return p.events, nil
}

// Render renders a whole document in the configured format.
func Render(source []byte, opts Options) (string, error) {
	p, err := parse(source, opts)
	if err != nil {
		return "", err
	}

	if opts.Format == FormatMarkdown {
		return newMarkdownRenderer().render(p.events), nil
	}

	out, err := newHTMLRenderer(source).render(p.events)
	if err != nil {
		return "", err
	}

	if opts.Standalone {
		return Page(out, opts.Head, opts.Body)
	}

	return out, nil
}

// Block is one top-level element of a document, rendered in both formats.
// An External block has empty fragments and carries its payload instead.
type Block struct {
	ID       int              `json:"id"`
	HTML     string           `json:"html"`
	Markdown string           `json:"markdown"`
	External *custom.External `json:"external,omitempty"`
}

// Document is a document rendered block by block.
type Document struct {
	CSS      string           `json:"css"`
	Blocks   []Block          `json:"blocks"`
	Datasets []custom.Dataset `json:"datasets,omitempty"`
}

type group struct {
	id     int
	events []Event
}

// segment folds events into one group per top-level element.
func segment(events []Event) []group {
	var groups []group

	for _, ev := range events {
		if ev.Kind == Separator {
			groups = append(groups, group{id: ev.ID})

			continue
		}

		if len(groups) == 0 {
			groups = append(groups, group{})
		}

		last := &groups[len(groups)-1]
		last.events = append(last.events, ev)
	}

	return groups
}

// RenderBlocks renders every top-level element of a document on its own.
func RenderBlocks(source []byte, opts Options) (*Document, error) {
	p, err := parse(source, opts)
	if err != nil {
		return nil, err
	}

	groups := segment(p.events)
	doc := &Document{CSS: CSS(), Blocks: make([]Block, 0, len(groups)), Datasets: p.registry.Datasets()}

	for _, g := range groups {
		if len(g.events) == 1 && g.events[0].Kind == External {
			doc.Blocks = append(doc.Blocks, Block{ID: g.id, External: g.events[0].External})

			continue
		}

		html, err := newHTMLRenderer(source).render(g.events)
		if err != nil {
			return nil, err
		}

		doc.Blocks = append(doc.Blocks, Block{ID: g.id, HTML: html, Markdown: newMarkdownRenderer().render(g.events)})
	}

	tracer().Debugf("rendered %d block(s)", len(doc.Blocks))

	return doc, nil
}

// HTML returns the HTML fragments of the document joined in order.
func (d *Document) HTML() string {
	var b strings.Builder

	for _, block := range d.Blocks {
		b.WriteString(block.HTML)
	}

	return b.String()
}

// Markdown returns the document's Markdown: the block fragments in order,
// separated by blank lines. External blocks are written back from their
// payload.
func (d *Document) Markdown() string {
	fragments := make([]string, 0, len(d.Blocks))

	for _, block := range d.Blocks {
		md := block.Markdown
		if block.External != nil {
			md = block.External.Markdown()
		}

		md = strings.TrimRight(md, "\n")
		if len(strings.TrimSpace(md)) == 0 {
			continue
		}

		fragments = append(fragments, md+"\n")
	}

	return strings.Join(fragments, "\n")
}

// Rerender parses the document's Markdown again. Blocks may have been edited,
// merged or split, so the new document can have a different block count.
func (d *Document) Rerender(opts Options) (*Document, error) {
	return RenderBlocks([]byte(d.Markdown()), opts)
}
