package mdcode

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Markdown returns the goldmark instance whose grammar every document is
// parsed with.
func Markdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
}

// Parse parses a Markdown document into a goldmark tree.
func Parse(source []byte) ast.Node {
	reader := text.NewReader(source)

	return Markdown().Parser().Parse(reader).OwnerDocument()
}

// Tokenize parses a Markdown document and flattens its tree into events.
// Every top-level element is enclosed by a start and an end boundary marker
// carrying the element index, counted from 0.
func Tokenize(source []byte) []Event {
	doc := Parse(source)
	t := &tokenizer{source: source}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		t.walk(n)
	}

	return t.events
}

type tokenizer struct {
	source []byte
	events []Event
	depth  int
	index  int
}

func (t *tokenizer) push(ev Event) {
	switch {
	case ev.Kind == KindStart:
		t.depth++
		if t.depth == 1 {
			t.events = append(t.events, startMarker(t.index))
		}

		t.events = append(t.events, ev)
	case ev.Kind == KindEnd:
		t.events = append(t.events, ev)

		t.depth--
		if t.depth == 0 {
			t.events = append(t.events, endMarker(t.index))
			t.index++
		}
	case t.depth == 0:
		t.events = append(t.events, startMarker(t.index), ev, endMarker(t.index))
		t.index++
	default:
		t.events = append(t.events, ev)
	}
}

func (t *tokenizer) walk(node ast.Node) {
	switch n := node.(type) {
	case *ast.Paragraph:
		// Left behind when link reference definitions are extracted.
		if n.Lines().Len() == 0 && !n.HasChildren() {
			return
		}
	case *ast.Text:
		t.push(Event{Kind: KindText, Node: n, Literal: string(n.Segment.Value(t.source))})

		if n.HardLineBreak() {
			t.push(Event{Kind: KindHardBreak})
		} else if n.SoftLineBreak() {
			t.push(Event{Kind: KindSoftBreak})
		}

		return
	case *ast.String:
		t.push(Event{Kind: KindText, Node: n, Literal: string(n.Value)})

		return
	case *ast.CodeSpan:
		t.push(Event{Kind: KindCode, Node: n, Literal: t.codeSpan(n), Line: t.lineOf(n)})

		return
	case *ast.RawHTML:
		var buf bytes.Buffer

		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			buf.Write(seg.Value(t.source))
		}

		t.push(Event{Kind: KindHTML, Node: n, Literal: buf.String()})

		return
	case *ast.HTMLBlock:
		code := extractCode(n, t.source)
		if n.HasClosure() {
			code = append(code, n.ClosureLine.Value(t.source)...)
		}

		t.push(Event{Kind: KindHTML, Node: n, Literal: string(code), Line: t.lineOf(n)})

		return
	case *ast.ThematicBreak:
		t.push(Event{Kind: KindRule, Node: n})

		return
	case *ast.FencedCodeBlock:
		var info string
		if n.Info != nil {
			info = string(n.Info.Text(t.source))
		}

		startLine, _ := extractLines(n, t.source)

		t.push(Event{Kind: KindStart, Node: n, Literal: info, Line: startLine})
		t.push(Event{Kind: KindText, Literal: string(extractCode(n, t.source))})
		t.push(Event{Kind: KindEnd, Node: n, Literal: info, Line: startLine})

		return
	case *ast.CodeBlock:
		t.push(Event{Kind: KindStart, Node: n, Line: t.lineOf(n)})
		t.push(Event{Kind: KindText, Literal: string(extractCode(n, t.source))})
		t.push(Event{Kind: KindEnd, Node: n})

		return
	case *ast.AutoLink:
		t.push(Event{Kind: KindStart, Node: n, Literal: string(n.Label(t.source))})
		t.push(Event{Kind: KindEnd, Node: n})

		return
	}

	t.push(Event{Kind: KindStart, Node: node, Line: t.lineOf(node)})

	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		t.walk(c)
	}

	t.push(Event{Kind: KindEnd, Node: node})
}

func (t *tokenizer) codeSpan(n *ast.CodeSpan) string {
	var buf bytes.Buffer

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		var value []byte

		switch c := c.(type) {
		case *ast.Text:
			value = c.Segment.Value(t.source)
		case *ast.String:
			value = c.Value
		}

		if bytes.HasSuffix(value, []byte("\n")) {
			value = append(value[:len(value)-1:len(value)-1], ' ')
		}

		buf.Write(value)
	}

	return buf.String()
}

// lineOf returns the 1-based line of the first source byte of a node, or 0
// when the node has no source position.
func (t *tokenizer) lineOf(n ast.Node) int {
	if n.Type() == ast.TypeBlock {
		if lines := n.Lines(); lines != nil && lines.Len() > 0 {
			return lineAt(t.source, lines.At(0).Start)
		}
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if txt, ok := c.(*ast.Text); ok {
			return lineAt(t.source, txt.Segment.Start)
		}

		if line := t.lineOf(c); line > 0 {
			return line
		}
	}

	return 0
}

func extractLines(fcb *ast.FencedCodeBlock, source []byte) (int, int) {
	var startLine, endLine int

	if fcb.Info != nil {
		startLine = lineAt(source, fcb.Info.Segment.Start)
	} else {
		lines := fcb.Lines()
		if lines.Len() > 0 {
			startLine = lineAt(source, lines.At(0).Start) - 1
		}
	}

	lines := fcb.Lines()
	if lines.Len() > 0 {
		endLine = lineAt(source, lines.At(lines.Len()-1).Stop)
	} else if startLine > 0 {
		endLine = startLine + 1
	}

	return startLine, endLine
}

func lineAt(source []byte, offset int) int {
	line := 1

	for i := 0; i < offset && i < len(source); i++ {
		if source[i] == '\n' {
			line++
		}
	}

	return line
}

func extractCode(n ast.Node, source []byte) []byte {
	var buff bytes.Buffer

	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)

		buff.Write(seg.Value(source))
	}

	return buff.Bytes()
}
