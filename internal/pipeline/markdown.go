package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ezerfernandes/mdrender/internal/custom"
	"github.com/ezerfernandes/mdrender/internal/mdcode"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// mdFrame is an open container of the Markdown being written.
type mdFrame struct {
	node     ast.Node
	children int

	// marker prefixes the first line written inside the frame, indent every
	// later line.
	marker string
	indent string

	// tight containers do not separate their children with blank lines.
	tight bool
	// number is the number of the next item of an ordered list.
	number int
	// lead is written before the first inline content of a heading.
	lead string
	// cells counts the cells of a table row.
	cells int
	// body collects the text of a code block.
	body string
}

// markdownRenderer writes classified events as canonical Markdown.
type markdownRenderer struct {
	out       strings.Builder
	root      mdFrame
	frames    []*mdFrame
	lineStart bool
	// broken is set while a line break inside a paragraph waits for the text
	// of the next line.
	broken bool
}

func newMarkdownRenderer() *markdownRenderer {
	return &markdownRenderer{lineStart: true}
}

func (m *markdownRenderer) top() *mdFrame {
	if len(m.frames) == 0 {
		return &m.root
	}

	return m.frames[len(m.frames)-1]
}

func (m *markdownRenderer) push(f *mdFrame) *mdFrame {
	m.frames = append(m.frames, f)

	return f
}

func (m *markdownRenderer) pop() *mdFrame {
	f := m.top()
	if len(m.frames) > 0 {
		m.frames = m.frames[:len(m.frames)-1]
	}

	return f
}

func (m *markdownRenderer) prefix(consume bool) string {
	var b strings.Builder

	for _, f := range m.frames {
		if len(f.marker) != 0 {
			b.WriteString(f.marker)

			if consume {
				f.marker = ""
			}

			continue
		}

		b.WriteString(f.indent)
	}

	return b.String()
}

func (m *markdownRenderer) text(s string) {
	if len(s) == 0 {
		return
	}

	if m.lineStart {
		m.out.WriteString(m.prefix(true))
		m.lineStart = false
	}

	m.broken = false

	if f := m.top(); len(f.lead) != 0 {
		m.out.WriteString(f.lead)
		f.lead = ""
	}

	m.out.WriteString(s)
}

// inline writes inline content that may span lines.
func (m *markdownRenderer) inline(s string) {
	for i, part := range strings.Split(s, "\n") {
		if i > 0 {
			m.newline()
		}

		m.text(part)
	}
}

func (m *markdownRenderer) newline() {
	m.out.WriteByte('\n')
	m.lineStart = true
}

func (m *markdownRenderer) blank() {
	m.out.WriteString(strings.TrimRight(m.prefix(true), " ") + "\n")
	m.lineStart = true
}

// lines writes a block of text line by line, each line prefixed for the
// open containers.
func (m *markdownRenderer) lines(block string) {
	for _, line := range strings.Split(strings.TrimSuffix(block, "\n"), "\n") {
		if len(line) == 0 {
			m.blank()

			continue
		}

		m.text(line)
		m.newline()
	}
}

// block starts a block-level element in the current container.
func (m *markdownRenderer) block() {
	if !m.lineStart {
		m.newline()
	}

	parent := m.top()
	if parent.children > 0 && !parent.tight {
		m.blank()
	}

	parent.children++
}

func (m *markdownRenderer) render(events []Event) string {
	for _, ev := range events {
		switch ev.Kind {
		case Standard:
			m.standard(ev.Raw)
		case Custom:
			if ev.Inline {
				m.inline(ev.Block.Markdown())

				continue
			}

			m.block()
			m.lines(ev.Block.Markdown())
		case External:
			m.block()
			m.lines(ev.External.Markdown())
		case Separator:
		}
	}

	if !m.lineStart {
		m.newline()
	}

	return m.out.String()
}

func (m *markdownRenderer) standard(ev mdcode.Event) {
	switch ev.Kind {
	case mdcode.KindStart:
		m.start(ev)
	case mdcode.KindEnd:
		m.end(ev)
	case mdcode.KindText:
		if ev.Node == nil {
			m.top().body += ev.Literal

			return
		}

		if m.broken {
			m.text(escapeLineStart(ev.Literal))

			return
		}

		m.text(ev.Literal)
	case mdcode.KindCode:
		m.text(custom.CodeSpan(ev.Literal))
	case mdcode.KindHTML:
		if _, ok := ev.Node.(*ast.HTMLBlock); ok {
			m.block()
			m.lines(ev.Literal)

			return
		}

		m.inline(ev.Literal)
	case mdcode.KindRule:
		m.block()
		m.lines("***")
	case mdcode.KindSoftBreak:
		if _, ok := m.top().node.(*ast.Heading); ok {
			m.text(" ")

			return
		}

		m.newline()
		m.broken = true
	case mdcode.KindHardBreak:
		if _, ok := m.top().node.(*ast.Heading); ok {
			m.text(" ")

			return
		}

		m.text(`\`)
		m.newline()
		m.broken = true
	case mdcode.KindMarker:
	}
}

func (m *markdownRenderer) start(ev mdcode.Event) {
	switch n := ev.Node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		m.block()
		m.push(&mdFrame{node: n})
	case *ast.Heading:
		m.block()
		m.text(strings.Repeat("#", n.Level))
		m.push(&mdFrame{node: n, lead: " "})
	case *ast.Blockquote:
		m.block()
		m.push(&mdFrame{node: n, marker: "> ", indent: "> "})
	case *ast.List:
		m.block()
		m.push(&mdFrame{node: n, tight: n.IsTight, number: n.Start})
	case *ast.ListItem:
		m.block()

		list := m.top()
		marker := string(n.Parent().(*ast.List).Marker) + " "

		if l, ok := list.node.(*ast.List); ok && l.IsOrdered() {
			marker = strconv.Itoa(list.number) + marker
			list.number++
		}

		m.push(&mdFrame{node: n, marker: marker, indent: strings.Repeat(" ", len(marker)), tight: list.tight})
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		m.block()
		m.push(&mdFrame{node: n})
	case *east.Table:
		m.block()
		m.push(&mdFrame{node: n})
	case *east.TableHeader, *east.TableRow:
		m.text("|")
		m.push(&mdFrame{node: n})
	case *east.TableCell:
		m.top().cells++
		m.text(" ")
	case *ast.Emphasis:
		m.text(strings.Repeat("*", n.Level))
	case *east.Strikethrough:
		m.text("~~")
	case *ast.Link:
		m.text("[")
	case *ast.Image:
		m.text("![")
	case *ast.AutoLink:
		m.text("<" + ev.Literal + ">")
	case *east.TaskCheckBox:
		if n.IsChecked {
			m.text("[x] ")
		} else {
			m.text("[ ] ")
		}
	}
}

func (m *markdownRenderer) end(ev mdcode.Event) {
	switch n := ev.Node.(type) {
	case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
		m.pop()
		m.newline()
	case *ast.Blockquote:
		if f := m.pop(); f.children == 0 {
			m.text(">")
			m.newline()
		}
	case *ast.List:
		m.pop()
	case *ast.ListItem:
		if f := m.pop(); f.children == 0 {
			m.text(strings.TrimRight(f.marker, " "))
			m.newline()
		}
	case *ast.FencedCodeBlock:
		f := m.pop()
		m.lines(fencedCode(ev.Literal, f.body))
	case *ast.CodeBlock:
		f := m.pop()
		for _, line := range strings.Split(strings.TrimSuffix(f.body, "\n"), "\n") {
			if len(strings.TrimSpace(line)) == 0 {
				m.blank()

				continue
			}

			m.text("    " + line)
			m.newline()
		}
	case *east.Table:
		m.pop()
	case *east.TableHeader:
		m.endRow(m.pop())

		table, _ := n.Parent().(*east.Table)
		m.text("|")

		for _, align := range table.Alignments {
			m.text(" " + alignment(align) + " |")
		}

		m.newline()
	case *east.TableRow:
		m.endRow(m.pop())
	case *east.TableCell:
		m.text(" |")
	case *ast.Emphasis:
		m.text(strings.Repeat("*", n.Level))
	case *east.Strikethrough:
		m.text("~~")
	case *ast.Link:
		m.text("](" + destination(n.Destination, n.Title) + ")")
	case *ast.Image:
		m.text("](" + destination(n.Destination, n.Title) + ")")
	}
}

// escapeLineStart escapes the character of a continuation line that would
// otherwise open a block: list markers, headings, quotes, setext underlines,
// fences and tables.
func escapeLineStart(s string) string {
	if len(s) == 0 {
		return s
	}

	switch s[0] {
	case '#', '>', '-', '+', '*', '=', '_', '`', '~', '|', '<':
		return `\` + s
	}

	i := 0
	for i < len(s) && i < 9 && s[i] >= '0' && s[i] <= '9' {
		i++
	}

	if i > 0 && i < len(s) && (s[i] == '.' || s[i] == ')') && (i+1 == len(s) || s[i+1] == ' ' || s[i+1] == '\t') {
		return s[:i] + `\` + s[i:]
	}

	return s
}

// endRow pads a table row to the column count and ends its line.
func (m *markdownRenderer) endRow(row *mdFrame) {
	if table, ok := row.node.Parent().(*east.Table); ok {
		for i := row.cells; i < len(table.Alignments); i++ {
			m.text("  |")
		}
	}

	m.newline()
}

func alignment(a east.Alignment) string {
	switch a {
	case east.AlignLeft:
		return ":--"
	case east.AlignRight:
		return "--:"
	case east.AlignCenter:
		return ":-:"
	}

	return "---"
}

func fencedCode(info, body string) string {
	if !strings.Contains(info, "`") {
		return custom.FenceInfo(info, body)
	}

	if len(body) != 0 && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}

	marker := strings.Repeat("~", max(3, longestLineRun(body, '~')+1))

	return marker + info + "\n" + body + marker + "\n"
}

// longestLineRun returns the longest run of c starting a line of text.
func longestLineRun(text string, c byte) int {
	longest := 0

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimLeft(line, " ")

		n := len(line) - len(strings.TrimLeft(line, string(c)))
		longest = max(longest, n)
	}

	return longest
}

var (
	destEscaper  = strings.NewReplacer(`<`, `\<`, `>`, `\>`)
	titleEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)
)

func destination(dest, title []byte) string {
	d := string(dest)
	if len(d) == 0 || strings.ContainsAny(d, " ()<>\t") {
		d = "<" + destEscaper.Replace(d) + ">"
	}

	if len(title) == 0 {
		return d
	}

	return fmt.Sprintf(`%s "%s"`, d, titleEscaper.Replace(string(title)))
}
