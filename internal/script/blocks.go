package script

import (
	"strings"

	"github.com/ezerfernandes/mdrender/internal/custom"
	"github.com/ezerfernandes/mdrender/internal/mdcode"
	"github.com/ezerfernandes/mdrender/internal/region"
)

func hide(header *mdcode.Header, html string) string {
	if title, ok := header.Fields[hiddenTitle].(string); ok {
		return custom.HideWithTitle(title, html)
	}

	return html
}

func fence(header *mdcode.Header, lines []string) string {
	if len(lines) == 0 {
		return custom.Fence(header, "")
	}

	return custom.Fence(header, strings.Join(lines, "\n")+"\n")
}

type scriptBlock struct {
	header *mdcode.Header
	lines  []Line
}

func (b *scriptBlock) HTML() string {
	var out strings.Builder

	out.WriteString(`<div class="script"><pre>`)

	for _, line := range b.lines {
		if line.Output {
			out.WriteString(`<span class="script-output">` + custom.Escape(region.ScriptPrefix+line.Text) + "</span>\n")
		} else {
			out.WriteString(`<span class="script-code">` + custom.Escape(line.Text) + "</span>\n")
		}
	}

	out.WriteString("</pre></div>\n")

	return hide(b.header, out.String())
}

func (b *scriptBlock) Markdown() string {
	lines := make([]string, 0, len(b.lines))

	for _, line := range b.lines {
		if line.Output {
			lines = append(lines, region.ScriptPrefix+line.Text)
		} else {
			lines = append(lines, line.Text)
		}
	}

	return fence(b.header, lines)
}

type tableBlock struct {
	header *mdcode.Header
	code   []string
	head   []string
	rows   [][]string
}

func (b *tableBlock) HTML() string {
	return custom.HTMLTable(b.head, b.rows)
}

func (b *tableBlock) Markdown() string {
	table := strings.TrimSuffix(custom.MarkdownTable(b.head, b.rows), "\n")
	lines := append(append([]string{}, b.code...), region.Annotate(table, region.ScriptPrefix)...)

	return fence(b.header, lines)
}

type chartBlock struct {
	header *mdcode.Header
	code   []string
	svg    string
}

func (b *chartBlock) HTML() string {
	return custom.SVG(b.svg)
}

func (b *chartBlock) Markdown() string {
	return fence(b.header, b.code)
}

type dataBlock struct {
	header  *mdcode.Header
	dataset custom.Dataset
	yaml    string
}

func (b *dataBlock) HTML() string {
	return hide(b.header, custom.HTMLTable(b.dataset.Table()))
}

func (b *dataBlock) Markdown() string {
	table := strings.TrimSuffix(custom.MarkdownTable(b.dataset.Table()), "\n")
	body := b.yaml + "\n" + strings.Join(region.Annotate(table, region.TablePrefix), "\n") + "\n"

	return custom.Fence(b.header, body)
}

type inlineBlock struct {
	expr  string
	value string
}

func (b *inlineBlock) text() string {
	return b.expr + " " + region.ScriptPrefix + b.value
}

func (b *inlineBlock) HTML() string {
	return `<code class="inline-script">` + custom.Escape(b.text()) + `</code>`
}

func (b *inlineBlock) Markdown() string {
	return custom.CodeSpan(Sentinel + b.text() + Sentinel)
}
