package custom

import (
	"strings"

	"github.com/ezerfernandes/mdrender/internal/mdcode"
	"github.com/yuin/goldmark/util"
)

// Escape escapes text for HTML output.
func Escape(text string) string {
	return string(util.EscapeHTML([]byte(text)))
}

func longestRun(text string, c byte) int {
	longest, run := 0, 0

	for i := 0; i < len(text); i++ {
		if text[i] != c {
			run = 0

			continue
		}

		run++
		if run > longest {
			longest = run
		}
	}

	return longest
}

// FenceMarker returns a backtick fence longer than any backtick run of body.
func FenceMarker(body string) string {
	longest := longestRun(body, '`')
	if longest < 3 {
		return "```"
	}

	return strings.Repeat("`", longest+1)
}

// CodeSpan returns the Markdown code span reading back as content.
func CodeSpan(content string) string {
	delim := strings.Repeat("`", longestRun(content, '`')+1)

	pad := ""
	if strings.HasPrefix(content, "`") || strings.HasSuffix(content, "`") {
		pad = " "
	} else if len(content) > 1 && content[0] == ' ' && content[len(content)-1] == ' ' && strings.Trim(content, " ") != "" {
		pad = " "
	}

	return delim + pad + content + pad + delim
}

// Fence returns the canonical Markdown form of a fenced block.
func Fence(header *mdcode.Header, body string) string {
	return FenceInfo(header.String(), body)
}

// FenceInfo returns a fenced block with a raw info string.
func FenceInfo(info string, body string) string {
	if len(body) != 0 && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}

	marker := FenceMarker(body)

	return marker + info + "\n" + body + marker + "\n"
}

func markdownCell(cell string) string {
	cell = strings.ReplaceAll(cell, "|", `\|`)

	return strings.ReplaceAll(cell, "\n", " ")
}

// MarkdownTable returns table lines with one header row and no column
// alignment. Every line ends with a newline.
func MarkdownTable(head []string, rows [][]string) string {
	var b strings.Builder

	writeRow := func(cells []string) {
		b.WriteString("|")

		for i := range head {
			var cell string
			if i < len(cells) {
				cell = cells[i]
			}

			b.WriteString(" " + markdownCell(cell) + " |")
		}

		b.WriteString("\n")
	}

	writeRow(head)
	b.WriteString(strings.Repeat("|---", len(head)) + "|\n")

	for _, row := range rows {
		writeRow(row)
	}

	return b.String()
}

// HTMLTable returns an HTML table with one header row.
func HTMLTable(head []string, rows [][]string) string {
	var b strings.Builder

	writeRow := func(tag string, cells []string) {
		b.WriteString("<tr>\n")

		for i := range head {
			var cell string
			if i < len(cells) {
				cell = cells[i]
			}

			b.WriteString("<" + tag + ">" + Escape(cell) + "</" + tag + ">\n")
		}

		b.WriteString("</tr>\n")
	}

	b.WriteString("<table>\n<thead>\n")
	writeRow("th", head)
	b.WriteString("</thead>\n")

	if len(rows) > 0 {
		b.WriteString("<tbody>\n")

		for _, row := range rows {
			writeRow("td", row)
		}

		b.WriteString("</tbody>\n")
	}

	b.WriteString("</table>\n")

	return b.String()
}

// HideWithTitle wraps an HTML fragment in a collapsed details element.
func HideWithTitle(title string, html string) string {
	return "<details><summary>" + Escape(title) + "</summary>" + html + "</details>\n"
}
