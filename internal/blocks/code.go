package blocks

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/ezerfernandes/mdrender/internal/custom"
	"github.com/ezerfernandes/mdrender/internal/mdcode"
)

// TagCode is the tag of highlighted code blocks.
const TagCode = "Code"

// Header fields of code blocks.
const (
	fieldFilename = "filename"
	fieldLanguage = "language"
	fieldNumbers  = "numbers"
	fieldStartAt  = "numbers_start_at"
)

// HighlightStyle is the chroma style the code stylesheet is generated from.
const HighlightStyle = "github"

// CodeReader reads Code blocks.
type CodeReader struct {
	custom.TagReader
	custom.NoInline
}

// NewCodeReader returns a reader for Code blocks.
func NewCodeReader() *CodeReader {
	return &CodeReader{TagReader: custom.TagReader{TagCode}}
}

func (r *CodeReader) ReadBlock(header *mdcode.Header, body string) (custom.Block, error) {
	lines, err := highlight(body, header.Get(fieldLanguage), header.Get(fieldFilename))
	if err != nil {
		return nil, err
	}

	return &codeBlock{header: header, body: body, lines: lines}, nil
}

// CodeCSS returns the stylesheet of highlighted code.
func CodeCSS() string {
	var buf bytes.Buffer

	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(HighlightStyle)); err != nil {
		tracer().Errorf("code stylesheet: %v", err)

		return ""
	}

	return buf.String()
}

func lexer(language, filename string) chroma.Lexer {
	var l chroma.Lexer

	if len(language) != 0 {
		l = lexers.Get(language)
	}

	if l == nil && len(filename) != 0 {
		l = lexers.Match(filename)
	}

	if l == nil {
		return nil
	}

	return chroma.Coalesce(l)
}

// highlight returns the HTML of every line of code.
func highlight(code, language, filename string) ([]string, error) {
	l := lexer(language, filename)
	if l == nil {
		lines := strings.Split(strings.TrimSuffix(code, "\n"), "\n")
		for i, line := range lines {
			lines[i] = custom.Escape(line)
		}

		return lines, nil
	}

	iterator, err := l.Tokenise(nil, code)
	if err != nil {
		return nil, err
	}

	var lines []string

	for _, tokens := range chroma.SplitTokensIntoLines(iterator.Tokens()) {
		var b strings.Builder

		for _, token := range tokens {
			value := strings.TrimSuffix(token.Value, "\n")
			if len(value) == 0 {
				continue
			}

			class := chroma.StandardTypes[token.Type]
			if len(class) == 0 {
				b.WriteString(custom.Escape(value))

				continue
			}

			b.WriteString(`<span class="` + class + `">` + custom.Escape(value) + `</span>`)
		}

		lines = append(lines, b.String())
	}

	if n := len(lines); n > 0 && len(lines[n-1]) == 0 {
		lines = lines[:n-1]
	}

	return lines, nil
}

type codeBlock struct {
	header *mdcode.Header
	body   string
	lines  []string
}

func (b *codeBlock) HTML() string {
	filename := b.header.Get(fieldFilename)

	language := b.header.Get(fieldLanguage)
	if len(language) == 0 {
		language = "none"
	}

	numbered, ok := b.header.Bool(fieldNumbers)
	if !ok {
		numbered = len(filename) != 0
	}

	start, ok := b.header.Int(fieldStartAt)
	if !ok {
		start = 1
	}

	class := ""
	if numbered {
		class = "numbered"
	}

	var out strings.Builder

	out.WriteString(`<div><pre data-file="` + custom.Escape(filename) + `" class="chroma codeblock language-` +
		custom.Escape(language) + `"><code class="` + class + `">`)

	for i, line := range b.lines {
		out.WriteString(`<span data-linenumber="` + strconv.Itoa(start+i) + `|">` + line + "</span>\n")
	}

	out.WriteString("</code></pre></div>\n")

	return out.String()
}

func (b *codeBlock) Markdown() string {
	return custom.Fence(b.header, b.body)
}
