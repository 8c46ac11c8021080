package custom

import (
	"strings"

	"github.com/ezerfernandes/mdrender/internal/mdcode"
)

// Passthrough keeps consumed content in Markdown output without rendering it
// to HTML.
type Passthrough struct {
	Header *mdcode.Header
	Body   string
}

func (p *Passthrough) HTML() string { return "" }

func (p *Passthrough) Markdown() string { return Fence(p.Header, p.Body) }

// ErrorBlock is the visible marker substituted for a block that failed. It
// renders the same fragment in both formats, which parses back as raw HTML.
type ErrorBlock struct {
	Message string
	Inline  bool
}

// NewErrorBlock returns the error marker for err.
func NewErrorBlock(err error, inline bool) *ErrorBlock {
	return &ErrorBlock{Message: err.Error(), Inline: inline}
}

var entities = strings.NewReplacer(
	"\n", "&#10;",
	"*", "&#42;",
	"_", "&#95;",
	"`", "&#96;",
	"[", "&#91;",
	"\\", "&#92;",
)

func (e *ErrorBlock) HTML() string {
	msg := entities.Replace(Escape(e.Message))

	if e.Inline {
		return `<span class="error">` + msg + `</span>`
	}

	return `<div class="error">` + msg + "</div>\n"
}

func (e *ErrorBlock) Markdown() string { return e.HTML() }
