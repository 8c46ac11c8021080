package pipeline

import (
	_ "embed"
	"strings"
	"text/template"

	"github.com/ezerfernandes/mdrender/internal/blocks"
)

//go:embed style.css
var style string

//go:embed page.html
var pageSource string

var page = template.Must(template.New("page").Parse(pageSource))

// CSS returns the stylesheet shared by every rendered document.
func CSS() string {
	return style + blocks.CodeCSS()
}

// Page wraps rendered HTML content in a standalone page. head is injected
// into the page head, body before the content.
func Page(content, head, body string) (string, error) {
	var b strings.Builder

	err := page.Execute(&b, struct {
		CSS, Head, Body, Content string
	}{CSS(), head, body, content})
	if err != nil {
		return "", err
	}

	return b.String(), nil
}
