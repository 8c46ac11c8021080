package mdcode

import (
	"github.com/yuin/goldmark/ast"
)

// Unfence parses a Markdown document and returns all fenced code blocks
// without modifying the source. Header is nil for blocks whose info string
// does not parse as a block header.
func Unfence(source []byte) (Fences, error) {
	var fences Fences

	doc := Parse(source)

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		fence := &Fence{Body: extractCode(fcb, source)}

		if fcb.Info != nil {
			fence.Info = string(fcb.Info.Text(source))
		}

		if header, err := ParseHeader(fence.Info); err == nil {
			fence.Header = header
		}

		fence.StartLine, fence.EndLine = extractLines(fcb, source)
		fences = append(fences, fence)

		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}

	return fences, nil
}
