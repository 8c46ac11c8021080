package custom

import (
	"github.com/ezerfernandes/mdrender/internal/mdcode"
)

// ExternalTag is the reserved tag of blocks owned outside the pipeline.
const ExternalTag = "External"

// External is the opaque payload of an External block.
type External struct {
	Head map[string]interface{} `json:"head"`
	Body string                 `json:"body"`
}

// NewExternal returns the payload of a fenced External block.
func NewExternal(header *mdcode.Header, body string) *External {
	head := make(map[string]interface{}, len(header.Fields))
	for k, v := range header.Fields {
		head[k] = v
	}

	return &External{Head: head, Body: body}
}

// Header returns the block header the payload was read from.
func (e *External) Header() *mdcode.Header {
	header := mdcode.NewHeader(ExternalTag)
	for k, v := range e.Head {
		header.Fields[k] = v
	}

	return header
}

// Markdown returns the payload as a canonical fenced block.
func (e *External) Markdown() string {
	return Fence(e.Header(), e.Body)
}
