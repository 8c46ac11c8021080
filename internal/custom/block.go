// Package custom defines the contract between the rendering pipeline and the
// readers of custom blocks.
package custom

import (
	"github.com/ezerfernandes/mdrender/internal/mdcode"
)

// Block is a rendering unit substituted for Markdown content. Markdown must
// return a form that reads back into an equivalent block.
type Block interface {
	HTML() string
	Markdown() string
}

// Reader builds blocks from fenced block bodies or inline code spans.
type Reader interface {
	CanReadBlock(header *mdcode.Header) bool
	// ReadBlock returns a nil block and a nil error when the content was
	// consumed without anything to render.
	ReadBlock(header *mdcode.Header, body string) (Block, error)
	CanReadInline(code string) bool
	ReadInline(code string) (Block, error)
}

// DatasetProvider is implemented by readers retaining named datasets.
type DatasetProvider interface {
	Datasets() []Dataset
}

// NoInline can be embedded by readers without inline support.
type NoInline struct{}

func (NoInline) CanReadInline(string) bool { return false }

func (NoInline) ReadInline(string) (Block, error) { return nil, ErrUnsupported }

// NoBlock can be embedded by readers without block support.
type NoBlock struct{}

func (NoBlock) CanReadBlock(*mdcode.Header) bool { return false }

func (NoBlock) ReadBlock(*mdcode.Header, string) (Block, error) { return nil, ErrUnsupported }

// TagReader is the common base of readers claiming a fixed set of tags.
type TagReader []string

func (tags TagReader) CanReadBlock(header *mdcode.Header) bool {
	for _, tag := range tags {
		if header.Tag == tag {
			return true
		}
	}

	return false
}
