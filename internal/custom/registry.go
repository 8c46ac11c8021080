package custom

import (
	"github.com/ezerfernandes/mdrender/internal/mdcode"
)

// InlineTag names inline expressions in errors.
const InlineTag = "inline"

// Registry dispatches blocks to the first registered reader claiming them.
type Registry struct {
	readers []Reader
}

// NewRegistry returns a registry dispatching in the given order.
func NewRegistry(readers ...Reader) *Registry {
	return &Registry{readers: readers}
}

// Register appends a reader. It is consulted after every reader registered
// before it.
func (r *Registry) Register(reader Reader) {
	r.readers = append(r.readers, reader)
}

// ReadBlock builds the block for a fenced body. A nil block with a nil error
// means the reader consumed the content.
func (r *Registry) ReadBlock(header *mdcode.Header, body string, line int) (Block, error) {
	for _, reader := range r.readers {
		if !reader.CanReadBlock(header) {
			continue
		}

		block, err := reader.ReadBlock(header, body)
		if err != nil {
			return nil, &BlockError{Tag: header.Tag, Line: line, Kind: ErrBlockRead, Err: err}
		}

		return block, nil
	}

	return nil, &BlockError{Tag: header.Tag, Line: line, Kind: ErrUnknownBlockType}
}

// ReadInline builds the block for an inline code span. The bool return
// indicates whether any reader claimed the span.
func (r *Registry) ReadInline(code string, line int) (Block, bool, error) {
	for _, reader := range r.readers {
		if !reader.CanReadInline(code) {
			continue
		}

		block, err := reader.ReadInline(code)
		if err != nil {
			return nil, true, &BlockError{Tag: InlineTag, Line: line, Kind: ErrBlockRead, Err: err}
		}

		return block, true, nil
	}

	return nil, false, nil
}

// Datasets returns the datasets retained by the readers, in reader order.
func (r *Registry) Datasets() []Dataset {
	var datasets []Dataset

	for _, reader := range r.readers {
		if p, ok := reader.(DatasetProvider); ok {
			datasets = append(datasets, p.Datasets()...)
		}
	}

	return datasets
}
