package custom

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownBlockType is returned when no reader claims a block tag.
	ErrUnknownBlockType = errors.New("custom block type is not implemented")
	// ErrBlockRead is returned when a reader fails to build a block.
	ErrBlockRead = errors.New("error while reading custom block")
	// ErrNestedExternal is returned for an External block that is not a
	// top-level element.
	ErrNestedExternal = errors.New("external block is not a top-level element")
	// ErrUnsupported is returned by a reader called with content it did not
	// claim.
	ErrUnsupported = errors.New("reader called with unsupported content")
)

// BlockError locates a failure at a custom block. It unwraps to both its
// kind and its cause.
type BlockError struct {
	Tag  string
	Line int
	Kind error
	Err  error
}

func (e *BlockError) Error() string {
	msg := fmt.Sprintf("%s `%s`", e.Kind, e.Tag)
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *BlockError) Unwrap() []error {
	errs := make([]error, 0, 2)

	for _, err := range []error{e.Kind, e.Err} {
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}
