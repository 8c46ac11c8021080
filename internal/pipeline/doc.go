// Package pipeline renders Markdown documents with custom blocks to HTML or
// to canonical Markdown, as a whole or one top-level element at a time.
//
// A render tokenizes the document, classifies the events in one linear pass
// (dispatching custom blocks and inline expressions to the registered
// readers) and feeds the classified events to a renderer. Every render uses
// a fresh set of readers, so the output is a pure function of the input.
package pipeline

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'mdrender.pipeline'.
func tracer() tracing.Trace {
	return tracing.Select("mdrender.pipeline")
}
