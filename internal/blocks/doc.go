// Package blocks holds the readers of the custom blocks backed by an
// external engine: highlighted code, graphs, charts and shell sessions.
package blocks

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'mdrender.blocks'.
func tracer() tracing.Trace {
	return tracing.Select("mdrender.blocks")
}
