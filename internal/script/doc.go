/*
Package script evaluates the script blocks of a document.

A document has one Runtime per render. Script blocks run in source order
against one persistent scope, so later blocks and inline expressions see
what earlier blocks defined. A ScriptGlobals block contributes its function
declarations to every unit compiled after it; its other statements never
run. Table and chart scripts run in a function scope of the same engine:
they read everything earlier blocks defined, but their own declarations
are dropped when they return.

Calls of debug(...) are recorded with the source line they were made from
and written back below that line, prefixed with "// > ". Such lines are
stripped before a block runs again.
*/
package script

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'mdrender.script'.
func tracer() tracing.Trace {
	return tracing.Select("mdrender.script")
}
