package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ezerfernandes/mdrender/internal/blocks"
	"github.com/ezerfernandes/mdrender/internal/custom"
	"github.com/ezerfernandes/mdrender/internal/script"
)

var (
	errFormat = errors.New("unknown output format")
	errPolicy = errors.New("unknown error policy")
)

// Format is the output format of a render.
type Format int

// Output formats.
const (
	FormatHTML Format = iota
	FormatMarkdown
)

var formatNames = map[Format]string{
	FormatHTML:     "html",
	FormatMarkdown: "markdown",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}

	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat returns the format with the given name. "md" is accepted for
// markdown.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "html":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}

	return 0, fmt.Errorf("%w: %q", errFormat, name)
}

// ErrorPolicy decides what happens when a custom block fails.
type ErrorPolicy int

const (
	// FailFast aborts the render with the first block error.
	FailFast ErrorPolicy = iota
	// BestEffort substitutes an error marker for the failed block and goes on.
	BestEffort
)

var policyNames = map[ErrorPolicy]string{
	FailFast:   "fail-fast",
	BestEffort: "best-effort",
}

func (p ErrorPolicy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}

	return fmt.Sprintf("ErrorPolicy(%d)", int(p))
}

// ParseErrorPolicy returns the policy with the given name.
func ParseErrorPolicy(name string) (ErrorPolicy, error) {
	for p, n := range policyNames {
		if strings.EqualFold(n, name) {
			return p, nil
		}
	}

	if len(name) == 0 {
		return FailFast, nil
	}

	return 0, fmt.Errorf("%w: %q", errPolicy, name)
}

// ShellOptions enable and confine Shell blocks.
type ShellOptions struct {
	Enabled bool
	Dir     string
	Timeout time.Duration
}

// Options configure a render.
type Options struct {
	Format Format
	// Standalone wraps HTML output in a complete page. Head and Body are
	// injected into that page and ignored otherwise.
	Standalone bool
	Head       string
	Body       string
	Errors     ErrorPolicy
	Shell      ShellOptions

	// Plotter and Layouter replace the default chart and graph engines.
	Plotter  custom.Plotter
	Layouter blocks.Layouter
}

// NewRegistry returns the readers of one render, in dispatch order: scripts,
// code, charts, graphs and, when enabled, shell sessions.
func NewRegistry(opts Options) *custom.Registry {
	var plotter custom.Plotter = blocks.GoChart{}
	if opts.Plotter != nil {
		plotter = opts.Plotter
	}

	var layouter blocks.Layouter = blocks.Graphviz{}
	if opts.Layouter != nil {
		layouter = opts.Layouter
	}

	registry := custom.NewRegistry(
		script.NewReader(plotter),
		blocks.NewCodeReader(),
		blocks.NewPlottersReader(plotter),
		blocks.NewGraphReader(layouter),
	)

	if opts.Shell.Enabled {
		registry.Register(blocks.NewShellReader(opts.Shell.Dir, opts.Shell.Timeout))
	}

	return registry
}
