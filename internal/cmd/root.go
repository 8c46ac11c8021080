// Package cmd implements the mdrender command line.
package cmd

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/spf13/cobra"
)

//go:embed help/root.md
var rootHelp string

// Execute runs the command line and exits with a nonzero status on failure.
func Execute(args []string, stdout, stderr io.Writer) {
	opts := &options{fs: osFS{}, stdin: os.Stdin}

	if err := run(opts, args, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts *options, args []string, stdout, stderr io.Writer) error {
	root := rootCmd(opts)

	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetIn(opts.stdin)

	return root.Execute()
}

func rootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{ //nolint:exhaustruct
		Use:   "mdrender",
		Short: "Render Markdown documents with custom blocks",
		Long:  rootHelp,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts.createStatus(cmd.ErrOrStderr())
			setupTracing(cmd.ErrOrStderr(), opts.verbose)

			return opts.loadConfig()
		},

		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	root.PersistentFlags().StringVar(&opts.config, "config", "mdrender.yaml", "configuration file")
	root.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress status messages")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "trace the rendering pipeline")

	root.AddCommand(
		renderCmd(opts),
		fmtCmd(opts),
		blocksCmd(opts),
		splitCmd(opts),
		joinCmd(opts),
		exportCmd(opts),
		serveCmd(opts),
	)

	return root
}

// setupTracing routes every package tracer to out.
func setupTracing(out io.Writer, verbose bool) {
	tracing.SetTraceSelector(tracing.SelectorForAdapter(gologadapter.GetAdapter()))

	trace := tracing.Select("mdrender")
	trace.SetOutput(out)

	if verbose {
		trace.SetTraceLevel(tracing.LevelDebug)
	} else {
		trace.SetTraceLevel(tracing.LevelError)
	}
}
