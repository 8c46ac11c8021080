package cmd

import (
	_ "embed"

	"github.com/ezerfernandes/mdrender/internal/pipeline"
	"github.com/spf13/cobra"
)

//go:embed help/render.md
var renderHelp string

func renderCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "render [flags] [filename]",
		Aliases: []string{"r"},
		Short:   "Render a document to HTML or Markdown",
		Long:    renderHelp,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ropts, err := opts.renderOptions(cmd)
			if err != nil {
				return err
			}

			src, err := opts.readSource(source(args))
			if err != nil {
				return err
			}

			out, err := pipeline.Render(src, ropts)
			if err != nil {
				return err
			}

			return opts.writeOutput(cmd, []byte(out))
		},

		DisableAutoGenTag: true,
	}

	renderFlags(cmd, opts)
	outputFlag(cmd, opts)

	return cmd
}
