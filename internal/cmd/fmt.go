package cmd

import (
	"bytes"
	_ "embed"
	"errors"

	"github.com/ezerfernandes/mdrender/internal/pipeline"
	"github.com/spf13/cobra"
)

//go:embed help/fmt.md
var fmtHelp string

var errWriteStdin = errors.New("cannot write back standard input")

func fmtCmd(opts *options) *cobra.Command {
	var write bool

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "fmt [flags] [filename]",
		Short: "Rewrite a document as canonical Markdown",
		Long:  fmtHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ropts, err := opts.renderOptions(cmd)
			if err != nil {
				return err
			}

			ropts.Format = pipeline.FormatMarkdown

			filename := source(args)
			if write && filename == "-" {
				return errWriteStdin
			}

			src, err := opts.readSource(filename)
			if err != nil {
				return err
			}

			out, err := pipeline.Render(src, ropts)
			if err != nil {
				return err
			}

			if !write {
				return opts.writeOutput(cmd, []byte(out))
			}

			if bytes.Equal(src, []byte(out)) {
				opts.status("%s unchanged\n", filename)

				return nil
			}

			if err := opts.fs.WriteFile(filename, []byte(out), fileMode); err != nil {
				return err
			}

			opts.status("formatted %s\n", filename)

			return nil
		},

		DisableAutoGenTag: true,
	}

	errorsFlag(cmd, opts)
	shellFlags(cmd, opts)
	outputFlag(cmd, opts)
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the source file")

	return cmd
}
