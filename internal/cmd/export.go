package cmd

import (
	"bytes"
	_ "embed"
	"errors"

	"github.com/ezerfernandes/mdrender/internal/export"
	"github.com/ezerfernandes/mdrender/internal/pipeline"
	"github.com/spf13/cobra"
)

//go:embed help/export.md
var exportHelp string

var errMissingOutput = errors.New("sqlite export needs an output file (--output)")

func exportCmd(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "export [flags] [filename]",
		Short: "Export the datasets of a document",
		Long:  exportHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			if f == export.SQLite && (len(opts.output) == 0 || opts.output == "-") {
				return errMissingOutput
			}

			ropts, err := opts.renderOptions(cmd)
			if err != nil {
				return err
			}

			src, err := opts.readSource(source(args))
			if err != nil {
				return err
			}

			doc, err := pipeline.RenderBlocks(src, ropts)
			if err != nil {
				return err
			}

			opts.status("exporting %d dataset(s)\n", len(doc.Datasets))

			if f == export.SQLite {
				return export.WriteSQLite(cmd.Context(), opts.output, doc.Datasets)
			}

			var buf bytes.Buffer

			if f == export.YAML {
				err = export.WriteYAML(&buf, doc.Datasets)
			} else {
				err = export.WriteJSON(&buf, doc.Datasets)
			}

			if err != nil {
				return err
			}

			return opts.writeOutput(cmd, buf.Bytes())
		},

		DisableAutoGenTag: true,
	}

	errorsFlag(cmd, opts)
	shellFlags(cmd, opts)
	outputFlag(cmd, opts)
	cmd.Flags().StringVar(&format, "as", "json", "export format (json, yaml, sqlite)")

	return cmd
}
