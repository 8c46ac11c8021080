package cmd

import (
	_ "embed"
	"fmt"

	"github.com/ezerfernandes/mdrender/internal/mdcode"
	"github.com/gobwas/glob"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
)

//go:embed help/blocks.md
var blocksHelp string

func blocksCmd(opts *options) *cobra.Command {
	var (
		tag   string
		plain bool
	)

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "blocks [flags] [filename]",
		Aliases: []string{"b"},
		Short:   "List the fenced blocks of a document",
		Long:    blocksHelp,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			match, err := glob.Compile(tag)
			if err != nil {
				return err
			}

			src, err := opts.readSource(source(args))
			if err != nil {
				return err
			}

			fences, err := mdcode.Unfence(src)
			if err != nil {
				return err
			}

			tbl := table.New("#", "TAG", "LANG", "LINES").WithWriter(cmd.OutOrStdout())

			for i, fence := range fences {
				if fence.Header == nil && !plain {
					continue
				}

				if fence.Header != nil && !match.Match(fence.Tag()) {
					continue
				}

				tbl.AddRow(i, orDash(fence.Tag()), orDash(fence.Lang()), fmt.Sprintf("%d-%d", fence.StartLine, fence.EndLine))
			}

			tbl.Print()

			return nil
		},

		DisableAutoGenTag: true,
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "*", "glob pattern for custom block tags")
	cmd.Flags().BoolVarP(&plain, "all", "a", false, "list plain code blocks too")

	return cmd
}

func orDash(s string) string {
	if len(s) == 0 {
		return "-"
	}

	return s
}
