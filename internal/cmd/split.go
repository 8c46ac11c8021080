package cmd

import (
	_ "embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/ezerfernandes/mdrender/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	//go:embed help/split.md
	splitHelp string

	//go:embed help/join.md
	joinHelp string
)

const partExt = ".md"

func partName(id int) string {
	return fmt.Sprintf("%03d%s", id, partExt)
}

func splitCmd(opts *options) *cobra.Command {
	var dir string

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "split [flags] [filename]",
		Short: "Write every top-level element of a document to its own file",
		Long:  splitHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ropts, err := opts.renderOptions(cmd)
			if err != nil {
				return err
			}

			src, err := opts.readSource(source(args))
			if err != nil {
				return err
			}

			return splitRun(src, dir, opts, ropts)
		},

		DisableAutoGenTag: true,
	}

	errorsFlag(cmd, opts)
	shellFlags(cmd, opts)
	cmd.Flags().StringVarP(&dir, "dir", "d", "blocks", "directory of the block files")

	return cmd
}

func splitRun(src []byte, dir string, opts *options, ropts pipeline.Options) error {
	doc, err := pipeline.RenderBlocks(src, ropts)
	if err != nil {
		return err
	}

	if err := opts.fs.MkdirAll(dir, dirMode); err != nil {
		return err
	}

	for _, block := range doc.Blocks {
		md := block.Markdown
		if block.External != nil {
			md = block.External.Markdown()
		}

		if err := opts.fs.WriteFile(path.Join(dir, partName(block.ID)), []byte(md), fileMode); err != nil {
			return err
		}
	}

	opts.status("wrote %d block(s) to %s\n", len(doc.Blocks), dir)

	return nil
}

func joinCmd(opts *options) *cobra.Command {
	var dir string

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "join [flags]",
		Short: "Join block files back into one document",
		Long:  joinHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ropts, err := opts.renderOptions(cmd)
			if err != nil {
				return err
			}

			out, err := joinRun(dir, opts, ropts)
			if err != nil {
				return err
			}

			return opts.writeOutput(cmd, []byte(out))
		},

		DisableAutoGenTag: true,
	}

	errorsFlag(cmd, opts)
	shellFlags(cmd, opts)
	outputFlag(cmd, opts)
	cmd.Flags().StringVarP(&dir, "dir", "d", "blocks", "directory of the block files")

	return cmd
}

// joinRun reads the block files of dir in name order and renders them as
// one canonical document.
func joinRun(dir string, opts *options, ropts pipeline.Options) (string, error) {
	entries, err := opts.fs.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var names []string

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), partExt) {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)

	doc := &pipeline.Document{Blocks: make([]pipeline.Block, 0, len(names))}

	for i, name := range names {
		data, err := opts.fs.ReadFile(path.Join(dir, name))
		if err != nil {
			return "", err
		}

		doc.Blocks = append(doc.Blocks, pipeline.Block{ID: i, Markdown: string(data)})
	}

	joined, err := doc.Rerender(ropts)
	if err != nil {
		return "", err
	}

	opts.status("joined %d file(s) into %d block(s)\n", len(names), len(joined.Blocks))

	return joined.Markdown(), nil
}
