package pipeline_test

import (
	"context"
	"strings"
	"testing"

	"github.com/ezerfernandes/mdrender/internal/custom"
	"github.com/ezerfernandes/mdrender/internal/pipeline"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

type fakePlotter struct{}

func (fakePlotter) Plot(*custom.Chart) (string, error) { return "<svg>chart</svg>", nil }

type fakeLayouter struct{}

func (fakeLayouter) Layout(context.Context, []byte) (string, error) { return "<svg>graph</svg>", nil }

func options(format pipeline.Format) pipeline.Options {
	return pipeline.Options{Format: format, Plotter: fakePlotter{}, Layouter: fakeLayouter{}}
}

const blocksDocument = `
# Header

A paragraph.

` + "```" + `
Code block
` + "```" + `

New paragraph

- List
- List

` + "```{t: External, test: 123}" + `
External block
` + "```\n"

func TestRenderBlocks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdrender.pipeline")
	defer teardown()

	doc, err := pipeline.RenderBlocks([]byte(blocksDocument), options(pipeline.FormatHTML))
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 6)

	for i, block := range doc.Blocks {
		assert.Equal(t, i, block.ID)
	}

	assert.Equal(t, "# Header\n", doc.Blocks[0].Markdown)
	assert.Equal(t, "A paragraph.\n", doc.Blocks[1].Markdown)
	assert.Equal(t, "```\nCode block\n```\n", doc.Blocks[2].Markdown)
	assert.Equal(t, "New paragraph\n", doc.Blocks[3].Markdown)
	assert.Equal(t, "- List\n- List\n", doc.Blocks[4].Markdown)

	assert.Equal(t, "<h1 id=\"header\">Header</h1>\n", doc.Blocks[0].HTML)
	assert.Equal(t, "<p>A paragraph.</p>\n", doc.Blocks[1].HTML)
	assert.Equal(t, "<pre><code>Code block\n</code></pre>\n", doc.Blocks[2].HTML)
	assert.Equal(t, "<ul>\n<li>List</li>\n<li>List</li>\n</ul>\n", doc.Blocks[4].HTML)

	ext := doc.Blocks[5]
	assert.Empty(t, ext.HTML)
	assert.Empty(t, ext.Markdown)
	require.NotNil(t, ext.External)
	assert.Equal(t, "External block\n", ext.External.Body)
	assert.Equal(t, 123, ext.External.Head["test"])

	assert.Contains(t, doc.CSS, ".content")
	assert.Contains(t, doc.CSS, ".chroma")
}

func TestRerender(t *testing.T) {
	document := strings.TrimSuffix(blocksDocument, "```{t: External, test: 123}\nExternal block\n```\n")

	doc, err := pipeline.RenderBlocks([]byte(document), options(pipeline.FormatHTML))
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 5)

	doc.Blocks[1].Markdown = "A changed paragraph.\n\nNew paragraph in same block"

	doc, err = doc.Rerender(options(pipeline.FormatHTML))
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 6)
	assert.Equal(t, "A changed paragraph.\n", doc.Blocks[1].Markdown)
	assert.Equal(t, "New paragraph in same block\n", doc.Blocks[2].Markdown)

	doc.Blocks[2].Markdown = ""

	doc, err = doc.Rerender(options(pipeline.FormatHTML))
	require.NoError(t, err)
	assert.Len(t, doc.Blocks, 5)
}

func TestRerenderKeepsExternal(t *testing.T) {
	doc, err := pipeline.RenderBlocks([]byte(blocksDocument), options(pipeline.FormatHTML))
	require.NoError(t, err)

	again, err := doc.Rerender(options(pipeline.FormatHTML))
	require.NoError(t, err)
	require.Len(t, again.Blocks, 6)
	require.NotNil(t, again.Blocks[5].External)
	assert.Equal(t, doc.Blocks[5].External.Body, again.Blocks[5].External.Body)
}

func TestWholeMarkdownJoinsBlocks(t *testing.T) {
	document := "# Title\n\n```{t: Script}\nlet x = 1\ndebug(x)\n```\n\n> quote `_x + 1_`\n\n1. a\n2. b\n"

	doc, err := pipeline.RenderBlocks([]byte(document), options(pipeline.FormatHTML))
	require.NoError(t, err)

	md, err := pipeline.Render([]byte(document), options(pipeline.FormatMarkdown))
	require.NoError(t, err)

	fragments := make([]string, 0, len(doc.Blocks))
	for _, block := range doc.Blocks {
		fragments = append(fragments, block.Markdown)
	}

	assert.Equal(t, strings.Join(fragments, "\n"), md)
	assert.Equal(t, doc.Markdown(), md)

	out, err := pipeline.Render([]byte(document), options(pipeline.FormatHTML))
	require.NoError(t, err)
	assert.Equal(t, doc.HTML(), out)
}

func TestScriptRerenderIsStable(t *testing.T) {
	document := "```{t: Script}\nlet x = 2\ndebug(x * 21)\n```\n\nValue: `_x + 1_`\n"
	want := "```{\"t\":\"Script\"}\nlet x = 2\ndebug(x * 21)\n// > 42\n```\n\nValue: `_x + 1 // > 3_`\n"

	md, err := pipeline.Render([]byte(document), options(pipeline.FormatMarkdown))
	require.NoError(t, err)
	assert.Equal(t, want, md)

	again, err := pipeline.Render([]byte(md), options(pipeline.FormatMarkdown))
	require.NoError(t, err)
	assert.Equal(t, want, again)

	out, err := pipeline.Render([]byte(md), options(pipeline.FormatHTML))
	require.NoError(t, err)
	assert.Contains(t, out, `<span class="script-output">// &gt; 42</span>`)
	assert.Contains(t, out, `<p>Value: <code class="inline-script">x + 1 // &gt; 3</code></p>`)
	assert.Equal(t, 1, strings.Count(out, "42"))
}

func TestGlobalsPassThrough(t *testing.T) {
	document := "```{t: ScriptGlobals}\nfunction sq(x) { return x * x }\n```\n\nResult `_sq(4)_`\n"

	out, err := pipeline.Render([]byte(document), options(pipeline.FormatHTML))
	require.NoError(t, err)
	assert.Equal(t, "<p>Result <code class=\"inline-script\">sq(4) // &gt; 16</code></p>\n", out)

	md, err := pipeline.Render([]byte(document), options(pipeline.FormatMarkdown))
	require.NoError(t, err)
	assert.Equal(t, "```{\"t\":\"ScriptGlobals\"}\nfunction sq(x) { return x * x }\n```\n\nResult `_sq(4) // > 16_`\n", md)
}

func TestDynamicTableReadsScriptScope(t *testing.T) {
	document := "```{t: Script}\nconst limit = 3;\n```\n\n" +
		"```{t: DynamicTable}\nrow(['i']);\nfor (let i = 0; i < limit; i++) row([i]);\ndebug(limit);\n```\n"

	md, err := pipeline.Render([]byte(document), options(pipeline.FormatMarkdown))
	require.NoError(t, err)
	assert.Contains(t, md, "// > | i |\n// > |---|\n// > | 0 |\n// > | 1 |\n// > | 2 |\n")

	again, err := pipeline.Render([]byte(md), options(pipeline.FormatMarkdown))
	require.NoError(t, err)
	assert.Equal(t, md, again)

	out, err := pipeline.Render([]byte(document), options(pipeline.FormatHTML))
	require.NoError(t, err)
	assert.Contains(t, out, "<td>2</td>")
}

func TestCustomBlocksDispatch(t *testing.T) {
	document := "```{t: Graph}\ndigraph { a -> b }\n```\n\n" +
		"```{t: Plotters}\ntype: LineChart\ndata: [[[0, 1], [1, 2]]]\n```\n\n" +
		"```{t: DynamicChart, title: Line}\nplot([[0, 0], [1, 1]])\n```\n"

	out, err := pipeline.Render([]byte(document), options(pipeline.FormatHTML))
	require.NoError(t, err)

	assert.Equal(t, "<svg>graph</svg>\n<svg>chart</svg>\n<svg>chart</svg>\n", out)
}

func TestShellDisabledByDefault(t *testing.T) {
	document := "```{t: Shell}\necho hi\n```\n"

	_, err := pipeline.Render([]byte(document), options(pipeline.FormatHTML))
	require.ErrorIs(t, err, custom.ErrUnknownBlockType)

	opts := options(pipeline.FormatMarkdown)
	opts.Shell = pipeline.ShellOptions{Enabled: true, Dir: t.TempDir()}

	md, err := pipeline.Render([]byte(document), opts)
	require.NoError(t, err)
	assert.Equal(t, "```{\"t\":\"Shell\"}\necho hi\n# > hi\n```\n", md)
}

func TestDatasets(t *testing.T) {
	document := "```{t: Data}\nname: people\ndata:\n  - {name: Ada, age: 36}\n  - {name: Alan, age: 41}\n```\n\n" +
		"Oldest: `_people[1].name_`\n"

	doc, err := pipeline.RenderBlocks([]byte(document), options(pipeline.FormatHTML))
	require.NoError(t, err)

	require.Len(t, doc.Datasets, 1)
	assert.Equal(t, "people", doc.Datasets[0].Name)
	assert.Len(t, doc.Datasets[0].Rows, 2)
	assert.Contains(t, doc.Blocks[1].HTML, "people[1].name // &gt; Alan")
}

func TestStandalonePage(t *testing.T) {
	opts := options(pipeline.FormatHTML)
	opts.Standalone = true
	opts.Head = `<meta name="robots" content="noindex">`
	opts.Body = `<nav>top</nav>`

	out, err := pipeline.Render([]byte("# Hi\n"), opts)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, opts.Head)
	assert.Contains(t, out, opts.Body)
	assert.Contains(t, out, "<div class=\"content\">\n<h1 id=\"hi\">Hi</h1>\n</div>")

	opts.Standalone = false

	out, err = pipeline.Render([]byte("# Hi\n"), opts)
	require.NoError(t, err)
	assert.Equal(t, "<h1 id=\"hi\">Hi</h1>\n", out)
}

func TestCodeBlockHTML(t *testing.T) {
	document := "```{t: Code, language: go, filename: main.go}\npackage main\n\nfunc main() {}\n```\n"

	out, err := pipeline.Render([]byte(document), options(pipeline.FormatHTML))
	require.NoError(t, err)

	root, err := html.Parse(strings.NewReader(out))
	require.NoError(t, err)

	var numbers []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "span" {
			for _, a := range n.Attr {
				if a.Key == "data-linenumber" {
					numbers = append(numbers, a.Val)
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	assert.Equal(t, []string{"1|", "2|", "3|"}, numbers)
}

func TestParseEvents(t *testing.T) {
	events, err := pipeline.Parse([]byte("para `_1_`\n\n```{t: External}\nx\n```\n"), options(pipeline.FormatHTML))
	require.NoError(t, err)

	var kinds []pipeline.EventKind
	for _, ev := range events {
		if ev.Kind != pipeline.Standard {
			kinds = append(kinds, ev.Kind)
		}
	}

	assert.Equal(t, []pipeline.EventKind{pipeline.Separator, pipeline.Custom, pipeline.Separator, pipeline.External}, kinds)
}
