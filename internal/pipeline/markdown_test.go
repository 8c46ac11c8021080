package pipeline_test

import (
	"errors"
	"testing"

	"github.com/ezerfernandes/mdrender/internal/custom"
	"github.com/ezerfernandes/mdrender/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func markdown(t *testing.T, document string) string {
	t.Helper()

	md, err := pipeline.Render([]byte(document), options(pipeline.FormatMarkdown))
	require.NoError(t, err)

	return md
}

func TestMarkdownFixedPoints(t *testing.T) {
	for name, document := range map[string]string{
		"inline":       "# Title\n\nSome *em* and **strong** text with `code` and ~~gone~~.\n",
		"quote":        "> quote\n> more\n",
		"ordered":      "3. three\n4. four\n",
		"nested":       "- a\n  - b\n  - c\n- d\n",
		"loose":        "- a\n\n- b\n",
		"quoted list":  "> - a\n> - b\n",
		"table":        "| a | b |\n| :-- | --: |\n| 1 | 2 |\n",
		"rule":         "one\n\n***\n\ntwo\n",
		"fence":        "```go\nfmt.Println(1)\n```\n",
		"long fence":   "````\n```\nnested\n```\n````\n",
		"indented":     "    code\n    more\n",
		"html":         "<div>\nhtml\n</div>\n",
		"hard break":   "line one\\\nline two\n",
		"link":         "[site](http://example.com \"Home\") and ![alt](img.png)\n",
		"autolink":     "<http://example.com>\n",
		"tasks":        "- [x] done\n- [ ] todo\n",
		"code in item": "- item\n\n  ```{\"t\":\"Code\"}\n  x\n  ```\n",
		"raw inline":   "a <span>b</span> c\n",
		"empty":        "",
	} {
		assert.Equal(t, document, markdown(t, document), name)
	}
}

func TestMarkdownCanonicalForms(t *testing.T) {
	for _, tc := range []struct {
		name, in, out string
	}{
		{"setext", "Title\n=====\n\nSub\n---\n", "# Title\n\n## Sub\n"},
		{"underscore", "_a_ and __b__\n", "*a* and **b**\n"},
		{"rule", "---\n", "***\n"},
		{"trailing spaces break", "a  \nb\n", "a\\\nb\n"},
		{"reference", "[x][r]\n\n[r]: http://e.com \"T\"\n", "[x](http://e.com \"T\")\n"},
		{"header literal", "```{t=Code language=go}\nx := 1\n```\n", "```{\"t\":\"Code\",\"language\":\"go\"}\nx := 1\n```\n"},
		{"spaced destination", "[a](<b c>)\n", "[a](<b c>)\n"},
		{"blank lines", "\n\n# A\n\n\n\nb\n", "# A\n\nb\n"},
	} {
		assert.Equal(t, tc.out, markdown(t, tc.in), tc.name)
		assert.Equal(t, tc.out, markdown(t, tc.out), tc.name)
	}
}

func TestMarkdownPreservesStructure(t *testing.T) {
	html := func(document string) string {
		t.Helper()

		out, err := pipeline.Render([]byte(document), options(pipeline.FormatHTML))
		require.NoError(t, err)

		return out
	}

	for _, document := range []string{
		"foo\n    1. bar\n",
		"foo\n    2) bar\n",
		"foo\n    # not a heading\n",
		"foo\n    > not a quote\n",
		"foo\n    - not an item\n",
		"foo\n    + not an item\n",
		"foo\n    ===\n",
		"foo\n    ---\n",
		"foo\n    ```\n",
		"a\\\n    3. after a hard break\n",
		"- item\n  text\n      * more\n",
		"> quoted\n>     # line\n",
		"1.5 is a number\nand 2.5 too\n",
		"# Title\n\nSome *em* and **strong** text\nover two lines.\n",
		"- a\n  - b\n- c\n\n| x | y |\n| --- | :-: |\n| 1 | 2 |\n",
		"[x][r]\n\n[r]: http://e.com \"T\"\n\nafter\n",
	} {
		md := markdown(t, document)

		assert.Equal(t, html(document), html(md), document)
		assert.Equal(t, md, markdown(t, md), document)
	}
}

func TestReferenceDefinitionIsNotABlock(t *testing.T) {
	document := "[x][r]\n\n[r]: http://e.com \"T\"\n\nafter\n"

	doc, err := pipeline.RenderBlocks([]byte(document), options(pipeline.FormatHTML))
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 2)

	for i, block := range doc.Blocks {
		assert.Equal(t, i, block.ID)
		assert.NotEmpty(t, block.HTML)
	}

	assert.Equal(t, "[x](http://e.com \"T\")\n", doc.Blocks[0].Markdown)
	assert.Equal(t, "after\n", doc.Blocks[1].Markdown)
	assert.Equal(t, "[x](http://e.com \"T\")\n\nafter\n", markdown(t, document))
}

func TestContinuationLinesAreEscaped(t *testing.T) {
	for in, out := range map[string]string{
		"foo\n    1. bar\n":  "foo\n1\\. bar\n",
		"foo\n    # bar\n":   "foo\n\\# bar\n",
		"foo\n    ===\n":     "foo\n\\===\n",
		"a\\\n    - b\n":    "a\\\n\\- b\n",
		"foo\n    2.5 bar\n": "foo\n2.5 bar\n",
	} {
		assert.Equal(t, out, markdown(t, in), in)
	}
}

func TestMalformedHeaderIsPlainCode(t *testing.T) {
	document := "```{t: [oops\nbody\n```\n"

	assert.Equal(t, document, markdown(t, document))

	out, err := pipeline.Render([]byte(document), options(pipeline.FormatHTML))
	require.NoError(t, err)
	assert.Contains(t, out, "<pre><code")
	assert.Contains(t, out, "body\n</code></pre>")
}

func TestErrorPolicies(t *testing.T) {
	document := "```{t: Nope}\nx\n```\n"

	_, err := pipeline.Render([]byte(document), options(pipeline.FormatHTML))
	require.ErrorIs(t, err, custom.ErrUnknownBlockType)

	var blockErr *custom.BlockError
	require.True(t, errors.As(err, &blockErr))
	assert.Equal(t, "Nope", blockErr.Tag)
	assert.Equal(t, 1, blockErr.Line)

	opts := options(pipeline.FormatHTML)
	opts.Errors = pipeline.BestEffort

	out, err := pipeline.Render([]byte(document), opts)
	require.NoError(t, err)
	assert.Contains(t, out, `<div class="error">`)
	assert.Contains(t, out, "custom block type is not implemented")

	opts.Format = pipeline.FormatMarkdown

	md, err := pipeline.Render([]byte(document), opts)
	require.NoError(t, err)
	assert.Equal(t, out, md)

	again, err := pipeline.Render([]byte(md), opts)
	require.NoError(t, err)
	assert.Equal(t, md, again)
}

func TestBlockReadFailure(t *testing.T) {
	document := "Before.\n\n```{t: Script}\nthrow new Error('boom')\n```\n\nValue `_undefinedName_`\n"

	_, err := pipeline.Render([]byte(document), options(pipeline.FormatHTML))
	require.ErrorIs(t, err, custom.ErrBlockRead)
	assert.Contains(t, err.Error(), "line 3")

	opts := options(pipeline.FormatHTML)
	opts.Errors = pipeline.BestEffort

	out, err := pipeline.Render([]byte(document), opts)
	require.NoError(t, err)
	assert.Contains(t, out, "<p>Before.</p>")
	assert.Contains(t, out, `<div class="error">`)
	assert.Contains(t, out, `<span class="error">`)
}

func TestNestedExternal(t *testing.T) {
	document := "- item\n\n  ```{t: External}\n  body\n  ```\n"

	_, err := pipeline.Render([]byte(document), options(pipeline.FormatHTML))
	require.ErrorIs(t, err, custom.ErrNestedExternal)
}

func TestParseOptions(t *testing.T) {
	f, err := pipeline.ParseFormat("md")
	require.NoError(t, err)
	assert.Equal(t, pipeline.FormatMarkdown, f)

	_, err = pipeline.ParseFormat("pdf")
	require.Error(t, err)

	p, err := pipeline.ParseErrorPolicy("best-effort")
	require.NoError(t, err)
	assert.Equal(t, pipeline.BestEffort, p)
	assert.Equal(t, "best-effort", p.String())

	_, err = pipeline.ParseErrorPolicy("ignore")
	require.Error(t, err)
}
