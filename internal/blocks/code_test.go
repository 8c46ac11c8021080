package blocks_test

import (
	"testing"

	"github.com/ezerfernandes/mdrender/internal/blocks"
	"github.com/ezerfernandes/mdrender/internal/mdcode"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func header(t *testing.T, info string) *mdcode.Header {
	t.Helper()

	h, err := mdcode.ParseHeader(info)
	require.NoError(t, err)

	return h
}

func TestCodePlain(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdrender.blocks")
	defer teardown()

	r := blocks.NewCodeReader()
	h := header(t, `{t: Code}`)

	require.True(t, r.CanReadBlock(h))

	b, err := r.ReadBlock(h, "a < b\nc\n")
	require.NoError(t, err)

	assert.Equal(t, `<div><pre data-file="" class="chroma codeblock language-none"><code class="">`+
		`<span data-linenumber="1|">a &lt; b</span>`+"\n"+
		`<span data-linenumber="2|">c</span>`+"\n"+
		"</code></pre></div>\n", b.HTML())
	assert.Equal(t, "```{\"t\":\"Code\"}\na < b\nc\n```\n", b.Markdown())
}

func TestCodeNumbered(t *testing.T) {
	r := blocks.NewCodeReader()
	h := header(t, `{t: Code, filename: main.go, numbers_start_at: 10}`)

	b, err := r.ReadBlock(h, "package main\n\nfunc main() {}\n")
	require.NoError(t, err)

	html := b.HTML()

	assert.Contains(t, html, `data-file="main.go"`)
	assert.Contains(t, html, `<code class="numbered">`)
	assert.Contains(t, html, `data-linenumber="10|"`)
	assert.Contains(t, html, `data-linenumber="12|"`)
	assert.NotContains(t, html, `data-linenumber="13|"`)
	assert.Contains(t, html, `<span class="kd">func</span>`)
}

func TestCodeNumbersOff(t *testing.T) {
	r := blocks.NewCodeReader()
	h := header(t, `{t: Code, language: go, filename: main.go, numbers: false}`)

	b, err := r.ReadBlock(h, "var x = 1\n")
	require.NoError(t, err)

	assert.Contains(t, b.HTML(), `class="chroma codeblock language-go"><code class="">`)
	assert.Contains(t, b.HTML(), `<span class="kd">var</span>`)
}

func TestCodeMarkdownStable(t *testing.T) {
	r := blocks.NewCodeReader()
	h := header(t, `{t=Code language=go}`)

	b, err := r.ReadBlock(h, "x := 1\n")
	require.NoError(t, err)

	md := b.Markdown()
	assert.Equal(t, "```{\"t\":\"Code\",\"language\":\"go\"}\nx := 1\n```\n", md)

	fences, err := mdcode.Unfence([]byte(md))
	require.NoError(t, err)
	require.Len(t, fences, 1)

	again, err := r.ReadBlock(fences[0].Header, string(fences[0].Body))
	require.NoError(t, err)
	assert.Equal(t, md, again.Markdown())
	assert.Equal(t, b.HTML(), again.HTML())
}

func TestCodeCSS(t *testing.T) {
	css := blocks.CodeCSS()

	assert.Contains(t, css, ".chroma")
	assert.Contains(t, css, ".kd")
}
