package blocks_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ezerfernandes/mdrender/internal/blocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellOutput(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "greeting.txt"), []byte("hello\n"), 0o600))

	r := blocks.NewShellReader(dir, time.Second)
	h := header(t, `{t: Shell}`)

	require.True(t, r.CanReadBlock(h))

	b, err := r.ReadBlock(h, "cat greeting.txt\necho done\n# > stale output\n")
	require.NoError(t, err)

	md := "```{\"t\":\"Shell\"}\ncat greeting.txt\necho done\n# > hello\n# > done\n```\n"
	assert.Equal(t, md, b.Markdown())
	assert.Contains(t, b.HTML(), `<span class="script-output"># &gt; hello</span>`)
	assert.NotContains(t, b.HTML(), "stale")

	again, err := r.ReadBlock(h, "cat greeting.txt\necho done\n# > hello\n# > done\n")
	require.NoError(t, err)
	assert.Equal(t, md, again.Markdown())
}

func TestShellExitStatus(t *testing.T) {
	r := blocks.NewShellReader(t.TempDir(), time.Second)

	b, err := r.ReadBlock(header(t, `{t: Shell}`), "echo failing\nexit 3\n")
	require.NoError(t, err)

	assert.Equal(t, "```{\"t\":\"Shell\"}\necho failing\nexit 3\n# > failing\n# > exit status 3\n```\n", b.Markdown())
}

func TestShellSyntaxError(t *testing.T) {
	r := blocks.NewShellReader(t.TempDir(), time.Second)

	_, err := r.ReadBlock(header(t, `{t: Shell}`), "if then\n")
	require.Error(t, err)
}

func TestShellTimeout(t *testing.T) {
	r := blocks.NewShellReader(t.TempDir(), 20*time.Millisecond)

	_, err := r.ReadBlock(header(t, `{t: Shell}`), "while true; do :; done\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}
