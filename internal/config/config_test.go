package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ezerfernandes/mdrender/internal/blocks"
	"github.com/ezerfernandes/mdrender/internal/config"
	"github.com/ezerfernandes/mdrender/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissing(t *testing.T) {
	conf, err := config.LoadFromDir(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), conf)

	opts, err := conf.Options()
	require.NoError(t, err)
	assert.Equal(t, pipeline.FormatHTML, opts.Format)
	assert.Equal(t, pipeline.FailFast, opts.Errors)
	assert.False(t, opts.Shell.Enabled)
	assert.Equal(t, blocks.DefaultShellTimeout, opts.Shell.Timeout)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	data := `format: markdown
standalone: true
head: "<meta name=robots content=noindex>"
errors: best-effort
shell: {enabled: true, dir: scripts, timeout: 3s}
serve: {addr: ":8080", watch: false}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.Filename), []byte(data), 0o600))

	conf, err := config.LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, ":8080", conf.Serve.Addr)
	assert.False(t, conf.Serve.Watch)

	opts, err := conf.Options()
	require.NoError(t, err)
	assert.Equal(t, pipeline.FormatMarkdown, opts.Format)
	assert.True(t, opts.Standalone)
	assert.Equal(t, "<meta name=robots content=noindex>", opts.Head)
	assert.Equal(t, pipeline.BestEffort, opts.Errors)
	assert.Equal(t, pipeline.ShellOptions{Enabled: true, Dir: "scripts", Timeout: 3 * time.Second}, opts.Shell)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.yaml")

	conf := config.DefaultConfig()
	conf.Standalone = true
	conf.Shell.Timeout = "1m"

	require.NoError(t, conf.Save(path))

	back, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, conf, back)
}

func TestInvalid(t *testing.T) {
	for name, data := range map[string]string{
		"yaml":     "format: [",
		"format":   "format: pdf",
		"errors":   "errors: ignore",
		"timeout":  "shell: {timeout: soon}",
		"negative": "shell: {timeout: -1s}",
	} {
		path := filepath.Join(t.TempDir(), config.Filename)
		require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

		conf, err := config.Load(path)
		if err == nil {
			_, err = conf.Options()
		}

		assert.Error(t, err, name)
	}
}
