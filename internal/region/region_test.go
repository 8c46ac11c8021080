package region_test

import (
	"testing"

	"github.com/ezerfernandes/mdrender/internal/region"
	"github.com/stretchr/testify/assert"
)

const script = `let x = 1 + 1;
debug(x);
// > 2
// >
// comment
`

func TestStrip(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "let x = 1 + 1;\ndebug(x);\n// comment\n", region.Strip(script, region.ScriptPrefix))
	assert.Equal(t, "a\n", region.Strip("a\n// > b", region.ScriptPrefix))
	assert.Equal(t, "a\r\n", region.Strip("a\r\n// > b\r\n", region.ScriptPrefix))
	assert.Equal(t, "echo hi\n# plain comment\n", region.Strip("echo hi\n# > hi\n# plain comment\n", region.ShellPrefix))
}

func TestStripIdempotent(t *testing.T) {
	t.Parallel()

	once := region.Strip(script, region.ScriptPrefix)

	assert.Equal(t, once, region.Strip(once, region.ScriptPrefix))
}

func TestRead(t *testing.T) {
	t.Parallel()

	lines, found := region.Read(script, region.ScriptPrefix)

	assert.True(t, found)
	assert.Equal(t, []string{"2", ""}, lines)

	_, found = region.Read("let x;\n", region.ScriptPrefix)
	assert.False(t, found)
}

func TestAnnotate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"// > a", "// > b"}, region.Annotate("a\nb", region.ScriptPrefix))
	assert.Equal(t, []string{"# | a |"}, region.Annotate("| a |", region.TablePrefix))
}

func TestLines(t *testing.T) {
	t.Parallel()

	assert.Nil(t, region.Lines(""))
	assert.Equal(t, []string{"a", "b"}, region.Lines("a\nb\n"))
	assert.Equal(t, []string{"a", "", "b"}, region.Lines("a\n\nb"))
}

func TestReplace(t *testing.T) {
	t.Parallel()

	body := "echo hi\n# > old\n"

	replaced := region.Replace(body, region.ShellPrefix, "hi")

	assert.Equal(t, "echo hi\n# > hi\n", replaced)
	assert.Equal(t, replaced, region.Replace(replaced, region.ShellPrefix, "hi"))
}
