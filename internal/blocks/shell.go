package blocks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ezerfernandes/mdrender/internal/custom"
	"github.com/ezerfernandes/mdrender/internal/mdcode"
	"github.com/ezerfernandes/mdrender/internal/region"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// TagShell is the tag of shell session blocks.
const TagShell = "Shell"

// DefaultShellTimeout bounds one shell block when no timeout is configured.
const DefaultShellTimeout = 10 * time.Second

var errShellTimeout = errors.New("shell block timed out")

// ShellReader runs Shell blocks with the shell interpreter. It is registered
// only when shell execution is enabled.
type ShellReader struct {
	custom.TagReader
	custom.NoInline

	dir     string
	timeout time.Duration
}

// NewShellReader returns a reader running commands in dir, each block
// limited to timeout.
func NewShellReader(dir string, timeout time.Duration) *ShellReader {
	if len(dir) == 0 {
		dir = "."
	}

	if timeout <= 0 {
		timeout = DefaultShellTimeout
	}

	return &ShellReader{TagReader: custom.TagReader{TagShell}, dir: dir, timeout: timeout}
}

func (r *ShellReader) ReadBlock(header *mdcode.Header, body string) (custom.Block, error) {
	script := region.Strip(body, region.ShellPrefix)

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	var out bytes.Buffer

	status, err := runCommand(ctx, script, r.dir, &out)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", errShellTimeout, r.timeout)
		}

		return nil, err
	}

	output := strings.TrimRight(out.String(), "\n")
	if status != 0 {
		if len(output) != 0 {
			output += "\n"
		}

		output += fmt.Sprintf("exit status %d", status)
	}

	tracer().Debugf("shell block: exit status %d, %d bytes of output", status, out.Len())

	return &shellBlock{header: header, code: region.Lines(script), output: output}, nil
}

func runCommand(ctx context.Context, command, dir string, out *bytes.Buffer) (int, error) {
	file, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return -1, err
	}

	runner, err := interp.New(interp.Dir(dir), interp.StdIO(nil, out, out))
	if err != nil {
		return -1, err
	}

	err = runner.Run(ctx, file)
	if err != nil {
		if status, ok := interp.IsExitStatus(err); ok && ctx.Err() == nil {
			return int(status), nil
		}

		return -1, err
	}

	return 0, nil
}

type shellBlock struct {
	header *mdcode.Header
	code   []string
	output string
}

func (b *shellBlock) outputLines() []string {
	if len(b.output) == 0 {
		return nil
	}

	return region.Annotate(b.output, region.ShellPrefix)
}

func (b *shellBlock) HTML() string {
	var out strings.Builder

	out.WriteString(`<div class="script shell"><pre>`)

	for _, line := range b.code {
		out.WriteString(`<span class="script-code">` + custom.Escape(line) + "</span>\n")
	}

	for _, line := range b.outputLines() {
		out.WriteString(`<span class="script-output">` + custom.Escape(line) + "</span>\n")
	}

	out.WriteString("</pre></div>\n")

	return out.String()
}

func (b *shellBlock) Markdown() string {
	lines := append(append([]string{}, b.code...), b.outputLines()...)
	if len(lines) == 0 {
		return custom.Fence(b.header, "")
	}

	return custom.Fence(b.header, strings.Join(lines, "\n")+"\n")
}
