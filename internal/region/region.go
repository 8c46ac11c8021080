// Package region reads and replaces generated output lines in block bodies.
// A generated line starts with a reserved prefix and is rebuilt on every
// render, so it must be removed before the body is evaluated again.
package region

import (
	"fmt"
	"regexp"
	"strings"
)

// Reserved prefixes of generated lines.
const (
	ScriptPrefix = "// > "
	ShellPrefix  = "# > "
	TablePrefix  = "# "
)

const (
	reLineEnd    = `(?:\r?\n|\z)`
	regionFormat = `(?m)^%s(?:[[:blank:]].*)?` + reLineEnd
)

var markers = map[string]*regexp.Regexp{
	ScriptPrefix: compile(ScriptPrefix),
	ShellPrefix:  compile(ShellPrefix),
	TablePrefix:  compile(TablePrefix),
}

func compile(prefix string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(regionFormat, regexp.QuoteMeta(strings.TrimRight(prefix, " \t"))))
}

func marker(prefix string) *regexp.Regexp {
	if re, ok := markers[prefix]; ok {
		return re
	}

	return compile(prefix)
}

// Strip removes every generated line from body.
func Strip(body string, prefix string) string {
	return marker(prefix).ReplaceAllString(body, "")
}

// Read returns the generated lines of body with the prefix removed. The bool
// return indicates whether any generated line was found.
func Read(body string, prefix string) ([]string, bool) {
	matches := marker(prefix).FindAllString(body, -1)
	if len(matches) == 0 {
		return nil, false
	}

	trimmed := strings.TrimRight(prefix, " \t")
	lines := make([]string, 0, len(matches))

	for _, m := range matches {
		m = strings.TrimRight(m, "\r\n")
		m = strings.TrimPrefix(m, trimmed)
		lines = append(lines, strings.TrimPrefix(m, prefix[len(trimmed):]))
	}

	return lines, true
}

// Annotate marks every line of output as generated.
func Annotate(output string, prefix string) []string {
	lines := strings.Split(output, "\n")

	for i, line := range lines {
		lines[i] = prefix + line
	}

	return lines
}

// Lines splits a body into lines. A final newline does not start a new line.
func Lines(body string) []string {
	body = strings.TrimSuffix(body, "\n")
	if len(body) == 0 {
		return nil
	}

	return strings.Split(body, "\n")
}

// Replace substitutes the generated lines of body with value. The generated
// lines of value are appended after the remaining source lines.
func Replace(body string, prefix string, value string) string {
	src := Lines(Strip(body, prefix))
	src = append(src, Annotate(value, prefix)...)

	return strings.Join(src, "\n") + "\n"
}
