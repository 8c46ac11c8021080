// Package export writes the datasets of a rendered document to files.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ezerfernandes/mdrender/internal/custom"
	"gopkg.in/yaml.v3"
)

// Format is an export format.
type Format string

// Export formats.
const (
	JSON   Format = "json"
	YAML   Format = "yaml"
	SQLite Format = "sqlite"
)

var errFormat = errors.New("unknown export format")

// ParseFormat returns the export format with the given name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case JSON, YAML, SQLite:
		return f, nil
	case "yml":
		return YAML, nil
	case "db", "sqlite3":
		return SQLite, nil
	}

	return "", fmt.Errorf("%w: %q", errFormat, name)
}

// WriteJSON writes the datasets as an indented JSON array.
func WriteJSON(w io.Writer, datasets []custom.Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if datasets == nil {
		datasets = []custom.Dataset{}
	}

	return enc.Encode(datasets)
}

// WriteYAML writes the datasets as a YAML sequence.
func WriteYAML(w io.Writer, datasets []custom.Dataset) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if datasets == nil {
		datasets = []custom.Dataset{}
	}

	if err := enc.Encode(datasets); err != nil {
		return err
	}

	return enc.Close()
}
