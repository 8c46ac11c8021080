package mdcode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"
)

// TagKey is the header field holding the block tag.
const TagKey = "t"

// Header holds the structured value parsed from a fenced block's info string.
type Header struct {
	Tag    string
	Fields map[string]interface{}
}

// NewHeader returns a header with the given tag and no fields.
func NewHeader(tag string) *Header {
	return &Header{Tag: tag, Fields: map[string]interface{}{}}
}

var (
	reBrackets = regexp.MustCompile(`^\s*{(.*)}\s*$`)

	// ErrNoTag is returned for a structured info string without a string tag.
	ErrNoTag = errors.New("header has no string " + TagKey + " field")
)

// ParseHeader parses an info string as a block header. Accepted forms are a
// YAML flow mapping (JSON included), e.g. {t: Graph, title: Deps}, and a
// braced list of shell words, e.g. {t=Code filename="main.go"}.
func ParseHeader(info string) (*Header, error) {
	if len(strings.TrimSpace(info)) == 0 {
		return nil, ErrNoTag
	}

	fields, err := parseMapping(info)
	if err != nil || !hasTag(fields) {
		words, werr := parseWords(info)
		if werr == nil && hasTag(words) {
			fields, err = words, nil
		}
	}

	if err != nil {
		return nil, err
	}

	if !hasTag(fields) {
		return nil, ErrNoTag
	}

	tag := fields[TagKey].(string)
	delete(fields, TagKey)

	return &Header{Tag: tag, Fields: fields}, nil
}

func hasTag(fields map[string]interface{}) bool {
	tag, ok := fields[TagKey].(string)

	return ok && len(tag) != 0
}

func parseMapping(info string) (map[string]interface{}, error) {
	var fields map[string]interface{}

	if err := yaml.Unmarshal([]byte(info), &fields); err != nil {
		return nil, err
	}

	if fields == nil {
		return nil, ErrNoTag
	}

	return fields, nil
}

func parseWords(info string) (map[string]interface{}, error) {
	subs := reBrackets.FindStringSubmatch(info)
	if subs == nil {
		return nil, ErrNoTag
	}

	words, err := shlex.Split(subs[1])
	if err != nil {
		return nil, err
	}

	dict := make(map[string]interface{})

	for _, word := range words {
		idx := strings.IndexRune(word, '=')
		if idx > 0 {
			dict[word[:idx]] = word[idx+1:]
		}
	}

	return dict, nil
}

// String returns the canonical literal of the header: compact JSON with the
// tag first and the remaining fields in key order.
func (h *Header) String() string {
	var b strings.Builder

	b.WriteString(`{"` + TagKey + `":`)
	b.WriteString(jsonValue(h.Tag))

	keys := make([]string, 0, len(h.Fields))
	for k := range h.Fields {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		b.WriteByte(',')
		b.WriteString(jsonValue(k))
		b.WriteByte(':')
		b.WriteString(jsonValue(h.Fields[k]))
	}

	b.WriteByte('}')

	return b.String()
}

func jsonValue(v interface{}) string {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return jsonValue(fmt.Sprint(v))
	}

	return strings.TrimSuffix(buf.String(), "\n")
}

// Get returns the field value for the given key as a string. It returns an
// empty string if the key is missing.
func (h *Header) Get(name string) string {
	value, has := h.Fields[name]
	if !has || value == nil {
		return ""
	}

	if s, ok := value.(string); ok {
		return s
	}

	return fmt.Sprint(value)
}

// Has reports whether the header carries the field.
func (h *Header) Has(name string) bool {
	_, has := h.Fields[name]

	return has
}

// Bool returns a boolean field. The second result is false when the field is
// missing or not a boolean.
func (h *Header) Bool(name string) (bool, bool) {
	b, ok := h.Fields[name].(bool)

	return b, ok
}

// Int returns an integer field. The second result is false when the field is
// missing or not a whole number.
func (h *Header) Int(name string) (int, bool) {
	switch v := h.Fields[name].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}

	return 0, false
}
