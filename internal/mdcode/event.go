package mdcode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
)

// Kind enumerates the event kinds produced by Tokenize.
type Kind uint8

// Possible event kinds.
const (
	KindStart Kind = iota
	KindEnd
	KindText
	KindCode
	KindHTML
	KindRule
	KindSoftBreak
	KindHardBreak

	// KindMarker is reserved for boundary markers. Document content never
	// produces it.
	KindMarker
)

var kindNames = [...]string{
	KindStart:     "Start",
	KindEnd:       "End",
	KindText:      "Text",
	KindCode:      "Code",
	KindHTML:      "HTML",
	KindRule:      "Rule",
	KindSoftBreak: "SoftBreak",
	KindHardBreak: "HardBreak",
	KindMarker:    "Marker",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Event is one element of the flattened document tree.
//
// Node is the goldmark node the event was produced from. It is nil for
// synthetic events: code block bodies and line breaks, whose HTML is written
// by the owning node.
type Event struct {
	Kind    Kind
	Node    ast.Node
	Literal string
	Line    int
}

// BoundaryNamespace prefixes the literal of every boundary marker. The
// namespace is reserved: markers are emitted only by Tokenize, with kind
// KindMarker, and a consumer must reject any marker outside it.
const BoundaryNamespace = "mdrender.boundary/"

const (
	boundaryStart = BoundaryNamespace + "start/"
	boundaryEnd   = BoundaryNamespace + "end/"
)

func startMarker(index int) Event {
	return Event{Kind: KindMarker, Literal: boundaryStart + strconv.Itoa(index)}
}

func endMarker(index int) Event {
	return Event{Kind: KindMarker, Literal: boundaryEnd + strconv.Itoa(index)}
}

// Boundary decodes a marker event. It reports the element index and whether
// the marker opens the element.
func Boundary(ev Event) (int, bool, error) {
	if ev.Kind != KindMarker {
		return 0, false, fmt.Errorf("%s event is not a boundary marker", ev.Kind)
	}

	var (
		rest  string
		start bool
	)

	switch {
	case strings.HasPrefix(ev.Literal, boundaryStart):
		rest, start = ev.Literal[len(boundaryStart):], true
	case strings.HasPrefix(ev.Literal, boundaryEnd):
		rest = ev.Literal[len(boundaryEnd):]
	default:
		return 0, false, fmt.Errorf("marker %q outside namespace %s", ev.Literal, BoundaryNamespace)
	}

	index, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false, fmt.Errorf("malformed boundary marker %q: %w", ev.Literal, err)
	}

	return index, start, nil
}
