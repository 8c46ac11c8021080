package pipeline

import (
	"github.com/ezerfernandes/mdrender/internal/custom"
	"github.com/ezerfernandes/mdrender/internal/mdcode"
)

// EventKind enumerates the kinds of classified events.
type EventKind uint8

// Classified event kinds.
const (
	// Standard carries a tokenizer event unchanged.
	Standard EventKind = iota
	// Custom carries a block built by a reader.
	Custom
	// External carries the payload of a block owned outside the pipeline.
	External
	// Separator opens the top-level element with the event's ID.
	Separator
)

// Event is one element of a classified document.
type Event struct {
	Kind EventKind

	Raw      mdcode.Event     // Standard
	Block    custom.Block     // Custom
	Inline   bool             // Custom
	External *custom.External // External
	ID       int              // Separator
}

func standard(ev mdcode.Event) Event { return Event{Kind: Standard, Raw: ev} }

func customBlock(b custom.Block, inline bool) Event {
	return Event{Kind: Custom, Block: b, Inline: inline}
}

func external(e *custom.External) Event { return Event{Kind: External, External: e} }

func separator(id int) Event { return Event{Kind: Separator, ID: id} }
