package domain

import "context"

// Request describes one recognition call: the item to convert and which
// payloads the caller's destinations actually consume.
type Request struct {
	Item       SourceItem
	WantText   bool
	WantLayout bool
}

// Engine is the contract between the orchestrator and a recognition engine.
type Engine interface {
	// Probe returns the unit count and progress weight of an item without
	// converting it. Failure means the file is unreadable or corrupt and
	// aborts the whole batch.
	Probe(ctx context.Context, item SourceItem) (Metadata, error)

	// Recognize converts one item, emitting events on the returned channel.
	// Multi-page documents emit one page event per page in ascending order;
	// single-unit items emit exactly one terminal page event, possibly
	// preceded by progress events. The channel is closed after the terminal
	// event (last page, single-unit result, or error).
	Recognize(ctx context.Context, req Request) (<-chan Event, error)
}
