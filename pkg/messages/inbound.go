// Package messages defines the wire protocol spoken over each game's
// WebSocket connections.
package messages

import "encoding/json"

// Inbound is the generic wrapper for messages coming from the client.
// The "event" field tells us the action; "data" is parsed further per event.
type Inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Client event names.
const (
	EventJoin     = "join"
	EventMove     = "move"
	EventUndo     = "undo"
	EventRedo     = "redo"
	EventGetState = "get_state"
)

// MoveData is the payload of a move event.
type MoveData struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}
