package core

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/presence/internal/domain"
)

// Event names carried in Message.Type.
const (
	EventJoinRoom    = "joinRoom"    // c->s, data: room id string
	EventReaction    = "reaction"    // c->s, data: {roomId, emoji}
	EventUpdateCount = "updateCount" // s->c, data: listener count
	EventNewReaction = "newReaction" // s->c, data: emoji
	EventPing        = "ping"
	EventPong        = "pong"
	EventWhoAmI      = "whoami"
)

// Message is the single envelope used in both directions.
type Message struct {
	Type string          `json:"type"`
	Room domain.RoomID   `json:"room,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Encode builds a wire frame. data is marshalled as-is, so a zero count is
// still sent as 0.
func Encode(typ string, room domain.RoomID, data any) (Frame, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s data: %w", typ, err)
	}
	b, err := json.Marshal(Message{Type: typ, Room: room, Data: raw})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", typ, err)
	}
	return b, nil
}
