package events

import (
	"time"

	"github.com/thenoetrevino/tabla/internal/models"
)

// EventType indicates what kind of change occurred
type EventType string

const (
	EventDatabaseChanged EventType = "db_changed"
	EventPresence        EventType = "presence"
	EventPing            EventType = "ping"
	EventPong            EventType = "pong"
)

// Wire message types
const (
	MsgEvent     = "event"
	MsgSubscribe = "subscribe"
	MsgPresence  = "presence"
	MsgPing      = "ping"
	MsgPong      = "pong"
)

// Event represents a board change or presence notification
type Event struct {
	Type       EventType
	BoardID    int       // For filtering - which board was modified
	Timestamp  time.Time // When the event occurred
	SequenceID int64     // Monotonically increasing sequence number for ordering

	// Presence carries the board's current collaborators on EventPresence.
	// Clients send a single entry; the daemon answers with the full set.
	Presence []models.Presence `json:",omitempty"`
}

// SubscribeMessage is sent by clients to subscribe to specific board updates
type SubscribeMessage struct {
	BoardID int // 0 = all boards, >0 = specific board
}

// Message wraps events and control messages for wire protocol
type Message struct {
	Type      string            // "event", "subscribe", "presence", "ping", "pong"
	Event     *Event            `json:",omitempty"`
	Subscribe *SubscribeMessage `json:",omitempty"`
}
