package events

import (
	"context"

	"github.com/thenoetrevino/tabla/internal/models"
)

// EventPublisher defines the interface for sending and receiving events.
// Services depend on it rather than on *Client so tests can record events.
type EventPublisher interface {
	// Connect establishes a connection to the daemon socket
	Connect(ctx context.Context) error

	// SendEvent queues an event to be sent to the daemon
	SendEvent(event Event) error

	// SendPresence reports what this client is editing. It is not batched.
	SendPresence(p models.Presence) error

	// Listen starts listening for events from the daemon
	Listen(ctx context.Context) (<-chan Event, error)

	// Subscribe changes the subscription to a specific board
	Subscribe(boardID int) error

	// Close closes the connection to the daemon and stops all goroutines
	Close() error
}

// Compile-time verification that *Client implements EventPublisher
var _ EventPublisher = (*Client)(nil)
