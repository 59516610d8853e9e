package testutil

import (
	"context"
	"sync"

	"github.com/thenoetrevino/tabla/internal/events"
	"github.com/thenoetrevino/tabla/internal/models"
)

// MockEventPublisher records everything sent through events.EventPublisher.
type MockEventPublisher struct {
	mu sync.Mutex

	SentEvents   []events.Event
	SentPresence []models.Presence

	// SendErr, when set, is returned by SendEvent and SendPresence
	SendErr error

	CloseCalled         bool
	ConnectCalled       bool
	SubscriptionHistory []int
}

// NewMockEventPublisher creates a new mock event publisher.
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Connect is a no-op for the mock.
func (m *MockEventPublisher) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConnectCalled = true
	return nil
}

// SendEvent records the event for later verification.
func (m *MockEventPublisher) SendEvent(event events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return m.SendErr
	}
	m.SentEvents = append(m.SentEvents, event)
	return nil
}

// SendPresence records the presence entry.
func (m *MockEventPublisher) SendPresence(p models.Presence) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return m.SendErr
	}
	m.SentPresence = append(m.SentPresence, p)
	return nil
}

// Listen returns a closed channel.
func (m *MockEventPublisher) Listen(ctx context.Context) (<-chan events.Event, error) {
	ch := make(chan events.Event)
	close(ch)
	return ch, nil
}

// Subscribe records the board id.
func (m *MockEventPublisher) Subscribe(boardID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SubscriptionHistory = append(m.SubscriptionHistory, boardID)
	return nil
}

// Close marks the publisher as closed.
func (m *MockEventPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
	return nil
}

// EventsForBoard returns the events sent for one board.
func (m *MockEventPublisher) EventsForBoard(boardID int) []events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []events.Event
	for _, e := range m.SentEvents {
		if e.BoardID == boardID {
			out = append(out, e)
		}
	}
	return out
}

// EventCount returns the total number of events sent.
func (m *MockEventPublisher) EventCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SentEvents)
}

// Reset clears all recorded events.
func (m *MockEventPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentEvents = nil
	m.SentPresence = nil
}

var _ events.EventPublisher = (*MockEventPublisher)(nil)
