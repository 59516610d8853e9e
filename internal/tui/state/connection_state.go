package state

import "sync"

// ConnectionStatus represents the current connection state to the daemon
type ConnectionStatus int

const (
	Disconnected ConnectionStatus = iota
	Connected
	Standalone // Started without a daemon; no live updates or presence
)

// String returns a human-readable string representation of the connection status
func (cs ConnectionStatus) String() string {
	switch cs {
	case Connected:
		return "Connected"
	case Disconnected:
		return "Disconnected"
	case Standalone:
		return "Offline"
	default:
		return "Unknown"
	}
}

// Symbol is the status bar glyph for the status
func (cs ConnectionStatus) Symbol() string {
	switch cs {
	case Connected:
		return "●"
	case Disconnected:
		return "○"
	default:
		return "◌"
	}
}

// ConnectionState tracks the daemon link. The listener goroutine and the UI
// both touch it, hence the lock.
type ConnectionState struct {
	mu     sync.RWMutex
	status ConnectionStatus
}

// NewConnectionState creates a new ConnectionState with the given initial status
func NewConnectionState(initialStatus ConnectionStatus) *ConnectionState {
	return &ConnectionState{
		status: initialStatus,
	}
}

// Status returns the current connection status
func (cs *ConnectionState) Status() ConnectionStatus {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.status
}

// SetStatus updates the connection status
func (cs *ConnectionState) SetStatus(status ConnectionStatus) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.status = status
}
