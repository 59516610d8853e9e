package tui

import (
	"time"

	"github.com/thenoetrevino/tabla/internal/events"
	"github.com/thenoetrevino/tabla/internal/models"
	boardservice "github.com/thenoetrevino/tabla/internal/services/board"
)

// boardLoadedMsg carries the board list and the snapshot of the board to show.
// Snapshot is nil when there are no boards yet.
type boardLoadedMsg struct {
	boards   []*models.Board
	snapshot *boardservice.Snapshot
	err      error
}

// snapshotMsg carries a reloaded snapshot of the current board
type snapshotMsg struct {
	snapshot *boardservice.Snapshot
	err      error
}

// opDoneMsg reports a committed (or rolled back) optimistic change
type opDoneMsg struct {
	label string
	err   error
}

// structureDoneMsg reports a persisted layout or collapse change. revert
// undoes the local change when persisting failed.
type structureDoneMsg struct {
	label  string
	err    error
	revert func()
	reload bool
}

// itemSavedMsg reports an item created or deleted from a form
type itemSavedMsg struct {
	message string
	err     error
}

// RefreshMsg is delivered for every daemon event
type RefreshMsg struct {
	Event events.Event
}

// ConnectionLostMsg is sent when the daemon event stream ends
type ConnectionLostMsg struct{}

// tickMsg drives presence and notification expiry
type tickMsg time.Time
