package focus

import (
	"github.com/atotto/clipboard"
	"github.com/thenoetrevino/tabla/internal/types"
)

// SystemClipboard is the OS clipboard. Access is best-effort: callers ignore
// failures so a missing clipboard tool never breaks copy/paste inside the grid.
type SystemClipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// OSClipboard talks to the platform clipboard via atotto/clipboard
type OSClipboard struct{}

// ReadAll returns the clipboard text
func (OSClipboard) ReadAll() (string, error) {
	return clipboard.ReadAll()
}

// WriteAll replaces the clipboard text
func (OSClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// ClipEntry is a cell copied with Ctrl/Cmd+C
type ClipEntry struct {
	ItemID   types.ItemID
	ColumnID types.ColumnID
	Value    any
}
