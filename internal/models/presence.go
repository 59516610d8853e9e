package models

import (
	"time"

	"github.com/thenoetrevino/tabla/internal/types"
)

// Presence is advisory metadata about another collaborator.
// It never gates local editing.
type Presence struct {
	UserID          types.UserID   `json:"user_id"`
	UserName        string         `json:"user_name"`
	BoardID         types.BoardID  `json:"board_id"`
	EditingItemID   types.ItemID   `json:"editing_item_id,omitempty"`
	EditingColumnID types.ColumnID `json:"editing_column_id,omitempty"`
	LastSeen        time.Time      `json:"last_seen"`
}

// IsEditing reports whether the entry points at a specific cell
func (p Presence) IsEditing() bool {
	return p.EditingItemID != "" && p.EditingColumnID != ""
}
