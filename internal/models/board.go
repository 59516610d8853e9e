package models

import (
	"time"

	"github.com/thenoetrevino/tabla/internal/types"
)

// Board represents a container for groups, columns and items.
// Boards are the top-level organizational unit in tabla.
type Board struct {
	ID          types.BoardID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GetID returns the board id for quiet CLI output
func (b *Board) GetID() int {
	return b.ID.ToInt()
}
