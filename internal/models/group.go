package models

import "github.com/thenoetrevino/tabla/internal/types"

// Group is a collapsible section of the grid (e.g., "Backlog", "This week").
// Groups are ordered top to bottom by Position, ties broken by ID.
type Group struct {
	ID        types.GroupID
	BoardID   types.BoardID
	Name      string
	Color     string
	Position  float64
	Collapsed bool
}

// GetID returns the numeric id for quiet CLI output
func (g *Group) GetID() int {
	v, _ := g.ID.Int64()
	return int(v)
}
