package models

import "github.com/thenoetrevino/tabla/internal/types"

// ============================================================================
// COLUMN CONSTANTS
// ============================================================================

// NameColumnID is the built-in column that displays Item.Name
const NameColumnID types.ColumnID = "name"

const (
	// MinColumnWidth is the narrowest a column can be resized to
	MinColumnWidth = 80
	// MaxColumnWidth is the widest a column can be resized to
	MaxColumnWidth = 600
	// DefaultColumnWidth is used when a column has no persisted width
	DefaultColumnWidth = 150
)

// ClampWidth normalizes a width into [MinColumnWidth, MaxColumnWidth]
func ClampWidth(w int) int {
	return min(max(w, MinColumnWidth), MaxColumnWidth)
}

// ============================================================================
// GROUP CONSTANTS
// ============================================================================

// DefaultGroupColor is assigned to groups created without a color
const DefaultGroupColor = "#579bfc"
