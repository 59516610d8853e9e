package models

import "github.com/thenoetrevino/tabla/internal/types"

// ColumnType tags how a column's values are edited, filtered and displayed
type ColumnType string

const (
	ColumnText     ColumnType = "text"
	ColumnLongText ColumnType = "long_text"
	ColumnNumber   ColumnType = "number"
	ColumnDate     ColumnType = "date"
	ColumnPerson   ColumnType = "person"
	ColumnStatus   ColumnType = "status"
	ColumnCheckbox ColumnType = "checkbox"
	ColumnLink     ColumnType = "link"
	ColumnTags     ColumnType = "tags"
)

// ColumnTypes lists every supported type in display order
var ColumnTypes = []ColumnType{
	ColumnText, ColumnLongText, ColumnNumber, ColumnDate, ColumnPerson,
	ColumnStatus, ColumnCheckbox, ColumnLink, ColumnTags,
}

// Valid reports whether t is a known column type
func (t ColumnType) Valid() bool {
	for _, known := range ColumnTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Column describes one grid column. ID doubles as the key into Item.Data.
// Width is in pixels; a zero width means "use the default".
type Column struct {
	ID       types.ColumnID
	BoardID  types.BoardID
	Name     string
	Type     ColumnType
	Visible  bool
	Width    int
	Position float64
	Settings map[string]any
}

// GetID is used by the CLI quiet output; columns have no numeric id so 0 is returned
func (c *Column) GetID() int {
	return 0
}
