package models

import (
	"time"

	"github.com/thenoetrevino/tabla/internal/types"
)

// GroupDataKey is the key inside Item.Data that may carry a group reference
// when the explicit GroupID field is empty.
const GroupDataKey = "group_id"

// Item represents a single record displayed as one row of the grid.
// Position orders the item within its group only.
type Item struct {
	ID        types.ItemID
	BoardID   types.BoardID
	Name      string
	GroupID   types.GroupID
	Position  float64
	Data      map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GroupRef returns the item's stored group reference. The explicit GroupID
// wins; Data["group_id"] is only consulted when GroupID is empty.
func (i *Item) GroupRef() types.GroupID {
	if i.GroupID != "" {
		return i.GroupID
	}
	if i.Data == nil {
		return ""
	}
	switch v := i.Data[GroupDataKey].(type) {
	case string:
		return types.GroupID(v)
	case types.GroupID:
		return v
	case float64:
		return types.GroupIDFromInt(int64(v))
	case int:
		return types.GroupIDFromInt(int64(v))
	case int64:
		return types.GroupIDFromInt(v)
	}
	return ""
}

// Value returns the cell value for a column, or nil when the cell is empty.
// The "name" column reads the display name.
func (i *Item) Value(col types.ColumnID) any {
	if col == NameColumnID {
		return i.Name
	}
	if i.Data == nil {
		return nil
	}
	return i.Data[string(col)]
}

// Clone returns a copy of the item whose Data map can be mutated freely.
// Nested values are shared.
func (i *Item) Clone() *Item {
	c := *i
	c.Data = make(map[string]any, len(i.Data))
	for k, v := range i.Data {
		c.Data[k] = v
	}
	return &c
}

// GetID returns the numeric id for quiet CLI output
func (i *Item) GetID() int {
	v, _ := i.ID.Int64()
	return int(v)
}
