// Package rows flattens grouped items into the single, index-addressable row
// sequence that the window calculator, focus machine and drag resolver share.
package rows

import (
	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/types"
)

// Kind tags the role of a virtual row. Consumers branch on Kind only,
// never on payload shape.
type Kind int

const (
	GroupHeader  Kind = iota // Group title bar with collapse toggle
	ColumnHeader             // Per-group column titles
	ItemRow                  // One item
	GroupSummary             // Aggregates for a non-empty group
	GroupFooter              // Spacer / "add item" affordance
)

// String returns the role name used in row ids and logs
func (k Kind) String() string {
	switch k {
	case GroupHeader:
		return "header"
	case ColumnHeader:
		return "columns"
	case ItemRow:
		return "item"
	case GroupSummary:
		return "summary"
	case GroupFooter:
		return "footer"
	default:
		return "unknown"
	}
}

// Row is one entry of the flattened sequence.
// Item is set only for ItemRow; Group is always set.
type Row struct {
	ID      string
	Kind    Kind
	GroupID types.GroupID
	Height  int
	Group   *models.Group
	Item    *models.Item

	// ItemCount is the number of items in the source group. It lets headers
	// and summaries render counts without re-bucketing.
	ItemCount int
}

// Heights holds the fixed per-role heights used while flattening
type Heights struct {
	GroupHeader  int `yaml:"group_header"`
	ColumnHeader int `yaml:"column_header"`
	Item         int `yaml:"item"`
	Summary      int `yaml:"summary"`
	Footer       int `yaml:"footer"`
}

// DefaultHeights returns pixel heights for a browser-style renderer
func DefaultHeights() Heights {
	return Heights{
		GroupHeader:  44,
		ColumnHeader: 36,
		Item:         36,
		Summary:      36,
		Footer:       16,
	}
}

// For returns the height configured for a row kind
func (h Heights) For(k Kind) int {
	switch k {
	case GroupHeader:
		return h.GroupHeader
	case ColumnHeader:
		return h.ColumnHeader
	case ItemRow:
		return h.Item
	case GroupSummary:
		return h.Summary
	case GroupFooter:
		return h.Footer
	default:
		return 0
	}
}

// GroupRowID returns the stable id of a group-owned row
func GroupRowID(groupID types.GroupID, k Kind) string {
	return "group:" + string(groupID) + ":" + k.String()
}

// ItemRowID returns the stable id of an item row
func ItemRowID(itemID types.ItemID) string {
	return "item:" + string(itemID)
}
