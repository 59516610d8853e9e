// Package drag resolves item drag-and-drop (and its keyboard equivalent)
// into either a full reindex of one group or a move to another group.
package drag

import (
	"log/slog"
	"slices"

	"github.com/thenoetrevino/tabla/internal/types"
)

// Side is where the dragged item lands relative to the hovered row
type Side string

const (
	Before Side = "before"
	After  Side = "after"
)

// Target is a row the pointer is over
type Target struct {
	ItemID  types.ItemID
	GroupID types.GroupID
}

// Rect is the vertical extent of the hovered row
type Rect struct {
	Top    int
	Height int
}

// Hover is the current drop target. An empty ItemID means "append to GroupID".
type Hover struct {
	ItemID  types.ItemID
	Side    Side
	GroupID types.GroupID
}

// Kind classifies a drop
type Kind int

const (
	None    Kind = iota // Nothing to do
	Reorder             // Same group: every item gets a new position
	Move                // Different group: only the dragged item is reassigned
)

// Placement is one item's new position within its group
type Placement struct {
	ItemID   types.ItemID
	Position float64
}

// Outcome is what a drop resolves to
type Outcome struct {
	Kind         Kind
	ItemID       types.ItemID
	FromGroupID  types.GroupID
	GroupID      types.GroupID
	TargetItemID types.ItemID
	Side         Side

	// Positions is the full 0..n-1 reindex of the group for a Reorder, or the
	// single appended placement for a Move. A Move's position only counts the
	// displayed items; the edit coordinator replaces it with one past the
	// group's largest stored position.
	Positions []Placement
}

// Resolver holds the transient drag state. Not safe for concurrent use.
type Resolver struct {
	active  bool
	itemID  types.ItemID
	groupID types.GroupID
	hover   *Hover
}

// NewResolver creates an idle resolver
func NewResolver() *Resolver {
	return &Resolver{}
}

// Start records the dragged item and its source group
func (r *Resolver) Start(itemID types.ItemID, groupID types.GroupID) {
	r.active = true
	r.itemID = itemID
	r.groupID = groupID
	r.hover = nil
}

// Active reports whether a drag is in progress
func (r *Resolver) Active() bool {
	return r.active
}

// Dragged returns the dragged item and its source group
func (r *Resolver) Dragged() (types.ItemID, types.GroupID) {
	return r.itemID, r.groupID
}

// Hover returns the current drop target, if any
func (r *Resolver) Hover() (Hover, bool) {
	if r.hover == nil {
		return Hover{}, false
	}
	return *r.hover, true
}

// Over computes the drop target for a pointer over a row. The upper half of
// the row means Before, the lower half After. changed is false when the
// target is the same as the last one reported.
func (r *Resolver) Over(target Target, pointerY int, rect Rect) (Hover, bool) {
	if !r.active {
		return Hover{}, false
	}
	side := After
	if pointerY < rect.Top+rect.Height/2 {
		side = Before
	}
	return r.set(Hover{ItemID: target.ItemID, Side: side, GroupID: target.GroupID})
}

// OverGroup targets a group's empty area: the item is appended
func (r *Resolver) OverGroup(groupID types.GroupID) (Hover, bool) {
	if !r.active {
		return Hover{}, false
	}
	return r.set(Hover{Side: After, GroupID: groupID})
}

func (r *Resolver) set(h Hover) (Hover, bool) {
	if r.hover != nil && *r.hover == h {
		return h, false
	}
	r.hover = &h
	return h, true
}

// Drop resolves the current target. groupItems is the ordered item id list
// of the target group as currently displayed. The drag state is always
// cleared.
func (r *Resolver) Drop(groupItems []types.ItemID) Outcome {
	defer r.End()
	if !r.active || r.hover == nil {
		return Outcome{}
	}
	h := *r.hover
	if h.ItemID == r.itemID {
		return Outcome{}
	}

	if h.GroupID != r.groupID {
		rest := without(groupItems, r.itemID)
		slog.Debug("item moved to group", "item_id", r.itemID, "from", r.groupID, "to", h.GroupID)
		return Outcome{
			Kind:         Move,
			ItemID:       r.itemID,
			FromGroupID:  r.groupID,
			GroupID:      h.GroupID,
			TargetItemID: h.ItemID,
			Side:         h.Side,
			Positions:    []Placement{{ItemID: r.itemID, Position: float64(len(rest))}},
		}
	}

	order, ok := splice(groupItems, r.itemID, h.ItemID, h.Side)
	if !ok {
		return Outcome{}
	}
	return reorderOutcome(r.itemID, h.GroupID, h.ItemID, h.Side, order)
}

// End clears the transient state whether or not a drop happened
func (r *Resolver) End() {
	r.active = false
	r.itemID = ""
	r.groupID = ""
	r.hover = nil
}

// Cancel abandons the drag with no outcome
func (r *Resolver) Cancel() {
	r.End()
}

// MoveBy is the keyboard path: it moves an item delta slots within its group
func MoveBy(itemID types.ItemID, groupID types.GroupID, delta int, groupItems []types.ItemID) Outcome {
	from := slices.Index(groupItems, itemID)
	if from < 0 || delta == 0 {
		return Outcome{}
	}
	to := min(max(from+delta, 0), len(groupItems)-1)
	if to == from {
		return Outcome{}
	}
	target := groupItems[to]
	side := After
	if to < from {
		side = Before
	}
	order, ok := splice(groupItems, itemID, target, side)
	if !ok {
		return Outcome{}
	}
	return reorderOutcome(itemID, groupID, target, side, order)
}

func reorderOutcome(itemID types.ItemID, groupID types.GroupID, target types.ItemID, side Side, order []types.ItemID) Outcome {
	positions := make([]Placement, len(order))
	for i, id := range order {
		positions[i] = Placement{ItemID: id, Position: float64(i)}
	}
	return Outcome{
		Kind:         Reorder,
		ItemID:       itemID,
		FromGroupID:  groupID,
		GroupID:      groupID,
		TargetItemID: target,
		Side:         side,
		Positions:    positions,
	}
}

// splice returns the group order with the dragged item placed before or after
// target. An empty target appends. ok is false when the order is unchanged.
func splice(items []types.ItemID, dragged, target types.ItemID, side Side) ([]types.ItemID, bool) {
	rest := without(items, dragged)
	at := len(rest)
	if target != "" {
		i := slices.Index(rest, target)
		if i < 0 {
			return nil, false
		}
		at = i
		if side == After {
			at++
		}
	}
	order := slices.Insert(rest, at, dragged)
	if slices.Equal(order, items) {
		return nil, false
	}
	return order, true
}

func without(items []types.ItemID, id types.ItemID) []types.ItemID {
	out := make([]types.ItemID, 0, len(items))
	for _, v := range items {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
