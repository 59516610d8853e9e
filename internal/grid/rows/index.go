package rows

import (
	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/types"
)

// Index maps between row ids, row positions and the item-only sequence.
// It is built once per flatten so lookups never scan the row list.
type Index struct {
	rows     []Row
	byID     map[string]int
	itemRows []int // item-only index -> row index
	byItem   map[types.ItemID]int
	groups   map[types.GroupID][]types.ItemID
}

// NewIndex builds an index over rows in O(len(rows))
func NewIndex(rows []Row) *Index {
	idx := &Index{
		rows:   rows,
		byID:   make(map[string]int, len(rows)),
		byItem: make(map[types.ItemID]int),
		groups: make(map[types.GroupID][]types.ItemID),
	}
	for i, r := range rows {
		idx.byID[r.ID] = i
		if r.Kind == ItemRow {
			idx.byItem[r.Item.ID] = len(idx.itemRows)
			idx.itemRows = append(idx.itemRows, i)
			idx.groups[r.GroupID] = append(idx.groups[r.GroupID], r.Item.ID)
		}
	}
	return idx
}

// Rows returns the indexed row list
func (x *Index) Rows() []Row {
	return x.rows
}

// Len returns the number of rows
func (x *Index) Len() int {
	return len(x.rows)
}

// RowIndex returns the position of a row id
func (x *Index) RowIndex(id string) (int, bool) {
	i, ok := x.byID[id]
	return i, ok
}

// ItemCount returns the length of the item-only sequence
func (x *Index) ItemCount() int {
	return len(x.itemRows)
}

// ItemRowIndex converts an item-only index into a row index
func (x *Index) ItemRowIndex(itemIndex int) (int, bool) {
	if itemIndex < 0 || itemIndex >= len(x.itemRows) {
		return 0, false
	}
	return x.itemRows[itemIndex], true
}

// ItemAt returns the item at an item-only index, or nil when out of range
func (x *Index) ItemAt(itemIndex int) *models.Item {
	ri, ok := x.ItemRowIndex(itemIndex)
	if !ok {
		return nil
	}
	return x.rows[ri].Item
}

// ItemIndex returns the item-only index of an item id
func (x *Index) ItemIndex(id types.ItemID) (int, bool) {
	i, ok := x.byItem[id]
	return i, ok
}

// GroupOf returns the group an item was flattened into
func (x *Index) GroupOf(id types.ItemID) (types.GroupID, bool) {
	i, ok := x.byItem[id]
	if !ok {
		return "", false
	}
	return x.rows[x.itemRows[i]].GroupID, true
}

// GroupItems returns the item ids of a group in display order.
// Collapsed groups have no item rows and return nil.
func (x *Index) GroupItems(id types.GroupID) []types.ItemID {
	return x.groups[id]
}

// ItemIDs returns every displayed item id in display order
func (x *Index) ItemIDs() []types.ItemID {
	ids := make([]types.ItemID, len(x.itemRows))
	for i, ri := range x.itemRows {
		ids[i] = x.rows[ri].Item.ID
	}
	return ids
}
