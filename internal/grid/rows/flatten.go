package rows

import (
	"cmp"
	"slices"

	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/types"
)

// DefaultGroupID identifies the implicit group used when a board has no groups
const DefaultGroupID types.GroupID = "__default"

// DefaultGroup returns the implicit group holding every item of a group-less board
func DefaultGroup() *models.Group {
	return &models.Group{ID: DefaultGroupID, Name: "Items", Color: models.DefaultGroupColor}
}

// Input is everything Flatten needs. None of it is mutated.
type Input struct {
	Groups    []*models.Group
	Items     []*models.Item
	Collapsed map[types.GroupID]bool
	Heights   Heights

	// ColumnHeaders emits a column-header row under each expanded group
	// header. Leave false when the caller renders one sticky header.
	ColumnHeaders bool

	// PreserveItemOrder keeps the input item order inside each group.
	// Set it when an external sort has already been applied.
	PreserveItemOrder bool

	// Assignments overrides group resolution per item. Dynamic grouping
	// supplies it so item records never need to be rewritten.
	Assignments map[types.ItemID]types.GroupID
}

// SortGroups returns the groups ordered by position, ties broken by id.
// An empty input yields the implicit default group.
func SortGroups(groups []*models.Group) []*models.Group {
	if len(groups) == 0 {
		return []*models.Group{DefaultGroup()}
	}
	sorted := make([]*models.Group, 0, len(groups))
	for _, g := range groups {
		if g != nil {
			sorted = append(sorted, g)
		}
	}
	if len(sorted) == 0 {
		return []*models.Group{DefaultGroup()}
	}
	slices.SortStableFunc(sorted, func(a, b *models.Group) int {
		if c := cmp.Compare(a.Position, b.Position); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return sorted
}

// ResolveGroup returns the group an item belongs to. References that are
// missing or point at an unknown group fall back to the first group.
func ResolveGroup(item *models.Item, known map[types.GroupID]bool, fallback types.GroupID) types.GroupID {
	ref := item.GroupRef()
	if ref != "" && known[ref] {
		return ref
	}
	return fallback
}

// Bucket assigns every item to exactly one of the sorted groups.
// Items keep their input order inside each bucket.
// sorted must be non-empty (see SortGroups).
func Bucket(sorted []*models.Group, items []*models.Item, overrides map[types.ItemID]types.GroupID) map[types.GroupID][]*models.Item {
	known := make(map[types.GroupID]bool, len(sorted))
	for _, g := range sorted {
		known[g.ID] = true
	}
	fallback := sorted[0].ID

	buckets := make(map[types.GroupID][]*models.Item, len(sorted))
	for _, item := range items {
		if item == nil {
			continue
		}
		var gid types.GroupID
		if o, ok := overrides[item.ID]; ok && known[o] {
			gid = o
		} else {
			gid = ResolveGroup(item, known, fallback)
		}
		buckets[gid] = append(buckets[gid], item)
	}
	return buckets
}

// SortItems orders items by position, ties broken by id. The input is not modified.
func SortItems(items []*models.Item) []*models.Item {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b *models.Item) int {
		if c := cmp.Compare(a.Position, b.Position); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return sorted
}

// Flatten turns groups and items into the ordered virtual row list.
//
// Per group: header; then, unless collapsed, the optional column header,
// the items, a summary when the group has items, and a footer.
func Flatten(in Input) []Row {
	groups := SortGroups(in.Groups)
	buckets := Bucket(groups, in.Items, in.Assignments)

	out := make([]Row, 0, len(in.Items)+len(groups)*4)
	for _, g := range groups {
		items := buckets[g.ID]
		count := len(items)

		out = append(out, Row{
			ID:        GroupRowID(g.ID, GroupHeader),
			Kind:      GroupHeader,
			GroupID:   g.ID,
			Height:    in.Heights.GroupHeader,
			Group:     g,
			ItemCount: count,
		})
		if in.Collapsed[g.ID] {
			continue
		}

		if in.ColumnHeaders {
			out = append(out, Row{
				ID:        GroupRowID(g.ID, ColumnHeader),
				Kind:      ColumnHeader,
				GroupID:   g.ID,
				Height:    in.Heights.ColumnHeader,
				Group:     g,
				ItemCount: count,
			})
		}

		if !in.PreserveItemOrder {
			items = SortItems(items)
		}
		for _, item := range items {
			out = append(out, Row{
				ID:      ItemRowID(item.ID),
				Kind:    ItemRow,
				GroupID: g.ID,
				Height:  in.Heights.Item,
				Group:   g,
				Item:    item,
			})
		}

		if count > 0 {
			out = append(out, Row{
				ID:        GroupRowID(g.ID, GroupSummary),
				Kind:      GroupSummary,
				GroupID:   g.ID,
				Height:    in.Heights.Summary,
				Group:     g,
				ItemCount: count,
			})
		}
		out = append(out, Row{
			ID:        GroupRowID(g.ID, GroupFooter),
			Kind:      GroupFooter,
			GroupID:   g.ID,
			Height:    in.Heights.Footer,
			Group:     g,
			ItemCount: count,
		})
	}
	return out
}
