package project

import (
	"sort"
	"strings"

	"github.com/thenoetrevino/tabla/internal/grid/value"
	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/types"
)

// Direction is a column sort direction
type Direction int

const (
	Unsorted Direction = iota
	Ascending
	Descending
)

// String returns asc/desc/none
func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return "none"
	}
}

// SortState is the active column sort
type SortState struct {
	ColumnID  types.ColumnID
	Direction Direction
}

// Active reports whether a sort applies
func (s SortState) Active() bool {
	return s.ColumnID != "" && s.Direction != Unsorted
}

// Cycle advances the sort for a header click: a new column starts
// ascending, then descending, then unsorted.
func (s SortState) Cycle(col types.ColumnID) SortState {
	if s.ColumnID != col || s.Direction == Unsorted {
		return SortState{ColumnID: col, Direction: Ascending}
	}
	if s.Direction == Ascending {
		return SortState{ColumnID: col, Direction: Descending}
	}
	return SortState{}
}

// sortItems orders items in place by the sort column. Empty cells always
// sort last. The sort is stable so equal values keep their input order.
func sortItems(items []models.Item, columns []models.Column, s SortState) {
	t, _ := ColumnType(columns, s.ColumnID)
	desc := s.Direction == Descending
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Value(s.ColumnID), items[j].Value(s.ColumnID)
		ea, eb := value.IsEmpty(a), value.IsEmpty(b)
		if ea || eb {
			return !ea && eb
		}
		c := compare(t, a, b)
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compare(t models.ColumnType, a, b any) int {
	switch t {
	case models.ColumnNumber:
		na, okA := value.Number(a)
		nb, okB := value.Number(b)
		if okA && okB {
			switch {
			case na < nb:
				return -1
			case na > nb:
				return 1
			}
			return 0
		}
	case models.ColumnDate:
		da, okA := value.ParseDate(value.String(a))
		db, okB := value.ParseDate(value.String(b))
		if okA && okB {
			return da.Compare(db)
		}
	case models.ColumnCheckbox:
		ta, tb := value.Truthy(a), value.Truthy(b)
		switch {
		case ta == tb:
			return 0
		case !ta:
			return -1
		}
		return 1
	}
	return strings.Compare(strings.ToLower(value.Label(a)), strings.ToLower(value.Label(b)))
}
