package project

import (
	"fmt"
	"strings"

	"github.com/thenoetrevino/tabla/internal/types"
)

// ParseCondition reads "column operator [value]", e.g. "estimate greater_than 3"
// or "done is_checked". The value is everything after the operator.
func ParseCondition(s string) (Condition, error) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return Condition{}, fmt.Errorf("%w: %q needs a column and an operator", ErrInvalidCondition, s)
	}
	c := Condition{
		ColumnID: types.ColumnID(strings.ToLower(fields[0])),
		Operator: Operator(strings.ToLower(fields[1])),
	}
	if len(fields) > 2 {
		c.Value = strings.Join(fields[2:], " ")
	}
	return c, nil
}

// ParseSort reads "column" or "column:asc|desc"
func ParseSort(s string) (SortState, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SortState{}, nil
	}
	col, dir, _ := strings.Cut(s, ":")
	state := SortState{ColumnID: types.ColumnID(strings.ToLower(col)), Direction: Ascending}
	switch strings.ToLower(dir) {
	case "", "asc":
	case "desc":
		state.Direction = Descending
	default:
		return SortState{}, fmt.Errorf("invalid sort direction %q (want asc or desc)", dir)
	}
	return state, nil
}
