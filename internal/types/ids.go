package types

import "strconv"

// ID types give semantic meaning to the identifiers that flow through the grid.
// Items, groups and columns are addressed by strings so that synthetic groups
// (bucketed by value) and database-backed groups share one key space.

// BoardID identifies a board (one grid of items, groups and columns) in the store
type BoardID int

// ItemID identifies a single record (row) on a board
type ItemID string

// GroupID identifies a group of items. Synthetic groups produced by dynamic
// grouping use the "value:" prefix.
type GroupID string

// ColumnID identifies a column and is also the key into Item.Data
type ColumnID string

// UserID identifies a collaborator in presence messages
type UserID string

// ToInt converts a board ID back to int for SQL parameters
func (id BoardID) ToInt() int {
	return int(id)
}

// String implements fmt.Stringer
func (id ItemID) String() string {
	return string(id)
}

// String implements fmt.Stringer
func (id GroupID) String() string {
	return string(id)
}

// String implements fmt.Stringer
func (id ColumnID) String() string {
	return string(id)
}

// IsZero reports whether the group reference is unset
func (id GroupID) IsZero() bool {
	return id == ""
}

// ItemIDFromInt formats a database row id as an ItemID
func ItemIDFromInt(i int64) ItemID {
	return ItemID(strconv.FormatInt(i, 10))
}

// GroupIDFromInt formats a database row id as a GroupID
func GroupIDFromInt(i int64) GroupID {
	return GroupID(strconv.FormatInt(i, 10))
}

// Int64 parses a store-backed item id. Non-numeric ids return ok=false.
func (id ItemID) Int64() (int64, bool) {
	v, err := strconv.ParseInt(string(id), 10, 64)
	return v, err == nil
}

// Int64 parses a store-backed group id. Synthetic ids return ok=false.
func (id GroupID) Int64() (int64, bool) {
	v, err := strconv.ParseInt(string(id), 10, 64)
	return v, err == nil
}
