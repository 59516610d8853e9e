package board

import "errors"

// Board-related errors
var (
	// Validation errors
	ErrEmptyName         = errors.New("name cannot be empty")
	ErrNameTooLong       = errors.New("name cannot exceed 255 characters")
	ErrInvalidBoardID    = errors.New("invalid board ID")
	ErrInvalidColumnID   = errors.New("column id must be lowercase letters, digits or underscores")
	ErrInvalidColumnType = errors.New("unknown column type")
	ErrInvalidPosition   = errors.New("invalid position: must be >= 0")

	// Business logic errors
	ErrDuplicateColumn  = errors.New("column already exists on this board")
	ErrReservedColumn   = errors.New("the name column cannot be changed")
	ErrSyntheticGroup   = errors.New("cannot move an item into a value bucket; edit the grouped column instead")
	ErrCrossBoardMove   = errors.New("item and group belong to different boards")
	ErrEmptyReorder     = errors.New("reorder needs at least one item")
	ErrGroupMismatch    = errors.New("reordered items must all belong to the group")
)
