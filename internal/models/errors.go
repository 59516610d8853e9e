package models

import "errors"

// Domain-specific errors shared by the store and the grid engine
var (
	// ErrItemNotFound indicates the item id does not exist on the board
	ErrItemNotFound = errors.New("item not found")

	// ErrGroupNotFound indicates the group id does not exist on the board
	ErrGroupNotFound = errors.New("group not found")

	// ErrColumnNotFound indicates the column id does not exist on the board
	ErrColumnNotFound = errors.New("column not found")

	// ErrBoardNotFound indicates the board id does not exist
	ErrBoardNotFound = errors.New("board not found")
)
