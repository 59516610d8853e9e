package project

import "errors"

// ErrInvalidCondition is returned when a filter condition does not fit its
// column's type
var ErrInvalidCondition = errors.New("invalid filter condition")
