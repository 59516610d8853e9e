package edit

import "errors"

// ErrNothingToUndo is returned by Undo when the stack is empty
var ErrNothingToUndo = errors.New("nothing to undo")
