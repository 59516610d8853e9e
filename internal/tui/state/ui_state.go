package state

// Mode represents the current interaction mode of the TUI.
// Each mode determines which keyboard shortcuts are active and what UI is displayed.
type Mode int

const (
	NormalMode Mode = iota // Grid navigation, the engine owns the keyboard
	EditMode               // A cell editor is open
	FormMode               // A huh form (filter, add item, delete) is on top
	DetailMode             // Item detail viewport
	HelpMode               // Full key binding list
)

// String returns the mode name shown in the status bar
func (m Mode) String() string {
	switch m {
	case NormalMode:
		return "GRID"
	case EditMode:
		return "EDIT"
	case FormMode:
		return "FORM"
	case DetailMode:
		return "DETAIL"
	case HelpMode:
		return "HELP"
	default:
		return "?"
	}
}

// UIState manages the user interface state: terminal dimensions, the
// current interaction mode and the horizontal column scroll.
type UIState struct {
	// width is the current terminal width in characters
	width int

	// height is the current terminal height in characters
	height int

	// mode is the current interaction mode
	mode Mode

	// columnOffset is the index of the first visible column after the pinned one
	columnOffset int
}

// NewUIState creates a new UIState with default values.
func NewUIState() *UIState {
	return &UIState{mode: NormalMode}
}

// Width returns the current terminal width.
func (s *UIState) Width() int {
	return s.width
}

// SetWidth updates the terminal width.
func (s *UIState) SetWidth(width int) {
	s.width = max(width, 0)
}

// Height returns the current terminal height.
func (s *UIState) Height() int {
	return s.height
}

// SetHeight updates the terminal height.
func (s *UIState) SetHeight(height int) {
	s.height = max(height, 0)
}

// Mode returns the current interaction mode.
func (s *UIState) Mode() Mode {
	return s.mode
}

// SetMode changes the interaction mode.
func (s *UIState) SetMode(mode Mode) {
	s.mode = mode
}

// ColumnOffset returns the index of the first scrollable column shown
func (s *UIState) ColumnOffset() int {
	return s.columnOffset
}

// SetColumnOffset sets the horizontal scroll, never below zero
func (s *UIState) SetColumnOffset(offset int) {
	s.columnOffset = max(offset, 0)
}

// RevealColumn scrolls horizontally so the scrollable column at index col
// is on screen. widths are the terminal widths of the scrollable columns and
// room is the space left after the pinned column. Reports whether the
// offset changed.
func (s *UIState) RevealColumn(col int, widths []int, room int) bool {
	if col < 0 || col >= len(widths) {
		return false
	}
	prev := s.columnOffset
	if col < s.columnOffset {
		s.columnOffset = col
		return prev != s.columnOffset
	}
	for s.columnOffset < col {
		used := 0
		for i := s.columnOffset; i <= col; i++ {
			used += widths[i]
		}
		if used <= room {
			break
		}
		s.columnOffset++
	}
	return prev != s.columnOffset
}

// ClampColumnOffset keeps the offset inside a column list of length n
func (s *UIState) ClampColumnOffset(n int) {
	s.columnOffset = min(s.columnOffset, max(n-1, 0))
}
