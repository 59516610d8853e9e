package state

import (
	"testing"
)

// TestRevealColumn_ScrollsRight ensures a column past the right edge pulls the offset forward
func TestRevealColumn_ScrollsRight(t *testing.T) {
	s := NewUIState()
	widths := []int{10, 10, 10, 10}

	changed := s.RevealColumn(3, widths, 25)

	if !changed {
		t.Fatal("RevealColumn() = false, want true")
	}
	if s.ColumnOffset() != 2 {
		t.Errorf("ColumnOffset() = %d, want 2", s.ColumnOffset())
	}
}

// TestRevealColumn_ScrollsLeft ensures a column before the offset becomes the first one
func TestRevealColumn_ScrollsLeft(t *testing.T) {
	s := NewUIState()
	s.SetColumnOffset(3)

	s.RevealColumn(1, []int{10, 10, 10, 10}, 25)

	if s.ColumnOffset() != 1 {
		t.Errorf("ColumnOffset() = %d, want 1", s.ColumnOffset())
	}
}

// TestRevealColumn_AlreadyVisible is a no-op
func TestRevealColumn_AlreadyVisible(t *testing.T) {
	s := NewUIState()

	if s.RevealColumn(1, []int{10, 10, 10}, 25) {
		t.Error("RevealColumn() on a visible column = true, want false")
	}
	if s.RevealColumn(7, []int{10}, 25) {
		t.Error("RevealColumn() out of range = true, want false")
	}
}

// TestRevealColumn_WideColumn shows a column wider than the room as the first one
func TestRevealColumn_WideColumn(t *testing.T) {
	s := NewUIState()

	s.RevealColumn(2, []int{10, 10, 40}, 25)

	if s.ColumnOffset() != 2 {
		t.Errorf("ColumnOffset() = %d, want 2", s.ColumnOffset())
	}
}

func TestColumnOffsetClamp(t *testing.T) {
	s := NewUIState()
	s.SetColumnOffset(-4)
	if s.ColumnOffset() != 0 {
		t.Errorf("negative offset = %d, want 0", s.ColumnOffset())
	}

	s.SetColumnOffset(9)
	s.ClampColumnOffset(3)
	if s.ColumnOffset() != 2 {
		t.Errorf("ClampColumnOffset(3) = %d, want 2", s.ColumnOffset())
	}
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{NormalMode, "GRID"},
		{EditMode, "EDIT"},
		{FormMode, "FORM"},
		{DetailMode, "DETAIL"},
		{HelpMode, "HELP"},
		{Mode(99), "?"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestDimensionsNeverNegative(t *testing.T) {
	s := NewUIState()
	s.SetWidth(-1)
	s.SetHeight(-5)
	if s.Width() != 0 || s.Height() != 0 {
		t.Errorf("size = %dx%d, want 0x0", s.Width(), s.Height())
	}
}
