package models

import (
	"errors"
	"testing"

	"github.com/thenoetrevino/tabla/internal/types"
)

// ============================================================================
// Error Tests
// ============================================================================

func TestErrors_Unique(t *testing.T) {
	all := []error{ErrItemNotFound, ErrGroupNotFound, ErrColumnNotFound, ErrBoardNotFound}
	for i := range all {
		for j := range all {
			if i != j && errors.Is(all[i], all[j]) {
				t.Errorf("error %q should not match %q", all[i], all[j])
			}
		}
	}
}

// ============================================================================
// Item Tests
// ============================================================================

func TestItem_GroupRef(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want types.GroupID
	}{
		{"explicit field", Item{GroupID: "a"}, "a"},
		{"explicit wins over data", Item{GroupID: "a", Data: map[string]any{GroupDataKey: "b"}}, "a"},
		{"data string", Item{Data: map[string]any{GroupDataKey: "b"}}, "b"},
		{"data json number", Item{Data: map[string]any{GroupDataKey: float64(7)}}, "7"},
		{"missing", Item{}, ""},
		{"wrong type", Item{Data: map[string]any{GroupDataKey: true}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.GroupRef(); got != tt.want {
				t.Errorf("GroupRef() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestItem_Value(t *testing.T) {
	item := &Item{Name: "Write docs", Data: map[string]any{"status": "Open"}}

	if got := item.Value(NameColumnID); got != "Write docs" {
		t.Errorf("Value(name) = %v, want Write docs", got)
	}
	if got := item.Value("status"); got != "Open" {
		t.Errorf("Value(status) = %v, want Open", got)
	}
	if got := item.Value("missing"); got != nil {
		t.Errorf("Value(missing) = %v, want nil", got)
	}
}

func TestItem_CloneIsolatesData(t *testing.T) {
	item := &Item{ID: "1", Data: map[string]any{"status": "Open"}}
	c := item.Clone()
	c.Data["status"] = "Closed"

	if item.Data["status"] != "Open" {
		t.Error("mutating the clone changed the original")
	}
}

// ============================================================================
// Column Tests
// ============================================================================

func TestClampWidth(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-10, MinColumnWidth},
		{0, MinColumnWidth},
		{80, 80},
		{200, 200},
		{600, 600},
		{900, MaxColumnWidth},
	}
	for _, tt := range tests {
		if got := ClampWidth(tt.in); got != tt.want {
			t.Errorf("ClampWidth(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestColumnType_Valid(t *testing.T) {
	for _, ct := range ColumnTypes {
		if !ct.Valid() {
			t.Errorf("%q should be valid", ct)
		}
	}
	if ColumnType("formula").Valid() {
		t.Error("formula should not be a valid column type")
	}
}

func TestPresence_IsEditing(t *testing.T) {
	if (Presence{EditingItemID: "1"}).IsEditing() {
		t.Error("presence without column should not be editing")
	}
	if !(Presence{EditingItemID: "1", EditingColumnID: "status"}).IsEditing() {
		t.Error("presence with item and column should be editing")
	}
}
