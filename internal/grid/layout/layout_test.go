package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/types"
)

type calls struct {
	resizes  []int
	reorders [][]types.ColumnID
}

func newManager(t *testing.T) (*Manager, *calls) {
	t.Helper()
	c := &calls{}
	m := New(0, Callbacks{
		ColumnResize: func(_ types.ColumnID, w int) { c.resizes = append(c.resizes, w) },
		ColumnReorder: func(ids []types.ColumnID) {
			c.reorders = append(c.reorders, ids)
		},
	})
	m.SetColumns([]models.Column{
		{ID: "status", Visible: true, Width: 120, Position: 2},
		{ID: "name", Visible: true, Width: 250, Position: 0},
		{ID: "owner", Visible: true, Position: 1},
		{ID: "hidden", Visible: false, Width: 100, Position: 3},
		{ID: "due", Visible: true, Width: -5, Position: 4},
	})
	return m, c
}

func TestColumnsSortedAndHiddenDropped(t *testing.T) {
	m, _ := newManager(t)

	assert.Equal(t, []types.ColumnID{"name", "owner", "status", "due"}, m.IDs())
	pinned, ok := m.Pinned()
	assert.True(t, ok)
	assert.Equal(t, types.ColumnID("name"), pinned)
}

func TestEffectiveWidth(t *testing.T) {
	m, _ := newManager(t)

	assert.Equal(t, 250, m.Width("name"))
	assert.Equal(t, models.DefaultColumnWidth, m.Width("owner"), "zero width falls back to the default")
	assert.Equal(t, models.MinColumnWidth, m.Width("due"), "negative width clamps to the minimum")
	assert.Equal(t, models.DefaultColumnWidth, m.Width("missing"))
	assert.Equal(t, 250+150+120+80, m.TotalWidth())
}

func TestResizeGestureEmitsOnce(t *testing.T) {
	m, c := newManager(t)

	require.True(t, m.BeginResize("status", 500))
	w, ok := m.MoveResize(530)
	require.True(t, ok)
	assert.Equal(t, 150, w)
	m.MoveResize(560)
	assert.Equal(t, 180, m.Width("status"), "moves apply a local override")
	assert.Empty(t, c.resizes, "no callback while dragging")

	m.EndResize()

	assert.Equal(t, []int{180}, c.resizes)
	assert.Equal(t, 180, m.Width("status"))
	_, resizing := m.Resizing()
	assert.False(t, resizing)
}

func TestResizeClamps(t *testing.T) {
	m, c := newManager(t)

	m.BeginResize("status", 0)
	m.MoveResize(-1000)
	assert.Equal(t, models.MinColumnWidth, m.Width("status"))
	m.MoveResize(5000)
	m.EndResize()

	assert.Equal(t, []int{models.MaxColumnWidth}, c.resizes)
}

func TestCancelResizeRestores(t *testing.T) {
	m, c := newManager(t)

	m.BeginResize("name", 100)
	m.MoveResize(180)
	m.CancelResize()

	assert.Equal(t, 250, m.Width("name"))
	assert.Empty(t, c.resizes)
}

func TestResizeWithoutMovementIsSilent(t *testing.T) {
	m, c := newManager(t)

	m.BeginResize("name", 100)
	m.EndResize()

	assert.Empty(t, c.resizes)
}

func TestOverrideReleasedWhenDataCatchesUp(t *testing.T) {
	m, _ := newManager(t)
	m.BeginResize("status", 0)
	m.MoveResize(80)
	m.EndResize()
	require.Equal(t, 200, m.Width("status"))

	// Stale refresh still shows the old width: the override wins
	m.SetColumns([]models.Column{
		{ID: "name", Visible: true, Width: 250, Position: 0},
		{ID: "status", Visible: true, Width: 120, Position: 1},
	})
	assert.Equal(t, 200, m.Width("status"))

	m.SetColumns([]models.Column{
		{ID: "name", Visible: true, Width: 250, Position: 0},
		{ID: "status", Visible: true, Width: 200, Position: 1},
	})
	_, hasOverride := m.overrides["status"]
	assert.False(t, hasOverride)
	assert.Equal(t, 200, m.Width("status"))
}

func TestReorderKeepsPinnedFirst(t *testing.T) {
	m, c := newManager(t)

	require.True(t, m.BeginReorder("due"))
	assert.False(t, m.OverReorder("name"), "the pinned column is not a drop slot")
	assert.True(t, m.OverReorder("owner"))
	assert.False(t, m.OverReorder("owner"), "same slot twice is not a change")
	m.EndReorder()

	want := []types.ColumnID{"name", "due", "owner", "status"}
	require.Len(t, c.reorders, 1)
	assert.Equal(t, want, c.reorders[0])
	assert.Equal(t, want, m.IDs())
}

func TestPinnedColumnCannotBeDragged(t *testing.T) {
	m, c := newManager(t)

	assert.False(t, m.BeginReorder("name"))
	m.EndReorder()

	assert.Empty(t, c.reorders)
}

func TestCancelReorder(t *testing.T) {
	m, c := newManager(t)

	m.BeginReorder("owner")
	m.OverReorder("due")
	m.CancelReorder()
	m.EndReorder()

	assert.Empty(t, c.reorders)
	assert.Equal(t, []types.ColumnID{"name", "owner", "status", "due"}, m.IDs())
}

func TestKeyboardReorder(t *testing.T) {
	m, c := newManager(t)

	assert.True(t, m.KeyboardReorder("owner", 1))
	assert.Equal(t, []types.ColumnID{"name", "status", "owner", "due"}, m.IDs())

	assert.True(t, m.KeyboardReorder("owner", -1))
	assert.Equal(t, []types.ColumnID{"name", "owner", "status", "due"}, m.IDs())

	assert.False(t, m.KeyboardReorder("owner", -1), "already first after the pinned column")
	assert.False(t, m.KeyboardReorder("name", 1), "pinned column never moves")
	assert.Len(t, c.reorders, 2)
}

func TestResetOrderAfterFailedMutation(t *testing.T) {
	m, _ := newManager(t)
	m.KeyboardReorder("due", -3)
	require.Equal(t, []types.ColumnID{"name", "due", "owner", "status"}, m.IDs())

	m.ResetOrder()

	assert.Equal(t, []types.ColumnID{"name", "owner", "status", "due"}, m.IDs())
}

func TestColumnAtAndEdgeAt(t *testing.T) {
	m, _ := newManager(t)

	id, ok := m.ColumnAt(10)
	assert.True(t, ok)
	assert.Equal(t, types.ColumnID("name"), id)

	id, _ = m.ColumnAt(260)
	assert.Equal(t, types.ColumnID("owner"), id)

	_, ok = m.ColumnAt(10_000)
	assert.False(t, ok)

	id, ok = m.EdgeAt(251, 2)
	assert.True(t, ok)
	assert.Equal(t, types.ColumnID("name"), id)

	_, ok = m.EdgeAt(300, 2)
	assert.False(t, ok)
}

func TestArrayMove(t *testing.T) {
	assert.Equal(t, []int{2, 3, 1, 4}, ArrayMove([]int{1, 2, 3, 4}, 0, 2))
	assert.Equal(t, []int{4, 1, 2, 3}, ArrayMove([]int{1, 2, 3, 4}, 3, 0))
	assert.Equal(t, []int{1, 2}, ArrayMove([]int{1, 2}, 0, 5))
}
