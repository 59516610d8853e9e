package grid

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/tabla/internal/grid/drag"
	"github.com/thenoetrevino/tabla/internal/grid/focus"
	"github.com/thenoetrevino/tabla/internal/grid/project"
	"github.com/thenoetrevino/tabla/internal/grid/rows"
	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/types"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

type stubMutator struct {
	err   error
	cells int
	moves int
	reord int
}

func (s *stubMutator) UpdateCell(context.Context, types.ItemID, types.ColumnID, any) error {
	s.cells++
	return s.err
}

func (s *stubMutator) MoveItem(context.Context, types.ItemID, types.GroupID, float64) error {
	s.moves++
	return s.err
}

func (s *stubMutator) ReorderGroup(context.Context, types.GroupID, []drag.Placement) error {
	s.reord++
	return s.err
}

type memClipboard struct{ text string }

func (c *memClipboard) ReadAll() (string, error) { return c.text, nil }
func (c *memClipboard) WriteAll(s string) error  { c.text = s; return nil }

var lineHeights = rows.Heights{GroupHeader: 1, ColumnHeader: 1, Item: 1, Summary: 1, Footer: 1}

func testColumns() []models.Column {
	return []models.Column{
		{ID: models.NameColumnID, Name: "Name", Type: models.ColumnText, Visible: true, Position: 0},
		{ID: "status", Name: "Status", Type: models.ColumnStatus, Visible: true, Position: 1, Width: 120},
		{ID: "owner", Name: "Owner", Type: models.ColumnPerson, Visible: true, Position: 2},
	}
}

func newEngine(t *testing.T, m *stubMutator, cb Callbacks) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Heights = lineHeights
	cfg.Overscan = 0
	e := New(cfg, cb, WithMutator(m), WithClipboard(&memClipboard{}))
	e.SetData(
		[]models.Item{
			{ID: "1", Name: "one", GroupID: "A", Position: 0, Data: map[string]any{"status": "Open"}},
			{ID: "2", Name: "two", GroupID: "B", Position: 0, Data: map[string]any{"status": "Closed"}},
			{ID: "3", Name: "three", GroupID: "A", Position: 1},
		},
		[]models.Group{{ID: "B", Name: "Later", Position: 1}, {ID: "A", Name: "Now", Position: 0}},
		testColumns(),
	)
	e.SetViewport(20)
	return e
}

func rowIDs(e *Engine) []string {
	out := make([]string, len(e.Rows()))
	for i, r := range e.Rows() {
		out[i] = r.ID
	}
	return out
}

func commitAll(t *testing.T, e *Engine) []error {
	t.Helper()
	var errs []error
	for _, op := range e.Ops() {
		if err := op.Commit(context.Background()); err != nil {
			errs = append(errs, err)
		}
	}
	e.Refresh()
	return errs
}

// ============================================================================
// TESTS
// ============================================================================

func TestEngineFlattensGroupsInOrder(t *testing.T) {
	e := newEngine(t, &stubMutator{}, Callbacks{})

	assert.Equal(t, []string{
		"group:A:header", "item:1", "item:3", "group:A:summary", "group:A:footer",
		"group:B:header", "item:2", "group:B:summary", "group:B:footer",
	}, rowIDs(e))
	assert.Equal(t, 9, e.Window().Len())
}

func TestEngineToggleGroup(t *testing.T) {
	var toggled []bool
	e := newEngine(t, &stubMutator{}, Callbacks{
		OnGroupCollapseToggle: func(_ types.GroupID, c bool) { toggled = append(toggled, c) },
	})
	before := rowIDs(e)

	e.ToggleGroup("A")
	assert.Equal(t, []string{
		"group:A:header",
		"group:B:header", "item:2", "group:B:summary", "group:B:footer",
	}, rowIDs(e))

	e.ToggleGroup("A")
	assert.Equal(t, before, rowIDs(e))
	assert.Equal(t, []bool{true, false}, toggled)
}

func TestEngineWindowFollowsFocus(t *testing.T) {
	e := newEngine(t, &stubMutator{}, Callbacks{})
	e.SetViewport(2)

	e.HandleKey(focus.Key{Code: focus.KeyDown})
	e.HandleKey(focus.Key{Code: focus.KeyDown})
	e.HandleKey(focus.Key{Code: focus.KeyDown})

	itemID, _, ok := e.FocusedCell()
	require.True(t, ok)
	assert.Equal(t, types.ItemID("2"), itemID)
	w := e.Window()
	assert.LessOrEqual(t, w.Start, 6)
	assert.Greater(t, w.End, 6, "row of item 2 is rendered")
}

func TestEngineEditIsOptimistic(t *testing.T) {
	m := &stubMutator{}
	var edits int
	e := newEngine(t, m, Callbacks{
		OnCellEdit: func(types.ItemID, types.ColumnID, any) { edits++ },
	})

	e.HandleKey(focus.Key{Code: focus.KeyRight})
	e.HandleKey(focus.Key{Code: focus.KeyRight})
	require.True(t, e.HandleKey(focus.Key{Code: focus.KeyEnter}))
	e.Commit("Done")

	assert.Equal(t, 1, edits)
	it, _ := e.Item("1")
	assert.Equal(t, "Done", it.Data["status"])
	assert.Empty(t, commitAll(t, e))
	assert.Equal(t, 1, m.cells)
}

// TestEngineFailedEditRestoresValue is the rollback property: a failed
// mutation shows the previous value again.
func TestEngineFailedEditRestoresValue(t *testing.T) {
	m := &stubMutator{err: errors.New("offline")}
	e := newEngine(t, m, Callbacks{})

	e.HandleKey(focus.Key{Code: focus.KeyDown})
	e.HandleKey(focus.Key{Code: focus.KeyRight})
	e.HandleKey(focus.Key{Code: focus.KeyDelete})
	it, _ := e.Item("1")
	_, present := it.Data["status"]
	require.False(t, present, "cleared optimistically")

	errs := commitAll(t, e)

	require.Len(t, errs, 1)
	it, _ = e.Item("1")
	assert.Equal(t, "Open", it.Data["status"])
}

func TestEngineCopyPaste(t *testing.T) {
	e := newEngine(t, &stubMutator{}, Callbacks{})

	e.HandleKey(focus.Key{Code: focus.KeyDown})
	e.HandleKey(focus.Key{Code: focus.KeyRight})
	e.HandleKey(focus.Key{Code: focus.KeyRune, Rune: 'c', Ctrl: true})
	e.HandleKey(focus.Key{Code: focus.KeyDown})
	e.HandleKey(focus.Key{Code: focus.KeyRune, Rune: 'v', Ctrl: true})

	it, _ := e.Item("3")
	assert.Equal(t, "Open", it.Data["status"])
}

func TestEngineKeyboardItemMove(t *testing.T) {
	m := &stubMutator{}
	var reorders int
	e := newEngine(t, m, Callbacks{
		OnItemReorder: func(types.ItemID, types.ItemID, drag.Side) { reorders++ },
	})
	e.HandleKey(focus.Key{Code: focus.KeyDown})

	require.True(t, e.MoveFocusedItem(1))

	assert.Equal(t, []types.ItemID{"3", "1"}, e.Index().GroupItems("A"))
	itemID, _, _ := e.FocusedCell()
	assert.Equal(t, types.ItemID("1"), itemID, "focus follows the moved item")
	assert.Equal(t, 1, reorders)
	assert.Empty(t, commitAll(t, e))
	assert.Equal(t, 1, m.reord)
}

func TestEnginePointerDragAcrossGroups(t *testing.T) {
	m := &stubMutator{}
	var moved types.GroupID
	e := newEngine(t, m, Callbacks{
		OnItemMove: func(_ types.ItemID, g types.GroupID) { moved = g },
	})

	// Row 1 is item 1; row 6 is item 2 in group B
	require.True(t, e.BeginDrag(1))
	_, changed := e.DragOver(6)
	require.True(t, changed)
	e.EndDrag()

	assert.Equal(t, types.GroupID("B"), moved)
	assert.Equal(t, []types.ItemID{"2", "1"}, e.Index().GroupItems("B"))
	_, dragging := e.Dragging()
	assert.False(t, dragging)
}

// TestEngineDropOnCollapsedGroupAppends drops onto a collapsed group with
// gapped positions; once expanded the moved item is last.
func TestEngineDropOnCollapsedGroupAppends(t *testing.T) {
	m := &stubMutator{}
	e := newEngine(t, m, Callbacks{})
	e.SetData(
		[]models.Item{
			{ID: "1", Name: "one", GroupID: "A", Position: 0},
			{ID: "3", Name: "three", GroupID: "A", Position: 1},
			{ID: "2", Name: "two", GroupID: "B", Position: 0},
			{ID: "4", Name: "four", GroupID: "B", Position: 5},
		},
		[]models.Group{{ID: "A", Name: "Now", Position: 0}, {ID: "B", Name: "Later", Position: 1}},
		testColumns(),
	)
	e.ToggleGroup("B")
	// 0 hdr A, 1 item 1, 2 item 3, 3 sum, 4 foot, 5 hdr B (collapsed)
	require.Equal(t, "group:B:header", e.Rows()[5].ID)

	require.True(t, e.BeginDrag(1))
	e.DragOver(5)
	e.EndDrag()
	e.ToggleGroup("B")

	assert.Equal(t, []types.ItemID{"2", "4", "1"}, e.Index().GroupItems("B"))
	assert.Empty(t, commitAll(t, e))
	assert.Equal(t, 1, m.moves)
}

func TestEngineDropBetweenValueBucketsEditsColumn(t *testing.T) {
	m := &stubMutator{}
	e := newEngine(t, m, Callbacks{})
	e.SetProjection(project.Config{GroupBy: "status"})
	// Buckets: Closed, Open, (Empty) -> rows:
	// 0 hdr Closed, 1 item 2, 2 sum, 3 foot, 4 hdr Open, 5 item 1, 6 sum, 7 foot, 8 hdr Empty, 9 item 3
	require.Equal(t, "item:3", e.Rows()[9].ID)

	require.True(t, e.BeginDrag(9))
	e.DragOver(4)
	e.EndDrag()

	it, _ := e.Item("3")
	assert.Equal(t, "Open", it.Data["status"])
	assert.Equal(t, 0, m.moves)
	assert.Empty(t, commitAll(t, e))
	assert.Equal(t, 1, m.cells)
}

func TestEngineSortCycle(t *testing.T) {
	var sorted []types.ColumnID
	e := newEngine(t, &stubMutator{}, Callbacks{
		OnSort: func(c types.ColumnID) { sorted = append(sorted, c) },
	})

	s := e.CycleSort(models.NameColumnID)
	assert.Equal(t, project.Ascending, s.Direction)
	assert.Equal(t, []types.ItemID{"1", "3"}, e.Index().GroupItems("A"))

	e.CycleSort(models.NameColumnID)
	assert.Equal(t, []types.ItemID{"3", "1"}, e.Index().GroupItems("A"))
	assert.False(t, e.MoveFocusedItem(1), "manual order is off while sorted")

	e.CycleSort(models.NameColumnID)
	assert.False(t, e.Projection().Sort.Active())
	assert.Len(t, sorted, 3)
}

func TestEngineUndo(t *testing.T) {
	m := &stubMutator{}
	e := newEngine(t, m, Callbacks{})
	e.HandleKey(focus.Key{Code: focus.KeyDown})
	e.HandleKey(focus.Key{Code: focus.KeyRune, Rune: 'X'})
	e.Commit("renamed")
	require.Empty(t, commitAll(t, e))

	require.NoError(t, e.Undo())
	require.Empty(t, commitAll(t, e))

	it, _ := e.Item("1")
	assert.Equal(t, "one", it.Name)
}

func TestEngineColumnKeyboardReorderAndResize(t *testing.T) {
	var order []types.ColumnID
	var width int
	e := newEngine(t, &stubMutator{}, Callbacks{
		OnColumnReorder: func(ids []types.ColumnID) { order = ids },
		OnColumnResize:  func(_ types.ColumnID, w int) { width = w },
	})
	e.HandleKey(focus.Key{Code: focus.KeyDown})
	e.HandleKey(focus.Key{Code: focus.KeyRight})

	require.True(t, e.MoveFocusedColumn(1))
	assert.Equal(t, []types.ColumnID{"name", "owner", "status"}, order)
	_, col, _ := e.FocusedCell()
	assert.Equal(t, types.ColumnID("status"), col, "focus stays on the moved column")

	require.True(t, e.ResizeFocusedColumn(30))
	assert.Equal(t, 150, width)
}

func TestEnginePresence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Self = "me"
	e := New(cfg, Callbacks{})
	now := time.Now()

	e.SetPresence([]models.Presence{
		{UserID: "me", EditingItemID: "1", EditingColumnID: "status", LastSeen: now},
		{UserID: "ana", UserName: "Ana", EditingItemID: "1", EditingColumnID: "status", LastSeen: now},
	}, now)

	require.Len(t, e.Presence("1", "status"), 1)
	e.ExpirePresence(now.Add(time.Hour))
	assert.Empty(t, e.Presence("1", "status"))
}

func TestEngineWithoutGroupsUsesDefaultGroup(t *testing.T) {
	e := New(DefaultConfig(), Callbacks{})
	e.SetData([]models.Item{{ID: "x", GroupID: "gone"}}, nil, testColumns())

	gid, ok := e.Index().GroupOf("x")
	require.True(t, ok)
	assert.Equal(t, rows.DefaultGroupID, gid)
}
