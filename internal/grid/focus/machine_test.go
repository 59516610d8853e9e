package focus

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/tabla/internal/types"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

// fakeGrid is a rows x cols grid whose values live in a map
type fakeGrid struct {
	rows, cols int
	values     map[Cell]any
}

func newFakeGrid(rows, cols int) *fakeGrid {
	return &fakeGrid{rows: rows, cols: cols, values: make(map[Cell]any)}
}

func (g *fakeGrid) ItemCount() int { return g.rows }
func (g *fakeGrid) ColumnCount() int { return g.cols }
func (g *fakeGrid) ItemID(row int) types.ItemID { return types.ItemID(fmt.Sprintf("item-%d", row)) }
func (g *fakeGrid) ColumnID(col int) types.ColumnID { return types.ColumnID(fmt.Sprintf("col-%d", col)) }
func (g *fakeGrid) Value(row, col int) any { return g.values[Cell{row, col}] }
func (g *fakeGrid) set(row, col int, v any) { g.values[Cell{row, col}] = v }

type fakeClipboard struct {
	text     string
	readErr  error
	writeErr error
}

func (c *fakeClipboard) ReadAll() (string, error) { return c.text, c.readErr }
func (c *fakeClipboard) WriteAll(s string) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.text = s
	return nil
}

type edit struct {
	item  types.ItemID
	col   types.ColumnID
	value any
}

// recorder captures every callback invocation
type recorder struct {
	edits      []edit
	starts     int
	ends       int
	details    []types.ItemID
	selections [][]types.ItemID
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		CellEdit: func(i types.ItemID, c types.ColumnID, v any) {
			r.edits = append(r.edits, edit{i, c, v})
		},
		EditStart:  func(types.ItemID, types.ColumnID) { r.starts++ },
		EditEnd:    func() { r.ends++ },
		OpenDetail: func(id types.ItemID) { r.details = append(r.details, id) },
		SelectionChange: func(ids []types.ItemID) {
			r.selections = append(r.selections, ids)
		},
	}
}

func setup(rows, cols int) (*Machine, *fakeGrid, *recorder, *fakeClipboard) {
	g := newFakeGrid(rows, cols)
	r := &recorder{}
	clip := &fakeClipboard{}
	m := New(g, r.callbacks(), WithClipboard(clip))
	return m, g, r, clip
}

func key(code KeyCode) Key { return Key{Code: code} }
func char(r rune) Key { return Key{Code: KeyRune, Rune: r} }
func ctrl(r rune) Key { return Key{Code: KeyRune, Rune: r, Ctrl: true} }
func focusAt(m *Machine, row, col int) { m.Focus(Cell{Row: row, Col: col}) }

// ============================================================================
// NAVIGATION
// ============================================================================

func TestArrowFromIdleLandsOnOrigin(t *testing.T) {
	for _, code := range []KeyCode{KeyUp, KeyDown, KeyLeft, KeyRight} {
		m, _, _, _ := setup(5, 3)
		require.True(t, m.Handle(key(code)))

		cell, ok := m.Cell()
		assert.True(t, ok)
		assert.Equal(t, Cell{0, 0}, cell)
		assert.Equal(t, Focused, m.State())
	}
}

func TestArrowOnEmptyGridStaysIdle(t *testing.T) {
	m, _, _, _ := setup(0, 3)

	assert.False(t, m.Handle(key(KeyDown)))
	assert.Equal(t, Idle, m.State())
}

// TestNavigationStaysInBounds drives a long key sequence and checks the
// focus coordinate never leaves [0,rows-1] x [0,cols-1].
func TestNavigationStaysInBounds(t *testing.T) {
	m, _, _, _ := setup(4, 3)
	seq := []Key{
		key(KeyDown), key(KeyUp), key(KeyUp), key(KeyLeft), key(KeyRight), key(KeyRight),
		key(KeyRight), key(KeyRight), key(KeyPageDown), key(KeyDown), key(KeyTab), key(KeyTab),
		{Code: KeyTab, Shift: true}, key(KeyEnd), key(KeyHome), {Code: KeyEnd, Ctrl: true},
		key(KeyPageUp), key(KeyPageUp), {Code: KeyHome, Meta: true}, key(KeyLeft),
	}
	for i, k := range seq {
		m.Handle(k)
		cell, _ := m.Cell()
		assert.GreaterOrEqual(t, cell.Row, 0, "step %d", i)
		assert.Less(t, cell.Row, 4, "step %d", i)
		assert.GreaterOrEqual(t, cell.Col, 0, "step %d", i)
		assert.Less(t, cell.Col, 3, "step %d", i)
	}
}

func TestTabWrapsRows(t *testing.T) {
	m, _, _, _ := setup(2, 2)
	focusAt(m, 0, 1)

	m.Handle(key(KeyTab))
	cell, _ := m.Cell()
	assert.Equal(t, Cell{1, 0}, cell)

	m.Handle(Key{Code: KeyTab, Shift: true})
	cell, _ = m.Cell()
	assert.Equal(t, Cell{0, 1}, cell)
}

func TestTabDoesNotWrapPastLastCell(t *testing.T) {
	m, _, _, _ := setup(2, 2)
	focusAt(m, 1, 1)

	m.Handle(key(KeyTab))
	cell, _ := m.Cell()
	assert.Equal(t, Cell{1, 1}, cell)

	focusAt(m, 0, 0)
	m.Handle(Key{Code: KeyTab, Shift: true})
	cell, _ = m.Cell()
	assert.Equal(t, Cell{0, 0}, cell)
}

func TestHomeEnd(t *testing.T) {
	m, _, _, _ := setup(5, 4)
	focusAt(m, 2, 1)

	m.Handle(key(KeyEnd))
	cell, _ := m.Cell()
	assert.Equal(t, Cell{2, 3}, cell)

	m.Handle(key(KeyHome))
	cell, _ = m.Cell()
	assert.Equal(t, Cell{2, 0}, cell)

	m.Handle(Key{Code: KeyEnd, Ctrl: true})
	cell, _ = m.Cell()
	assert.Equal(t, Cell{4, 3}, cell)

	m.Handle(Key{Code: KeyHome, Meta: true})
	cell, _ = m.Cell()
	assert.Equal(t, Cell{0, 0}, cell)
}

func TestPageStride(t *testing.T) {
	g := newFakeGrid(30, 1)
	m := New(g, Callbacks{}, WithClipboard(&fakeClipboard{}), WithPageStride(10))
	focusAt(m, 0, 0)

	m.Handle(key(KeyPageDown))
	cell, _ := m.Cell()
	assert.Equal(t, 10, cell.Row)

	m.Handle(key(KeyPageDown))
	m.Handle(key(KeyPageDown))
	cell, _ = m.Cell()
	assert.Equal(t, 29, cell.Row)

	m.Handle(key(KeyPageUp))
	cell, _ = m.Cell()
	assert.Equal(t, 19, cell.Row)
}

func TestEscapeFromFocusedGoesIdle(t *testing.T) {
	m, _, _, _ := setup(2, 2)
	focusAt(m, 1, 1)

	require.True(t, m.Handle(key(KeyEscape)))
	assert.Equal(t, Idle, m.State())
	_, ok := m.Cell()
	assert.False(t, ok)
}

// ============================================================================
// EDITING
// ============================================================================

func TestEnterStartsEditAndCommitOnEnter(t *testing.T) {
	m, g, r, _ := setup(2, 2)
	g.set(0, 0, "old")
	focusAt(m, 0, 0)

	require.True(t, m.Handle(key(KeyEnter)))
	require.Equal(t, Editing, m.State())
	assert.Equal(t, "old", m.Session().Seed)
	assert.Equal(t, 1, r.starts)

	m.SetDraft("new")
	require.True(t, m.Handle(key(KeyEnter)))

	assert.Equal(t, Focused, m.State())
	assert.Nil(t, m.Session())
	assert.Equal(t, 1, r.ends)
	require.Len(t, r.edits, 1)
	assert.Equal(t, edit{"item-0", "col-0", "new"}, r.edits[0])
}

func TestCommitUnchangedIssuesNoEdit(t *testing.T) {
	m, g, r, _ := setup(2, 2)
	g.set(0, 0, "same")
	focusAt(m, 0, 0)

	m.Handle(key(KeyF2))
	m.Commit("same")

	assert.Equal(t, Focused, m.State())
	assert.Empty(t, r.edits)
}

func TestEscapeDiscardsEdit(t *testing.T) {
	m, g, r, _ := setup(2, 2)
	g.set(0, 0, "keep")
	focusAt(m, 0, 0)

	m.Handle(key(KeyF2))
	m.SetDraft("discarded")
	require.True(t, m.Handle(key(KeyEscape)))

	assert.Equal(t, Focused, m.State())
	assert.Empty(t, r.edits)
	assert.Equal(t, 1, r.ends)
}

func TestTypeToEditSeedsWithCharacter(t *testing.T) {
	m, g, _, _ := setup(2, 2)
	g.set(1, 1, "existing")
	focusAt(m, 1, 1)

	require.True(t, m.Handle(char('Q')))

	assert.Equal(t, Editing, m.State())
	assert.Equal(t, "Q", m.Session().Seed)
	assert.Equal(t, "existing", m.Session().Original)
}

func TestF2KeepsExistingValue(t *testing.T) {
	m, g, _, _ := setup(1, 1)
	g.set(0, 0, 12.0)
	focusAt(m, 0, 0)

	m.Handle(key(KeyF2))

	assert.Equal(t, "12", m.Session().Seed)
}

func TestEditingWithInputFocusedOnlyInterceptsEscapeAndTab(t *testing.T) {
	m, _, r, _ := setup(2, 2)
	focusAt(m, 0, 0)
	m.Handle(key(KeyF2))
	m.SetInputFocused(true)

	assert.False(t, m.Handle(key(KeyEnter)))
	assert.False(t, m.Handle(char('x')))
	assert.False(t, m.Handle(key(KeyLeft)))
	assert.False(t, m.Handle(ctrl('a')))
	assert.Equal(t, Editing, m.State())

	m.SetDraft("typed")
	assert.True(t, m.Handle(key(KeyTab)))
	assert.Equal(t, Focused, m.State())
	cell, _ := m.Cell()
	assert.Equal(t, Cell{0, 1}, cell)
	require.Len(t, r.edits, 1)
	assert.Equal(t, "typed", r.edits[0].value)
}

func TestShiftEnterOpensDetail(t *testing.T) {
	m, _, r, _ := setup(3, 1)
	focusAt(m, 2, 0)

	require.True(t, m.Handle(Key{Code: KeyEnter, Shift: true}))

	assert.Equal(t, Focused, m.State())
	assert.Equal(t, []types.ItemID{"item-2"}, r.details)
}

func TestDeleteClearsWithoutEditing(t *testing.T) {
	m, g, r, _ := setup(1, 1)
	g.set(0, 0, "value")
	focusAt(m, 0, 0)

	require.True(t, m.Handle(key(KeyDelete)))

	assert.Equal(t, Focused, m.State())
	require.Len(t, r.edits, 1)
	assert.Nil(t, r.edits[0].value)
}

func TestClickWhileEditingCommitsDraft(t *testing.T) {
	m, _, r, _ := setup(2, 2)
	focusAt(m, 0, 0)
	m.Handle(key(KeyF2))
	m.SetDraft("blurred")

	m.Focus(Cell{1, 1})

	assert.Equal(t, Focused, m.State())
	require.Len(t, r.edits, 1)
	assert.Equal(t, types.ItemID("item-0"), r.edits[0].item)
}

// ============================================================================
// CLIPBOARD
// ============================================================================

func TestCopyPasteRoundTrip(t *testing.T) {
	m, g, r, clip := setup(2, 2)
	g.set(0, 0, map[string]any{"label": "Open"})
	focusAt(m, 0, 0)

	require.True(t, m.Handle(ctrl('c')))
	assert.Equal(t, `{"label":"Open"}`, clip.text)

	focusAt(m, 1, 0)
	require.True(t, m.Handle(ctrl('v')))

	require.Len(t, r.edits, 1)
	assert.Equal(t, edit{"item-1", "col-0", map[string]any{"label": "Open"}}, r.edits[0])
}

func TestPasteFromSystemClipboardParsesJSON(t *testing.T) {
	m, _, r, clip := setup(1, 2)
	clip.text = "42"
	focusAt(m, 0, 1)

	m.Handle(Key{Code: KeyRune, Rune: 'v', Meta: true})

	require.Len(t, r.edits, 1)
	assert.Equal(t, 42.0, r.edits[0].value)
}

func TestPasteFromSystemClipboardFallsBackToRaw(t *testing.T) {
	m, _, r, clip := setup(1, 1)
	clip.text = "not json"
	focusAt(m, 0, 0)

	m.Handle(ctrl('v'))

	require.Len(t, r.edits, 1)
	assert.Equal(t, "not json", r.edits[0].value)
}

func TestClipboardFailuresAreSilent(t *testing.T) {
	m, g, r, clip := setup(1, 1)
	g.set(0, 0, "x")
	clip.writeErr = errors.New("no clipboard")
	clip.readErr = errors.New("no clipboard")
	focusAt(m, 0, 0)

	assert.True(t, m.Handle(ctrl('c')))
	assert.NotNil(t, m.Clipboard())

	m2, _, r2, clip2 := setup(1, 1)
	clip2.readErr = errors.New("no clipboard")
	focusAt(m2, 0, 0)
	assert.True(t, m2.Handle(ctrl('v')))
	assert.Empty(t, r2.edits)
	assert.Empty(t, r.edits)
}

// ============================================================================
// SELECTION
// ============================================================================

func TestSpaceTogglesSelection(t *testing.T) {
	m, _, r, _ := setup(3, 1)
	focusAt(m, 1, 0)

	m.Handle(key(KeySpace))
	assert.True(t, m.Selected("item-1"))
	m.Handle(char(' '))
	assert.False(t, m.Selected("item-1"))

	assert.Len(t, r.selections, 2)
	cell, _ := m.Cell()
	assert.Equal(t, Cell{1, 0}, cell)
}

func TestSelectAllIndependentOfFocus(t *testing.T) {
	m, _, r, _ := setup(3, 1)

	require.True(t, m.Handle(ctrl('a')))

	assert.Equal(t, Idle, m.State())
	assert.Equal(t, []types.ItemID{"item-0", "item-1", "item-2"}, m.Selection())
	require.Len(t, r.selections, 1)
}

// ============================================================================
// GUARDS
// ============================================================================

func TestDisabledMachineIgnoresKeys(t *testing.T) {
	m, _, _, _ := setup(2, 2)
	m.SetEnabled(false)

	assert.False(t, m.Handle(key(KeyDown)))
	assert.False(t, m.Handle(ctrl('a')))
	assert.Equal(t, Idle, m.State())
}

func TestReentrantHandleIsDropped(t *testing.T) {
	g := newFakeGrid(2, 2)
	var m *Machine
	var inner bool
	m = New(g, Callbacks{
		CellEdit: func(types.ItemID, types.ColumnID, any) {
			inner = m.Handle(Key{Code: KeyDown})
		},
	}, WithClipboard(&fakeClipboard{}))
	focusAt(m, 0, 0)
	m.Handle(key(KeyF2))

	m.Commit("changed")

	assert.False(t, inner)
	cell, _ := m.Cell()
	assert.Equal(t, Cell{0, 0}, cell)
}

// TestNestedCallbackKeepsHandleBlocked runs guarded callbacks from inside
// another callback; Handle must stay blocked until the outer one returns.
func TestNestedCallbackKeepsHandleBlocked(t *testing.T) {
	g := newFakeGrid(2, 2)
	var m *Machine
	var inner bool
	var ends int
	m = New(g, Callbacks{
		OpenDetail: func(types.ItemID) {
			m.StartEdit(Cell{0, 0})
			m.Cancel()
			inner = m.Handle(Key{Code: KeyDown})
		},
		EditEnd: func() { ends++ },
	}, WithClipboard(&fakeClipboard{}))
	focusAt(m, 0, 0)

	require.True(t, m.Handle(Key{Code: KeyEnter, Shift: true}))

	assert.False(t, inner)
	assert.Equal(t, 1, ends)
	cell, _ := m.Cell()
	assert.Equal(t, Cell{0, 0}, cell)
	assert.True(t, m.Handle(Key{Code: KeyDown}), "Handle reopens once the outer callback returns")
}

func TestSyncClampsAfterShrink(t *testing.T) {
	m, g, _, _ := setup(5, 5)
	focusAt(m, 4, 4)

	g.rows, g.cols = 2, 3
	m.Sync()
	cell, _ := m.Cell()
	assert.Equal(t, Cell{1, 2}, cell)

	g.rows = 0
	m.Sync()
	assert.Equal(t, Idle, m.State())
}
