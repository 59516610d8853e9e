// Package focus implements the spreadsheet-style keyboard state machine:
// a single focused cell, an edit session, an internal clipboard and the row
// selection set.
package focus

import (
	"log/slog"

	"github.com/thenoetrevino/tabla/internal/grid/value"
	"github.com/thenoetrevino/tabla/internal/types"
)

// State is the machine's mode
type State int

const (
	Idle    State = iota // No focused cell
	Focused              // A cell is focused, not editing
	Editing              // The focused cell has an open edit session
)

// String returns the state name
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Focused:
		return "focused"
	case Editing:
		return "editing"
	default:
		return "unknown"
	}
}

// DefaultPageStride is how many rows PageUp/PageDown move
const DefaultPageStride = 10

// Cell is a focus coordinate. Row indexes the item-only row sequence and
// Col indexes the visible columns.
type Cell struct {
	Row int
	Col int
}

// Grid is the machine's read-only view of the rendered grid
type Grid interface {
	ItemCount() int
	ColumnCount() int
	ItemID(row int) types.ItemID
	ColumnID(col int) types.ColumnID
	Value(row, col int) any
}

// Session is the active edit. Seed is the text the editor opens with: the
// typed character for type-to-edit, the current value otherwise.
type Session struct {
	ItemID   types.ItemID
	ColumnID types.ColumnID
	Original any
	Draft    any
	Seed     string
}

// Callbacks are the outbound effects of key handling. Nil callbacks are skipped.
type Callbacks struct {
	CellEdit        func(itemID types.ItemID, columnID types.ColumnID, v any)
	EditStart       func(itemID types.ItemID, columnID types.ColumnID)
	EditEnd         func()
	OpenDetail      func(itemID types.ItemID)
	SelectionChange func(ids []types.ItemID)
}

// Machine is the focus/edit state machine. It is not safe for concurrent
// use; all calls happen on the UI goroutine.
type Machine struct {
	grid      Grid
	callbacks Callbacks
	clipboard SystemClipboard

	state      State
	cell       Cell
	session    *Session
	clip       *ClipEntry
	selection  map[types.ItemID]bool
	pageStride int

	// enabled gates all key handling. Hosts disable the machine while a modal
	// or scrollbar drag owns the keyboard.
	enabled bool

	// inputFocused is set by the host while its text input has focus.
	// Only Escape and Tab are intercepted then.
	inputFocused bool

	// busy guards against re-entrant Handle calls from inside callbacks
	busy bool
}

// Option configures a Machine
type Option func(*Machine)

// WithClipboard replaces the system clipboard (tests use an in-memory fake)
func WithClipboard(c SystemClipboard) Option {
	return func(m *Machine) {
		m.clipboard = c
	}
}

// WithPageStride sets the PageUp/PageDown distance
func WithPageStride(n int) Option {
	return func(m *Machine) {
		if n > 0 {
			m.pageStride = n
		}
	}
}

// New creates an enabled machine in the Idle state
func New(grid Grid, cb Callbacks, opts ...Option) *Machine {
	m := &Machine{
		grid:       grid,
		callbacks:  cb,
		clipboard:  OSClipboard{},
		state:      Idle,
		selection:  make(map[types.ItemID]bool),
		pageStride: DefaultPageStride,
		enabled:    true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ============================================================================
// ACCESSORS
// ============================================================================

// State returns the current mode
func (m *Machine) State() State {
	return m.state
}

// Cell returns the focused coordinate and whether one exists
func (m *Machine) Cell() (Cell, bool) {
	return m.cell, m.state != Idle
}

// Session returns the active edit, or nil
func (m *Machine) Session() *Session {
	return m.session
}

// Clipboard returns the internal clipboard entry, or nil
func (m *Machine) Clipboard() *ClipEntry {
	return m.clip
}

// Selected reports whether an item is in the selection set
func (m *Machine) Selected(id types.ItemID) bool {
	return m.selection[id]
}

// Selection returns the selected ids in grid order
func (m *Machine) Selection() []types.ItemID {
	ids := make([]types.ItemID, 0, len(m.selection))
	for row := 0; row < m.grid.ItemCount(); row++ {
		if id := m.grid.ItemID(row); m.selection[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// SetSelection replaces the selection set (e.g., from the host's input)
func (m *Machine) SetSelection(ids []types.ItemID) {
	m.selection = make(map[types.ItemID]bool, len(ids))
	for _, id := range ids {
		m.selection[id] = true
	}
}

// Enabled reports whether keys are handled
func (m *Machine) Enabled() bool {
	return m.enabled
}

// SetEnabled gates key handling
func (m *Machine) SetEnabled(enabled bool) {
	m.enabled = enabled
}

// SetInputFocused tells the machine whether the host editor owns the keyboard
func (m *Machine) SetInputFocused(focused bool) {
	m.inputFocused = focused
}

// SetGrid swaps the grid view after a re-render and clamps the focus to the
// new bounds. An edit whose item or column vanished is cancelled.
func (m *Machine) SetGrid(grid Grid) {
	m.grid = grid
	m.Sync()
}

// Sync clamps the focused cell to the current grid bounds
func (m *Machine) Sync() {
	if m.state == Idle {
		return
	}
	rows, cols := m.grid.ItemCount(), m.grid.ColumnCount()
	if rows == 0 || cols == 0 {
		m.session = nil
		m.state = Idle
		m.cell = Cell{}
		return
	}
	m.cell = m.clamp(m.cell)
	if m.session != nil {
		if m.grid.ItemID(m.cell.Row) != m.session.ItemID || m.grid.ColumnID(m.cell.Col) != m.session.ColumnID {
			slog.Debug("edit target moved, cancelling edit", "item_id", m.session.ItemID, "column_id", m.session.ColumnID)
			m.Cancel()
		}
	}
}

// ============================================================================
// POINTER ENTRY POINTS
// ============================================================================

// Focus moves the focus to a cell (click). An open edit is committed first.
func (m *Machine) Focus(c Cell) bool {
	if !m.hasCells() {
		return false
	}
	if m.state == Editing {
		m.Commit(m.session.Draft)
	}
	m.cell = m.clamp(c)
	m.state = Focused
	return true
}

// StartEdit focuses a cell and opens an edit seeded with its current value
func (m *Machine) StartEdit(c Cell) bool {
	if !m.Focus(c) {
		return false
	}
	m.beginEdit(value.String(m.currentValue()))
	return true
}

// SetDraft records the editor's current value
func (m *Machine) SetDraft(v any) {
	if m.session != nil {
		m.session.Draft = v
	}
}

// Commit ends the edit and issues a cell edit when the value changed.
// The session is cleared before the mutation is issued.
func (m *Machine) Commit(v any) {
	if m.session == nil {
		return
	}
	s := m.session
	m.endEdit()
	if value.Equal(s.Original, v) {
		return
	}
	m.emitEdit(s.ItemID, s.ColumnID, v)
}

// Cancel discards the edit and returns to Focused
func (m *Machine) Cancel() {
	if m.session == nil {
		return
	}
	m.endEdit()
}

// ============================================================================
// KEYBOARD
// ============================================================================

// Handle interprets a key. It returns false when the key was not consumed
// and should be passed on (to the host's text input, for example).
func (m *Machine) Handle(k Key) bool {
	if !m.enabled || m.busy {
		return false
	}

	if m.state == Editing {
		return m.handleEditing(k)
	}

	if k.chord('a') {
		m.selectAll()
		return true
	}

	if m.state == Idle {
		switch k.Code {
		case KeyUp, KeyDown, KeyLeft, KeyRight:
			if !m.hasCells() {
				return false
			}
			m.cell = Cell{}
			m.state = Focused
			return true
		}
		return false
	}

	return m.handleFocused(k)
}

func (m *Machine) handleEditing(k Key) bool {
	switch k.Code {
	case KeyEscape:
		m.Cancel()
		return true
	case KeyTab:
		m.Commit(m.session.Draft)
		m.tab(k.Shift)
		return true
	}
	if m.inputFocused {
		return false
	}
	if k.Code == KeyEnter {
		m.Commit(m.session.Draft)
		return true
	}
	return false
}

func (m *Machine) handleFocused(k Key) bool {
	switch {
	case k.chord('c'):
		m.copy()
		return true
	case k.chord('v'):
		m.paste()
		return true
	}

	switch k.Code {
	case KeyUp:
		m.move(-1, 0)
	case KeyDown:
		m.move(1, 0)
	case KeyLeft:
		m.move(0, -1)
	case KeyRight:
		m.move(0, 1)
	case KeyTab:
		m.tab(k.Shift)
	case KeyHome:
		if k.Command() {
			m.cell = Cell{}
		} else {
			m.cell.Col = 0
		}
	case KeyEnd:
		if k.Command() {
			m.cell = m.clamp(Cell{Row: m.grid.ItemCount() - 1, Col: m.grid.ColumnCount() - 1})
		} else {
			m.cell.Col = m.grid.ColumnCount() - 1
		}
	case KeyPageUp:
		m.move(-m.pageStride, 0)
	case KeyPageDown:
		m.move(m.pageStride, 0)
	case KeyEnter:
		if k.Shift {
			m.openDetail()
		} else {
			m.beginEdit(value.String(m.currentValue()))
		}
	case KeyF2:
		m.beginEdit(value.String(m.currentValue()))
	case KeyEscape:
		m.state = Idle
	case KeyDelete, KeyBackspace:
		m.clearCell()
	case KeySpace:
		m.toggleSelected()
	case KeyRune:
		if k.Rune == ' ' && !k.Command() {
			m.toggleSelected()
			return true
		}
		if !k.Printable() {
			return false
		}
		m.beginEdit(string(k.Rune))
	default:
		return false
	}
	return true
}

// ============================================================================
// TRANSITIONS
// ============================================================================

func (m *Machine) hasCells() bool {
	return m.grid.ItemCount() > 0 && m.grid.ColumnCount() > 0
}

func (m *Machine) clamp(c Cell) Cell {
	c.Row = min(max(c.Row, 0), max(m.grid.ItemCount()-1, 0))
	c.Col = min(max(c.Col, 0), max(m.grid.ColumnCount()-1, 0))
	return c
}

func (m *Machine) move(dRow, dCol int) {
	m.cell = m.clamp(Cell{Row: m.cell.Row + dRow, Col: m.cell.Col + dCol})
}

// tab advances one column, wrapping to the next row at the row boundary.
// It never wraps past the first or last row.
func (m *Machine) tab(back bool) {
	cols := m.grid.ColumnCount()
	rows := m.grid.ItemCount()
	c := m.cell
	if back {
		switch {
		case c.Col > 0:
			c.Col--
		case c.Row > 0:
			c.Row--
			c.Col = cols - 1
		}
	} else {
		switch {
		case c.Col < cols-1:
			c.Col++
		case c.Row < rows-1:
			c.Row++
			c.Col = 0
		}
	}
	m.cell = m.clamp(c)
}

func (m *Machine) currentValue() any {
	return m.grid.Value(m.cell.Row, m.cell.Col)
}

func (m *Machine) beginEdit(seed string) {
	itemID := m.grid.ItemID(m.cell.Row)
	columnID := m.grid.ColumnID(m.cell.Col)
	original := m.currentValue()
	m.session = &Session{
		ItemID:   itemID,
		ColumnID: columnID,
		Original: original,
		Draft:    original,
		Seed:     seed,
	}
	m.state = Editing
	m.guard(func() {
		if m.callbacks.EditStart != nil {
			m.callbacks.EditStart(itemID, columnID)
		}
	})
}

func (m *Machine) endEdit() {
	m.session = nil
	m.inputFocused = false
	m.state = Focused
	m.guard(func() {
		if m.callbacks.EditEnd != nil {
			m.callbacks.EditEnd()
		}
	})
}

func (m *Machine) emitEdit(itemID types.ItemID, columnID types.ColumnID, v any) {
	m.guard(func() {
		if m.callbacks.CellEdit != nil {
			m.callbacks.CellEdit(itemID, columnID, v)
		}
	})
}

func (m *Machine) clearCell() {
	if value.IsEmpty(m.currentValue()) {
		return
	}
	m.emitEdit(m.grid.ItemID(m.cell.Row), m.grid.ColumnID(m.cell.Col), nil)
}

func (m *Machine) openDetail() {
	id := m.grid.ItemID(m.cell.Row)
	m.guard(func() {
		if m.callbacks.OpenDetail != nil {
			m.callbacks.OpenDetail(id)
		}
	})
}

func (m *Machine) copy() {
	v := m.currentValue()
	m.clip = &ClipEntry{
		ItemID:   m.grid.ItemID(m.cell.Row),
		ColumnID: m.grid.ColumnID(m.cell.Col),
		Value:    v,
	}
	if m.clipboard != nil {
		if err := m.clipboard.WriteAll(value.String(v)); err != nil {
			slog.Debug("system clipboard write failed", "error", err)
		}
	}
}

func (m *Machine) paste() {
	var v any
	switch {
	case m.clip != nil:
		v = m.clip.Value
	case m.clipboard != nil:
		text, err := m.clipboard.ReadAll()
		if err != nil || text == "" {
			return
		}
		v = value.Parse(text)
	default:
		return
	}
	if value.Equal(m.currentValue(), v) {
		return
	}
	m.emitEdit(m.grid.ItemID(m.cell.Row), m.grid.ColumnID(m.cell.Col), v)
}

func (m *Machine) toggleSelected() {
	id := m.grid.ItemID(m.cell.Row)
	if m.selection[id] {
		delete(m.selection, id)
	} else {
		m.selection[id] = true
	}
	m.emitSelection()
}

func (m *Machine) selectAll() {
	n := m.grid.ItemCount()
	m.selection = make(map[types.ItemID]bool, n)
	for row := 0; row < n; row++ {
		m.selection[m.grid.ItemID(row)] = true
	}
	m.emitSelection()
}

func (m *Machine) emitSelection() {
	ids := m.Selection()
	m.guard(func() {
		if m.callbacks.SelectionChange != nil {
			m.callbacks.SelectionChange(ids)
		}
	})
}

// guard runs a callback with re-entrant Handle calls disabled. Guards nest:
// the outer callback stays guarded after an inner one returns.
func (m *Machine) guard(fn func()) {
	prev := m.busy
	m.busy = true
	defer func() { m.busy = prev }()
	fn()
}
