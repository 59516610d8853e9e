package tui

import (
	"errors"
	"fmt"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"github.com/thenoetrevino/tabla/internal/grid/edit"
	"github.com/thenoetrevino/tabla/internal/grid/focus"
	"github.com/thenoetrevino/tabla/internal/grid/project"
	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/tui/state"
	"github.com/thenoetrevino/tabla/internal/types"
)

// columnStep is how many terminal columns one widen or narrow key changes
const columnStep = 2

// handleKey dispatches key presses to the handler of the current mode
func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch m.uiState.Mode() {
	case state.EditMode:
		return m.handleEditKey(msg)
	case state.DetailMode:
		return m.handleDetailKey(msg)
	case state.HelpMode:
		return m.handleHelpKey(msg)
	case state.FormMode:
		// Form already closed
		m.uiState.SetMode(state.NormalMode)
	}
	return m.handleNormalMode(msg)
}

// ============================================================================
// NORMAL MODE HANDLERS
// ============================================================================

// handleNormalMode runs application bindings first and hands every other
// key to the grid engine
func (m *Model) handleNormalMode(msg tea.KeyPressMsg) tea.Cmd {
	km := m.config.KeyMappings

	switch msg.String() {
	case km.Quit:
		return tea.Quit
	case km.ShowHelp:
		m.uiState.SetMode(state.HelpMode)
		return nil
	case km.AddItem:
		return m.openItemForm()
	case km.DeleteItem:
		return m.openDeleteForm()
	case km.MoveItemUp:
		m.handleMoveItem(-1)
		return nil
	case km.MoveItemDown:
		m.handleMoveItem(1)
		return nil
	case km.Undo:
		m.handleUndo()
		return nil
	case km.MoveColumnLeft:
		m.engine.MoveFocusedColumn(-1)
		return nil
	case km.MoveColumnRight:
		m.engine.MoveFocusedColumn(1)
		return nil
	case km.WidenColumn:
		m.engine.ResizeFocusedColumn(m.config.Grid.Units(columnStep))
		return nil
	case km.NarrowColumn:
		m.engine.ResizeFocusedColumn(-m.config.Grid.Units(columnStep))
		return nil
	case km.Sort:
		m.handleSort()
		return nil
	case km.ToggleGroup:
		m.engine.ToggleFocusedGroup()
		return nil
	case km.CycleGroupBy:
		m.handleCycleGroupBy()
		return nil
	case km.Filter:
		return m.openFilterForm()
	case km.ClearFilter:
		m.handleClearFilter()
		return nil
	case km.NextBoard:
		return m.handleSwitchBoard(1)
	case km.PrevBoard:
		return m.handleSwitchBoard(-1)
	case km.Refresh:
		if m.board == nil {
			return loadBoard(m.ctx, m.app.BoardService, "")
		}
		return reloadBoard(m.ctx, m.app.BoardService, m.board.ID)
	case "esc":
		m.engine.CancelGestures()
		m.pointer.reset()
	}

	if k, ok := toFocusKey(msg); ok {
		m.engine.HandleKey(k)
	}
	return nil
}

// handleMoveItem is the keyboard alternative to dragging a row
func (m *Model) handleMoveItem(delta int) {
	if m.engine.MoveFocusedItem(delta) {
		return
	}
	proj := m.engine.Projection()
	if proj.Sort.Active() || proj.Grouped() {
		m.notificationState.Add(state.LevelWarning, "Clear the sort and grouping to reorder items by hand")
	}
}

func (m *Model) handleUndo() {
	err := m.engine.Undo()
	switch {
	case errors.Is(err, edit.ErrNothingToUndo):
		m.notificationState.Add(state.LevelInfo, "Nothing to undo")
	case err != nil:
		m.notifyError("undo", err)
	}
}

// handleSort cycles the sort on the focused column, or the name column when
// nothing is focused
func (m *Model) handleSort() {
	col := models.NameColumnID
	if _, c, ok := m.engine.FocusedCell(); ok {
		col = c
	}
	s := m.engine.CycleSort(col)
	if !s.Active() {
		m.notificationState.Add(state.LevelInfo, "Sort cleared")
		return
	}
	m.notificationState.Add(state.LevelInfo, fmt.Sprintf("Sorted by %s, %s", m.columnName(s.ColumnID), s.Direction))
}

// groupableColumns are the columns whose values make sensible buckets
func (m Model) groupableColumns() []models.Column {
	var out []models.Column
	for _, c := range m.engine.Columns() {
		if c.ID == models.NameColumnID || c.Type == models.ColumnLongText {
			continue
		}
		out = append(out, c)
	}
	return out
}

// handleCycleGroupBy steps through persisted groups and then each groupable
// column
func (m *Model) handleCycleGroupBy() {
	cols := m.groupableColumns()
	proj := m.engine.Projection()

	next := types.ColumnID("")
	if !proj.Grouped() {
		if len(cols) > 0 {
			next = cols[0].ID
		}
	} else {
		for i, c := range cols {
			if c.ID == proj.GroupBy && i+1 < len(cols) {
				next = cols[i+1].ID
			}
		}
	}

	proj.GroupBy = next
	m.engine.SetProjection(proj)
	if next == "" {
		m.notificationState.Add(state.LevelInfo, "Grouped by board groups")
		return
	}
	m.notificationState.Add(state.LevelInfo, "Grouped by "+m.columnName(next))
}

func (m *Model) handleClearFilter() {
	proj := m.engine.Projection()
	if len(proj.Filters) == 0 && proj.Search == "" {
		return
	}
	proj.Filters = nil
	proj.Search = ""
	proj.Match = ""
	m.engine.SetProjection(proj)
	m.notificationState.Add(state.LevelInfo, "Filters cleared")
}

// handleSwitchBoard moves to the next or previous board in list order
func (m *Model) handleSwitchBoard(delta int) tea.Cmd {
	if len(m.boards) < 2 || m.board == nil {
		return nil
	}
	current := 0
	for i, b := range m.boards {
		if b.ID == m.board.ID {
			current = i
		}
	}
	next := (current + delta + len(m.boards)) % len(m.boards)
	m.engine.CancelGestures()
	if m.engine.FocusState() == focus.Editing {
		m.engine.Cancel()
	}
	return loadBoard(m.ctx, m.app.BoardService, strconv.Itoa(m.boards[next].ID.ToInt()))
}

// columnName returns a column's display name, falling back to its id
func (m Model) columnName(id types.ColumnID) string {
	for _, c := range m.engine.AllColumns() {
		if c.ID == id {
			return c.Name
		}
	}
	return string(id)
}

// columnType returns a column's type, text when unknown
func (m Model) columnType(id types.ColumnID) models.ColumnType {
	if t, ok := project.ColumnType(m.engine.AllColumns(), id); ok {
		return t
	}
	return models.ColumnText
}
