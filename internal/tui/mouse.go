package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/thenoetrevino/tabla/internal/tui/components"
	"github.com/thenoetrevino/tabla/internal/tui/state"
	"github.com/thenoetrevino/tabla/internal/types"
)

const (
	// headerLine and gridTop are screen rows: the title bar sits above the header
	headerLine = 1
	gridTop    = 2

	doubleClickWindow = 400 * time.Millisecond
	wheelStep         = 3
)

type pointerMode int

const (
	pointerNone pointerMode = iota
	pointerHeader
	pointerResize
	pointerRow
)

// pointerState tracks one press-move-release gesture and the last click
// for double click detection
type pointerState struct {
	mode   pointerMode
	column types.ColumnID
	moved  bool

	lastClick time.Time
	lastItem  types.ItemID
	lastCol   types.ColumnID
}

func (p *pointerState) reset() {
	p.mode = pointerNone
	p.column = ""
	p.moved = false
}

// displayColumns places the visible columns for the current width and
// horizontal scroll
func (m Model) displayColumns() []components.DisplayColumn {
	cols := m.engine.Columns()
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = m.engine.Width(c.ID)
	}
	room := m.uiState.Width() - components.GutterWidth
	return components.LayoutColumns(cols, widths, m.config.Grid.Cells, m.uiState.ColumnOffset(), room)
}

// revealFocusedColumn scrolls horizontally so the focused column is drawn
func (m *Model) revealFocusedColumn() {
	_, col, ok := m.engine.FocusedCell()
	if !ok {
		return
	}
	cols := m.engine.Columns()
	if len(cols) < 2 || cols[0].ID == col {
		return
	}
	widths := make([]int, 0, len(cols)-1)
	index := -1
	for i, c := range cols[1:] {
		widths = append(widths, m.config.Grid.Cells(m.engine.Width(c.ID)))
		if c.ID == col {
			index = i
		}
	}
	room := m.uiState.Width() - components.GutterWidth - m.config.Grid.Cells(m.engine.Width(cols[0].ID))
	m.uiState.RevealColumn(index, widths, room)
}

// gridPoint converts a screen position over the grid body into engine
// coordinates. x falls back to the first column over the gutter.
func (m Model) gridPoint(x, y int) (ux, uy int, ok bool) {
	if y < gridTop || y >= gridTop+m.gridHeight() {
		return 0, 0, false
	}
	uy = y - gridTop + m.engine.ScrollTop()
	if x < components.GutterWidth {
		return 0, uy, true
	}
	ux, ok = components.UnitX(m.displayColumns(), x-components.GutterWidth, m.config.Grid.CellScale)
	return ux, uy, ok
}

func (m *Model) handleMouseClick(msg tea.MouseClickMsg) tea.Cmd {
	if m.uiState.Mode() != state.NormalMode {
		return nil
	}
	mouse := msg.Mouse()
	if mouse.Button != tea.MouseLeft {
		return nil
	}
	m.pointer.reset()

	if mouse.Y == headerLine {
		m.pressHeader(mouse.X)
		return nil
	}

	ux, uy, ok := m.gridPoint(mouse.X, mouse.Y)
	if !ok {
		return nil
	}

	_, cell, onItem := m.engine.HitTest(ux, uy)
	now := m.now()
	if onItem {
		item, col := m.itemAt(cell.Row), m.columnAt(cell.Col)
		if item == m.pointer.lastItem && col == m.pointer.lastCol && now.Sub(m.pointer.lastClick) <= doubleClickWindow {
			m.engine.DoubleClick(ux, uy)
			m.pointer.lastClick = time.Time{}
			return nil
		}
		m.pointer.lastClick, m.pointer.lastItem, m.pointer.lastCol = now, item, col
	}

	m.engine.Click(ux, uy)
	if m.engine.BeginDrag(uy) {
		m.pointer.mode = pointerRow
	}
	return nil
}

// pressHeader starts a resize on a column separator, otherwise a column drag
func (m *Model) pressHeader(x int) {
	cols := m.displayColumns()
	gx := x - components.GutterWidth
	c, ok := components.At(cols, gx)
	if !ok {
		return
	}
	layout := m.engine.Layout()
	if gx == c.Separator() {
		if layout.BeginResize(c.Column.ID, m.config.Grid.Units(gx)) {
			m.pointer.mode = pointerResize
			m.pointer.column = c.Column.ID
		}
		return
	}
	layout.BeginReorder(c.Column.ID)
	m.pointer.mode = pointerHeader
	m.pointer.column = c.Column.ID
}

func (m *Model) handleMouseMotion(msg tea.MouseMotionMsg) tea.Cmd {
	mouse := msg.Mouse()
	layout := m.engine.Layout()

	switch m.pointer.mode {
	case pointerResize:
		layout.MoveResize(m.config.Grid.Units(mouse.X - components.GutterWidth))
		m.pointer.moved = true
	case pointerHeader:
		if c, ok := components.At(m.displayColumns(), mouse.X-components.GutterWidth); ok {
			if layout.OverReorder(c.Column.ID) {
				m.pointer.moved = true
			}
		}
	case pointerRow:
		if _, uy, ok := m.gridPoint(mouse.X, mouse.Y); ok {
			m.engine.DragOver(uy)
			m.pointer.moved = true
		}
	}
	return nil
}

func (m *Model) handleMouseRelease(msg tea.MouseReleaseMsg) tea.Cmd {
	layout := m.engine.Layout()

	switch m.pointer.mode {
	case pointerResize:
		layout.EndResize()
	case pointerHeader:
		if _, _, dragging := layout.Reordering(); dragging && m.pointer.moved {
			layout.EndReorder()
			break
		}
		// A click without a drag sorts
		layout.CancelReorder()
		m.engine.CycleSort(m.pointer.column)
	case pointerRow:
		if m.pointer.moved {
			m.engine.EndDrag()
		} else {
			m.engine.CancelDrag()
		}
	}
	m.pointer.reset()
	return nil
}

func (m *Model) handleMouseWheel(msg tea.MouseWheelMsg) tea.Cmd {
	if m.uiState.Mode() == state.DetailMode && m.detail != nil {
		vp, cmd := m.detail.Update(msg)
		m.detail = &vp
		return cmd
	}
	switch msg.Mouse().Button {
	case tea.MouseWheelUp:
		m.engine.ScrollBy(-wheelStep)
	case tea.MouseWheelDown:
		m.engine.ScrollBy(wheelStep)
	case tea.MouseWheelLeft:
		m.uiState.SetColumnOffset(m.uiState.ColumnOffset() - 1)
	case tea.MouseWheelRight:
		m.uiState.SetColumnOffset(m.uiState.ColumnOffset() + 1)
		m.uiState.ClampColumnOffset(len(m.engine.Columns()) - 1)
	}
	return nil
}

func (m Model) itemAt(row int) types.ItemID {
	if it := m.engine.Index().ItemAt(row); it != nil {
		return it.ID
	}
	return ""
}

func (m Model) columnAt(col int) types.ColumnID {
	ids := m.engine.Layout().IDs()
	if col < 0 || col >= len(ids) {
		return ""
	}
	return ids[col]
}
