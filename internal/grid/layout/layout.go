// Package layout owns column widths and column order for the grid: local
// width overrides during a resize gesture, and header drag or keyboard
// reorder with a pinned first column.
package layout

import (
	"log/slog"
	"slices"
	"sort"

	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/types"
)

// Callbacks fire once per completed gesture. Nil callbacks are skipped.
type Callbacks struct {
	ColumnResize  func(columnID types.ColumnID, width int)
	ColumnReorder func(ids []types.ColumnID)
}

type resizeGesture struct {
	columnID    types.ColumnID
	startX      int
	startWidth  int
	hadOverride bool
	prevWidth   int
	width       int
}

type reorderGesture struct {
	columnID types.ColumnID
	over     types.ColumnID
}

// Manager tracks the visible columns and their effective widths.
// Not safe for concurrent use.
type Manager struct {
	columns      []models.Column
	overrides    map[types.ColumnID]int
	order        []types.ColumnID
	defaultWidth int
	callbacks    Callbacks

	resize  *resizeGesture
	reorder *reorderGesture
}

// New creates a Manager. A non-positive defaultWidth uses models.DefaultColumnWidth.
func New(defaultWidth int, cb Callbacks) *Manager {
	if defaultWidth <= 0 {
		defaultWidth = models.DefaultColumnWidth
	}
	return &Manager{
		overrides:    make(map[types.ColumnID]int),
		defaultWidth: models.ClampWidth(defaultWidth),
		callbacks:    cb,
	}
}

// SetColumns replaces the column list with fresh data. Hidden columns are
// dropped. Local overrides that the data now agrees with are released.
func (m *Manager) SetColumns(cols []models.Column) {
	visible := make([]models.Column, 0, len(cols))
	for _, c := range cols {
		if c.Visible {
			visible = append(visible, c)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		if visible[i].Position != visible[j].Position {
			return visible[i].Position < visible[j].Position
		}
		return visible[i].ID < visible[j].ID
	})
	m.columns = visible

	for id, w := range m.overrides {
		if active, _ := m.Resizing(); active == id {
			continue
		}
		if c, ok := m.column(id); !ok || models.ClampWidth(c.Width) == w {
			delete(m.overrides, id)
		}
	}

	if m.order != nil {
		persisted := m.persistedOrder()
		if slices.Equal(persisted, m.order) || !sameSet(persisted, m.order) {
			m.order = nil
		}
	}
}

// Columns returns the visible columns in display order
func (m *Manager) Columns() []models.Column {
	ids := m.IDs()
	out := make([]models.Column, 0, len(ids))
	for _, id := range ids {
		if c, ok := m.column(id); ok {
			out = append(out, c)
		}
	}
	return out
}

// IDs returns the visible column ids in display order
func (m *Manager) IDs() []types.ColumnID {
	if m.order != nil {
		return slices.Clone(m.order)
	}
	return m.persistedOrder()
}

// Pinned returns the sticky first column, if any
func (m *Manager) Pinned() (types.ColumnID, bool) {
	ids := m.IDs()
	if len(ids) == 0 {
		return "", false
	}
	return ids[0], true
}

// Width returns the effective width: local override, then persisted width,
// then the default, clamped to the allowed range.
func (m *Manager) Width(id types.ColumnID) int {
	if w, ok := m.overrides[id]; ok {
		return w
	}
	c, ok := m.column(id)
	if !ok || c.Width == 0 {
		return m.defaultWidth
	}
	return models.ClampWidth(c.Width)
}

// TotalWidth sums the effective widths of the visible columns
func (m *Manager) TotalWidth() int {
	total := 0
	for _, id := range m.IDs() {
		total += m.Width(id)
	}
	return total
}

// ColumnAt maps an x offset from the grid's left edge to a column
func (m *Manager) ColumnAt(x int) (types.ColumnID, bool) {
	if x < 0 {
		return "", false
	}
	left := 0
	for _, id := range m.IDs() {
		w := m.Width(id)
		if x < left+w {
			return id, true
		}
		left += w
	}
	return "", false
}

// EdgeAt reports the column whose right edge lies within tolerance of x
func (m *Manager) EdgeAt(x, tolerance int) (types.ColumnID, bool) {
	right := 0
	for _, id := range m.IDs() {
		right += m.Width(id)
		if x >= right-tolerance && x <= right+tolerance {
			return id, true
		}
	}
	return "", false
}

// ResetWidth drops a local override, e.g. after a failed resize mutation
func (m *Manager) ResetWidth(id types.ColumnID) {
	delete(m.overrides, id)
}

// ResetOrder drops the local column order, e.g. after a failed reorder mutation
func (m *Manager) ResetOrder() {
	m.order = nil
}

// ============================================================================
// RESIZE GESTURE
// ============================================================================

// BeginResize captures the start x and start width of a column
func (m *Manager) BeginResize(id types.ColumnID, x int) bool {
	if _, ok := m.column(id); !ok {
		return false
	}
	prev, had := m.overrides[id]
	start := m.Width(id)
	m.resize = &resizeGesture{
		columnID:    id,
		startX:      x,
		startWidth:  start,
		hadOverride: had,
		prevWidth:   prev,
		width:       start,
	}
	return true
}

// Resizing returns the column being resized
func (m *Manager) Resizing() (types.ColumnID, bool) {
	if m.resize == nil {
		return "", false
	}
	return m.resize.columnID, true
}

// MoveResize applies clamp(startWidth + (x - startX)) as a local override.
// No callback fires until EndResize.
func (m *Manager) MoveResize(x int) (int, bool) {
	g := m.resize
	if g == nil {
		return 0, false
	}
	g.width = models.ClampWidth(g.startWidth + (x - g.startX))
	m.overrides[g.columnID] = g.width
	return g.width, true
}

// EndResize finishes the gesture and reports the final width exactly once
func (m *Manager) EndResize() {
	g := m.resize
	if g == nil {
		return
	}
	m.resize = nil
	if g.width == g.startWidth {
		if !g.hadOverride {
			delete(m.overrides, g.columnID)
		}
		return
	}
	m.overrides[g.columnID] = g.width
	slog.Debug("column resized", "column_id", g.columnID, "width", g.width)
	if m.callbacks.ColumnResize != nil {
		m.callbacks.ColumnResize(g.columnID, g.width)
	}
}

// CancelResize restores the pre-gesture width with no callback
func (m *Manager) CancelResize() {
	g := m.resize
	if g == nil {
		return
	}
	m.resize = nil
	if g.hadOverride {
		m.overrides[g.columnID] = g.prevWidth
	} else {
		delete(m.overrides, g.columnID)
	}
}

// ============================================================================
// REORDER GESTURE
// ============================================================================

// BeginReorder starts dragging a column header. The pinned column cannot move.
func (m *Manager) BeginReorder(id types.ColumnID) bool {
	if pinned, ok := m.Pinned(); !ok || pinned == id {
		return false
	}
	if _, ok := m.column(id); !ok {
		return false
	}
	m.reorder = &reorderGesture{columnID: id, over: id}
	return true
}

// Reordering returns the dragged column and the slot it hovers
func (m *Manager) Reordering() (dragged, over types.ColumnID, ok bool) {
	if m.reorder == nil {
		return "", "", false
	}
	return m.reorder.columnID, m.reorder.over, true
}

// OverReorder records the hovered header. Hovering the pinned column is
// ignored. Reports whether the hover target changed.
func (m *Manager) OverReorder(target types.ColumnID) bool {
	g := m.reorder
	if g == nil || g.over == target {
		return false
	}
	if pinned, _ := m.Pinned(); pinned == target {
		return false
	}
	if _, ok := m.column(target); !ok {
		return false
	}
	g.over = target
	return true
}

// EndReorder drops the dragged column into the hovered slot
func (m *Manager) EndReorder() {
	g := m.reorder
	if g == nil {
		return
	}
	m.reorder = nil
	if g.over == g.columnID {
		return
	}
	m.apply(g.columnID, g.over)
}

// CancelReorder abandons the gesture with no callback
func (m *Manager) CancelReorder() {
	m.reorder = nil
}

// KeyboardReorder moves a column one or more slots left (negative delta) or
// right among the non-pinned columns.
func (m *Manager) KeyboardReorder(id types.ColumnID, delta int) bool {
	ids := m.IDs()
	if len(ids) < 2 || id == ids[0] || delta == 0 {
		return false
	}
	rest := ids[1:]
	from := slices.Index(rest, id)
	if from < 0 {
		return false
	}
	to := min(max(from+delta, 0), len(rest)-1)
	if to == from {
		return false
	}
	return m.apply(id, rest[to])
}

// apply moves a column into the slot of another among the non-pinned
// columns, prepends the pinned column and emits the full visible order.
func (m *Manager) apply(id, target types.ColumnID) bool {
	ids := m.IDs()
	pinned, rest := ids[0], ids[1:]
	from := slices.Index(rest, id)
	to := slices.Index(rest, target)
	if from < 0 || to < 0 || from == to {
		return false
	}
	moved := append([]types.ColumnID{pinned}, ArrayMove(rest, from, to)...)
	m.order = moved
	slog.Debug("columns reordered", "column_id", id, "order", moved)
	if m.callbacks.ColumnReorder != nil {
		m.callbacks.ColumnReorder(slices.Clone(moved))
	}
	return true
}

// ArrayMove returns a copy of s with the element at from moved to index to
func ArrayMove[T any](s []T, from, to int) []T {
	out := slices.Clone(s)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}
	v := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, v)
}

func (m *Manager) column(id types.ColumnID) (models.Column, bool) {
	for _, c := range m.columns {
		if c.ID == id {
			return c, true
		}
	}
	return models.Column{}, false
}

func (m *Manager) persistedOrder() []types.ColumnID {
	ids := make([]types.ColumnID, len(m.columns))
	for i, c := range m.columns {
		ids[i] = c.ID
	}
	return ids
}

func sameSet(a, b []types.ColumnID) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[types.ColumnID]bool, len(a))
	for _, id := range a {
		seen[id] = true
	}
	for _, id := range b {
		if !seen[id] {
			return false
		}
	}
	return true
}
