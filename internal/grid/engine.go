// Package grid is the grouped, virtualized grid engine. An Engine turns
// items, groups and columns into a flattened row list, windows it for the
// viewport, and routes keyboard, pointer and drag input through the focus
// machine, column layout and drag resolver. Edits and moves are applied to a
// local cache optimistically and handed back to the host as edit.Op values.
package grid

import (
	"log/slog"
	"time"

	"github.com/thenoetrevino/tabla/internal/grid/drag"
	"github.com/thenoetrevino/tabla/internal/grid/edit"
	"github.com/thenoetrevino/tabla/internal/grid/focus"
	"github.com/thenoetrevino/tabla/internal/grid/layout"
	"github.com/thenoetrevino/tabla/internal/grid/project"
	"github.com/thenoetrevino/tabla/internal/grid/rows"
	"github.com/thenoetrevino/tabla/internal/grid/window"
	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/types"
)

// Config sizes the engine
type Config struct {
	Heights       rows.Heights
	Overscan      int
	PageStride    int
	DefaultWidth  int
	ColumnHeaders bool
	UndoDepth     int

	// Self is the local user, left out of presence
	Self        types.UserID
	PresenceTTL time.Duration
}

// DefaultConfig returns browser-style pixel sizing
func DefaultConfig() Config {
	return Config{
		Heights:      rows.DefaultHeights(),
		Overscan:     5,
		PageStride:   focus.DefaultPageStride,
		DefaultWidth: models.DefaultColumnWidth,
		UndoDepth:    edit.DefaultUndoDepth,
		PresenceTTL:  edit.DefaultPresenceTTL,
	}
}

// Callbacks notify the host of user actions. Nil callbacks are skipped.
type Callbacks struct {
	OnCellEdit            func(itemID types.ItemID, columnID types.ColumnID, v any)
	OnItemMove            func(itemID types.ItemID, targetGroupID types.GroupID)
	OnItemReorder         func(itemID, targetItemID types.ItemID, side drag.Side)
	OnColumnResize        func(columnID types.ColumnID, width int)
	OnColumnReorder       func(ids []types.ColumnID)
	OnGroupCollapseToggle func(groupID types.GroupID, collapsed bool)
	OnSelectionChange     func(ids []types.ItemID)
	OnCellEditStart       func(itemID types.ItemID, columnID types.ColumnID)
	OnCellEditEnd         func()
	OnSort                func(columnID types.ColumnID)
	OnOpenDetail          func(itemID types.ItemID)
}

// Engine is not safe for concurrent use apart from edit.Op.Commit, which
// may run on any goroutine. Call Refresh after an Op settles.
type Engine struct {
	cfg       Config
	callbacks Callbacks

	cache  *edit.Cache
	coord  *edit.Coordinator
	focus  *focus.Machine
	layout *layout.Manager
	drag   *drag.Resolver
	calc   *window.Calculator

	groups    []models.Group
	columns   []models.Column
	collapsed map[types.GroupID]bool
	proj      project.Config
	presence  []models.Presence
	presMap   edit.PresenceMap

	result project.Result
	rows   []rows.Row
	index  *rows.Index

	scrollTop int
	viewport  int

	pending []*edit.Op
}

// Option configures an Engine
type Option func(*options)

type options struct {
	mutator   edit.Mutator
	clipboard focus.SystemClipboard
}

// WithMutator persists edits and moves. Without one, edits only reach the
// local cache and the callbacks.
func WithMutator(m edit.Mutator) Option {
	return func(o *options) { o.mutator = m }
}

// WithClipboard replaces the system clipboard
func WithClipboard(c focus.SystemClipboard) Option {
	return func(o *options) { o.clipboard = c }
}

// New creates an empty engine
func New(cfg Config, cb Callbacks, opts ...Option) *Engine {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if cfg.Heights == (rows.Heights{}) {
		cfg.Heights = rows.DefaultHeights()
	}
	if cfg.UndoDepth <= 0 {
		cfg.UndoDepth = edit.DefaultUndoDepth
	}
	if cfg.PresenceTTL <= 0 {
		cfg.PresenceTTL = edit.DefaultPresenceTTL
	}

	e := &Engine{
		cfg:       cfg,
		callbacks: cb,
		cache:     edit.NewCache(),
		drag:      drag.NewResolver(),
		calc:      window.New(cfg.Heights.Item),
		collapsed: make(map[types.GroupID]bool),
		presMap:   edit.PresenceMap{},
	}
	if o.mutator != nil {
		e.coord = edit.NewCoordinator(e.cache, o.mutator, edit.WithUndoDepth(cfg.UndoDepth))
	}
	e.layout = layout.New(cfg.DefaultWidth, layout.Callbacks{
		ColumnResize:  cb.OnColumnResize,
		ColumnReorder: cb.OnColumnReorder,
	})

	focusOpts := []focus.Option{focus.WithPageStride(cfg.PageStride)}
	if o.clipboard != nil {
		focusOpts = append(focusOpts, focus.WithClipboard(o.clipboard))
	}
	e.focus = focus.New(gridView{e}, focus.Callbacks{
		CellEdit:        e.cellEdit,
		EditStart:       cb.OnCellEditStart,
		EditEnd:         cb.OnCellEditEnd,
		OpenDetail:      cb.OnOpenDetail,
		SelectionChange: cb.OnSelectionChange,
	}, focusOpts...)

	e.rebuild()
	return e
}

// ============================================================================
// INPUTS
// ============================================================================

// SetData installs a fresh snapshot. Persisted collapse flags are mirrored
// into the local collapsed set.
func (e *Engine) SetData(items []models.Item, groups []models.Group, columns []models.Column) {
	e.cache.Replace(items)
	e.groups = append([]models.Group(nil), groups...)
	e.columns = append([]models.Column(nil), columns...)
	for _, g := range groups {
		e.collapsed[g.ID] = g.Collapsed
	}
	e.layout.SetColumns(columns)
	e.rebuild()
}

// Refresh re-derives rows from the cache, e.g. after an Op settled or
// rolled back
func (e *Engine) Refresh() {
	e.rebuild()
}

// SetProjection replaces the grouping, filter and sort configuration
func (e *Engine) SetProjection(cfg project.Config) {
	e.proj = cfg
	e.rebuild()
}

// Projection returns the active grouping, filter and sort configuration
func (e *Engine) Projection() project.Config {
	return e.proj
}

// SetPresence merges remote presence entries
func (e *Engine) SetPresence(entries []models.Presence, now time.Time) {
	e.presence = append(e.presence[:0], entries...)
	e.presMap = edit.MergePresence(e.presence, e.cfg.Self, now, e.cfg.PresenceTTL)
}

// ExpirePresence drops entries older than the TTL
func (e *Engine) ExpirePresence(now time.Time) {
	e.presMap = edit.MergePresence(e.presence, e.cfg.Self, now, e.cfg.PresenceTTL)
}

// SetSelection replaces the selected item set
func (e *Engine) SetSelection(ids []types.ItemID) {
	e.focus.SetSelection(ids)
}

// SetEnabled gates keyboard handling
func (e *Engine) SetEnabled(enabled bool) {
	e.focus.SetEnabled(enabled)
}

// SetInputFocused tells the engine the host's cell editor owns the keyboard
func (e *Engine) SetInputFocused(focused bool) {
	e.focus.SetInputFocused(focused)
}

// SetViewport sets the visible height in the same units as the row heights
func (e *Engine) SetViewport(height int) {
	e.viewport = max(height, 0)
	e.scrollTop = e.calc.Clamp(e.scrollTop, e.viewport)
}

// ============================================================================
// DERIVED STATE
// ============================================================================

func (e *Engine) rebuild() {
	items := e.cache.Items()
	e.result = project.Project(items, e.groups, e.layout.Columns(), e.proj)

	groups := make([]*models.Group, len(e.result.Groups))
	for i := range e.result.Groups {
		groups[i] = &e.result.Groups[i]
	}
	itemPtrs := make([]*models.Item, len(e.result.Items))
	for i := range e.result.Items {
		itemPtrs[i] = &e.result.Items[i]
	}

	e.rows = rows.Flatten(rows.Input{
		Groups:            groups,
		Items:             itemPtrs,
		Collapsed:         e.collapsed,
		Heights:           e.cfg.Heights,
		ColumnHeaders:     e.cfg.ColumnHeaders,
		PreserveItemOrder: e.result.PreserveItemOrder,
		Assignments:       e.result.Assignments,
	})
	e.index = rows.NewIndex(e.rows)
	e.calc.SetRows(e.rows)
	e.scrollTop = e.calc.Clamp(e.scrollTop, e.viewport)
	e.focus.Sync()
}

// Rows returns the flattened row list
func (e *Engine) Rows() []rows.Row {
	return e.rows
}

// Index returns the id lookup tables for the current rows
func (e *Engine) Index() *rows.Index {
	return e.index
}

// Window returns the rows to render for the current scroll position
func (e *Engine) Window() window.Window {
	return e.calc.Range(e.scrollTop, e.viewport, e.cfg.Overscan)
}

// RowTop returns the content-space y of a row
func (e *Engine) RowTop(i int) int {
	return e.calc.Top(i)
}

// ScrollTop returns the scroll offset
func (e *Engine) ScrollTop() int {
	return e.scrollTop
}

// ScrollBy scrolls by delta, clamped to the content
func (e *Engine) ScrollBy(delta int) {
	e.scrollTop = e.calc.Clamp(e.scrollTop+delta, e.viewport)
}

// Hidden counts items removed by filters or search
func (e *Engine) Hidden() int {
	return e.result.Hidden
}

// Columns returns the visible columns in display order
func (e *Engine) Columns() []models.Column {
	return e.layout.Columns()
}

// AllColumns returns every column including hidden ones
func (e *Engine) AllColumns() []models.Column {
	return e.columns
}

// Width returns a column's effective width
func (e *Engine) Width(id types.ColumnID) int {
	return e.layout.Width(id)
}

// Layout exposes the column layout manager for pointer gestures
func (e *Engine) Layout() *layout.Manager {
	return e.layout
}

// Item returns an item from the cache
func (e *Engine) Item(id types.ItemID) (models.Item, bool) {
	return e.cache.Get(id)
}

// Collapsed reports whether a group is collapsed
func (e *Engine) Collapsed(id types.GroupID) bool {
	return e.collapsed[id]
}

// Presence returns the collaborators editing a cell
func (e *Engine) Presence(itemID types.ItemID, columnID types.ColumnID) []models.Presence {
	return e.presMap.At(itemID, columnID)
}

// FocusState returns the focus machine's mode
func (e *Engine) FocusState() focus.State {
	return e.focus.State()
}

// FocusedCell returns the focused item and column
func (e *Engine) FocusedCell() (types.ItemID, types.ColumnID, bool) {
	c, ok := e.focus.Cell()
	if !ok {
		return "", "", false
	}
	v := gridView{e}
	return v.ItemID(c.Row), v.ColumnID(c.Col), true
}

// Session returns the active edit session, or nil
func (e *Engine) Session() *focus.Session {
	return e.focus.Session()
}

// Selected reports whether an item is selected
func (e *Engine) Selected(id types.ItemID) bool {
	return e.focus.Selected(id)
}

// Selection returns the selected item ids in display order
func (e *Engine) Selection() []types.ItemID {
	return e.focus.Selection()
}

// ============================================================================
// KEYBOARD
// ============================================================================

// HandleKey routes a key to the focus machine and keeps the focused row in
// view. It reports whether the key was consumed.
func (e *Engine) HandleKey(k focus.Key) bool {
	handled := e.focus.Handle(k)
	if handled {
		e.revealFocus()
	}
	return handled
}

// Commit ends the edit session with the editor's value
func (e *Engine) Commit(v any) {
	e.focus.Commit(v)
}

// Cancel discards the edit session
func (e *Engine) Cancel() {
	e.focus.Cancel()
}

// SetDraft records the editor's current value
func (e *Engine) SetDraft(v any) {
	e.focus.SetDraft(v)
}

func (e *Engine) revealFocus() {
	c, ok := e.focus.Cell()
	if !ok {
		return
	}
	ri, ok := e.index.ItemRowIndex(c.Row)
	if !ok {
		return
	}
	e.scrollTop = e.calc.ScrollTo(ri, e.scrollTop, e.viewport)
}

// ToggleGroup flips a group's collapsed flag
func (e *Engine) ToggleGroup(id types.GroupID) {
	collapsed := !e.collapsed[id]
	e.collapsed[id] = collapsed
	if e.callbacks.OnGroupCollapseToggle != nil {
		e.callbacks.OnGroupCollapseToggle(id, collapsed)
	}
	e.rebuild()
}

// ToggleFocusedGroup collapses or expands the group of the focused item
func (e *Engine) ToggleFocusedGroup() bool {
	itemID, _, ok := e.FocusedCell()
	if !ok {
		return false
	}
	gid, ok := e.index.GroupOf(itemID)
	if !ok {
		return false
	}
	e.ToggleGroup(gid)
	return true
}

// CycleSort advances the sort on a column: ascending, descending, none
func (e *Engine) CycleSort(col types.ColumnID) project.SortState {
	e.proj.Sort = e.proj.Sort.Cycle(col)
	if e.callbacks.OnSort != nil {
		e.callbacks.OnSort(col)
	}
	e.rebuild()
	return e.proj.Sort
}

// MoveFocusedItem moves the focused item up or down within its group, the
// keyboard alternative to dragging
func (e *Engine) MoveFocusedItem(delta int) bool {
	if !e.reorderable() {
		return false
	}
	itemID, _, ok := e.FocusedCell()
	if !ok {
		return false
	}
	gid, _ := e.index.GroupOf(itemID)
	out := drag.MoveBy(itemID, gid, delta, e.index.GroupItems(gid))
	if out.Kind == drag.None {
		return false
	}
	e.applyDrop(out)
	if i, ok := e.index.ItemIndex(itemID); ok {
		_, col, _ := e.FocusedCell()
		e.focus.Focus(focus.Cell{Row: i, Col: e.columnIndex(col)})
		e.revealFocus()
	}
	return true
}

// MoveFocusedColumn moves the focused column left or right
func (e *Engine) MoveFocusedColumn(delta int) bool {
	_, col, ok := e.FocusedCell()
	if !ok || !e.layout.KeyboardReorder(col, delta) {
		return false
	}
	c, _ := e.focus.Cell()
	e.focus.Focus(focus.Cell{Row: c.Row, Col: e.columnIndex(col)})
	return true
}

// ResizeFocusedColumn widens or narrows the focused column by delta
func (e *Engine) ResizeFocusedColumn(delta int) bool {
	_, col, ok := e.FocusedCell()
	if !ok || !e.layout.BeginResize(col, 0) {
		return false
	}
	e.layout.MoveResize(delta)
	e.layout.EndResize()
	return true
}

// Undo prepares reverting the most recent applied edit
func (e *Engine) Undo() error {
	if e.coord == nil {
		return edit.ErrNothingToUndo
	}
	op, err := e.coord.PrepareUndo()
	if err != nil {
		return err
	}
	e.queue(op)
	e.rebuild()
	return nil
}

// ============================================================================
// POINTER
// ============================================================================

// HitTest maps a content-space point to a row index and, for item rows,
// the item-only row and column index. x is relative to the grid's left edge.
func (e *Engine) HitTest(x, y int) (rowIndex int, cell focus.Cell, onItem bool) {
	rowIndex = e.calc.RowAt(y)
	if rowIndex < 0 {
		return -1, focus.Cell{}, false
	}
	r := e.rows[rowIndex]
	if r.Kind != rows.ItemRow {
		return rowIndex, focus.Cell{}, false
	}
	col, ok := e.layout.ColumnAt(x)
	if !ok {
		return rowIndex, focus.Cell{}, false
	}
	itemIndex, _ := e.index.ItemIndex(r.Item.ID)
	return rowIndex, focus.Cell{Row: itemIndex, Col: e.columnIndex(col)}, true
}

// Click focuses the cell under a point, or toggles the group of a header
func (e *Engine) Click(x, y int) {
	ri, cell, onItem := e.HitTest(x, y)
	if ri < 0 {
		return
	}
	if onItem {
		e.focus.Focus(cell)
		return
	}
	if r := e.rows[ri]; r.Kind == rows.GroupHeader {
		e.ToggleGroup(r.GroupID)
	}
}

// DoubleClick opens an editor on the cell under a point
func (e *Engine) DoubleClick(x, y int) {
	if _, cell, onItem := e.HitTest(x, y); onItem {
		e.focus.StartEdit(cell)
	}
}

// BeginDrag starts dragging the item row under y
func (e *Engine) BeginDrag(y int) bool {
	ri := e.calc.RowAt(y)
	if ri < 0 || e.rows[ri].Kind != rows.ItemRow {
		return false
	}
	r := e.rows[ri]
	e.drag.Start(r.Item.ID, r.GroupID)
	return true
}

// DragOver updates the drop target for a pointer at y. It reports whether
// the target changed.
func (e *Engine) DragOver(y int) (drag.Hover, bool) {
	if !e.drag.Active() {
		return drag.Hover{}, false
	}
	ri := e.calc.RowAt(y)
	if ri < 0 {
		return e.drag.Hover()
	}
	r := e.rows[ri]
	if r.Kind == rows.ItemRow {
		rect := drag.Rect{Top: e.calc.Top(ri), Height: e.calc.Bottom(ri) - e.calc.Top(ri)}
		return e.drag.Over(drag.Target{ItemID: r.Item.ID, GroupID: r.GroupID}, y, rect)
	}
	return e.drag.OverGroup(r.GroupID)
}

// DragHover returns the current drop target
func (e *Engine) DragHover() (drag.Hover, bool) {
	return e.drag.Hover()
}

// Dragging returns the dragged item
func (e *Engine) Dragging() (types.ItemID, bool) {
	if !e.drag.Active() {
		return "", false
	}
	id, _ := e.drag.Dragged()
	return id, true
}

// EndDrag drops the dragged item on the current target
func (e *Engine) EndDrag() {
	h, ok := e.drag.Hover()
	if !ok {
		e.drag.End()
		return
	}
	out := e.drag.Drop(e.index.GroupItems(h.GroupID))
	if out.Kind == drag.Reorder && !e.reorderable() {
		return
	}
	e.applyDrop(out)
}

// CancelDrag abandons the drag with no effect
func (e *Engine) CancelDrag() {
	e.drag.Cancel()
}

// CancelGestures clears every transient pointer state
func (e *Engine) CancelGestures() {
	e.drag.Cancel()
	e.layout.CancelResize()
	e.layout.CancelReorder()
}

// ============================================================================
// MUTATIONS
// ============================================================================

// Ops drains the prepared optimistic changes. The host commits each one,
// typically off the UI goroutine, and calls Refresh afterwards.
func (e *Engine) Ops() []*edit.Op {
	ops := e.pending
	e.pending = nil
	return ops
}

func (e *Engine) queue(op *edit.Op) {
	if op != nil {
		e.pending = append(e.pending, op)
	}
}

func (e *Engine) cellEdit(itemID types.ItemID, columnID types.ColumnID, v any) {
	if e.callbacks.OnCellEdit != nil {
		e.callbacks.OnCellEdit(itemID, columnID, v)
	}
	if e.coord == nil {
		return
	}
	op, err := e.coord.PrepareCell(itemID, columnID, v)
	if err != nil {
		slog.Warn("cell edit rejected", "item_id", itemID, "column_id", columnID, "error", err)
		return
	}
	e.queue(op)
	e.rebuild()
}

// applyDrop dispatches a drag outcome. Moving between value buckets edits
// the grouped column instead of the item's persisted group.
func (e *Engine) applyDrop(out drag.Outcome) {
	switch out.Kind {
	case drag.None:
		return
	case drag.Move:
		if e.proj.Grouped() {
			e.moveToBucket(out.ItemID, out.GroupID)
			return
		}
		if e.callbacks.OnItemMove != nil {
			e.callbacks.OnItemMove(out.ItemID, out.GroupID)
		}
	case drag.Reorder:
		if e.callbacks.OnItemReorder != nil {
			e.callbacks.OnItemReorder(out.ItemID, out.TargetItemID, out.Side)
		}
	}
	if e.coord == nil {
		return
	}
	op, err := e.coord.PrepareDrop(out)
	if err != nil {
		slog.Warn("drop rejected", "item_id", out.ItemID, "error", err)
		return
	}
	e.queue(op)
	e.rebuild()
}

func (e *Engine) moveToBucket(itemID types.ItemID, gid types.GroupID) {
	var v any
	for _, g := range e.result.Groups {
		if g.ID == gid && gid != project.EmptyGroupID {
			v = g.Name
		}
	}
	e.cellEdit(itemID, e.proj.GroupBy, v)
}

// reorderable reports whether manual item order is meaningful: not while a
// sort or value grouping decides the order
func (e *Engine) reorderable() bool {
	return !e.proj.Sort.Active() && !e.proj.Grouped()
}

func (e *Engine) columnIndex(id types.ColumnID) int {
	for i, c := range e.layout.IDs() {
		if c == id {
			return i
		}
	}
	return 0
}

// gridView adapts the engine to the focus machine's Grid
type gridView struct {
	e *Engine
}

func (g gridView) ItemCount() int {
	if g.e.index == nil {
		return 0
	}
	return g.e.index.ItemCount()
}

func (g gridView) ColumnCount() int {
	return len(g.e.layout.IDs())
}

func (g gridView) ItemID(row int) types.ItemID {
	if it := g.e.index.ItemAt(row); it != nil {
		return it.ID
	}
	return ""
}

func (g gridView) ColumnID(col int) types.ColumnID {
	ids := g.e.layout.IDs()
	if col < 0 || col >= len(ids) {
		return ""
	}
	return ids[col]
}

func (g gridView) Value(row, col int) any {
	it := g.e.index.ItemAt(row)
	if it == nil {
		return nil
	}
	return it.Value(g.ColumnID(col))
}
