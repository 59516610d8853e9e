package edit

import (
	"sync"

	"github.com/thenoetrevino/tabla/internal/grid/value"
	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/types"
)

// CellKey addresses one cell
type CellKey struct {
	ItemID   types.ItemID
	ColumnID types.ColumnID
}

// pendingCell is one in-flight write. prev is what the cell shows if this
// write fails once no earlier write for the cell is pending.
type pendingCell struct {
	seq   uint64
	value any
	prev  any
}

type placement struct {
	groupID  types.GroupID
	position float64
}

type pendingMove struct {
	seq uint64
	placement
}

// Cache is the local item cache the grid renders from. Optimistic writes are
// layered over the last data refresh until their mutation settles, so a
// stale refresh arriving mid-flight does not flash the old value.
type Cache struct {
	mu      sync.Mutex
	items   map[types.ItemID]*models.Item
	order   []types.ItemID
	seq     uint64
	cells   map[CellKey][]pendingCell
	moves   map[types.ItemID]pendingMove
	version uint64
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{
		items: make(map[types.ItemID]*models.Item),
		cells: make(map[CellKey][]pendingCell),
		moves: make(map[types.ItemID]pendingMove),
	}
}

// Replace installs a fresh snapshot from the data layer. Writes still in
// flight are re-applied on top.
func (c *Cache) Replace(items []models.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[types.ItemID]*models.Item, len(items))
	c.order = make([]types.ItemID, 0, len(items))
	for i := range items {
		it := items[i].Clone()
		c.items[it.ID] = it
		c.order = append(c.order, it.ID)
	}
	for key, stack := range c.cells {
		if it, ok := c.items[key.ItemID]; ok {
			setCell(it, key.ColumnID, stack[len(stack)-1].value)
		}
	}
	for id, p := range c.moves {
		if it, ok := c.items[id]; ok {
			it.GroupID = p.groupID
			it.Position = p.position
		}
	}
	c.version++
}

// Items returns copies of the cached items in refresh order
func (c *Cache) Items() []models.Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Item, 0, len(c.order))
	for _, id := range c.order {
		if it, ok := c.items[id]; ok {
			out = append(out, *it.Clone())
		}
	}
	return out
}

// Get returns a copy of one item
func (c *Cache) Get(id types.ItemID) (models.Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[id]
	if !ok {
		return models.Item{}, false
	}
	return *it.Clone(), true
}

// Value returns the cached value of a cell
func (c *Cache) Value(id types.ItemID, col types.ColumnID) any {
	c.mu.Lock()
	defer c.mu.Unlock()

	if it, ok := c.items[id]; ok {
		return it.Value(col)
	}
	return nil
}

// Version increases on every change; renderers compare it to skip rebuilds
func (c *Cache) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// Pending reports how many optimistic writes are awaiting their mutation
func (c *Cache) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.moves)
	for _, stack := range c.cells {
		n += len(stack)
	}
	return n
}

// writeCell records an optimistic value on top of any writes still pending
// for the cell. It returns the write's sequence number and the value it
// replaced.
func (c *Cache) writeCell(key CellKey, v any) (seq uint64, prev any, changed bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[key.ItemID]
	if !ok {
		return 0, nil, false, models.ErrItemNotFound
	}
	prev = it.Value(key.ColumnID)
	if value.Equal(prev, v) {
		return 0, prev, false, nil
	}
	c.seq++
	c.cells[key] = append(c.cells[key], pendingCell{seq: c.seq, value: v, prev: prev})
	setCell(it, key.ColumnID, v)
	c.version++
	return c.seq, prev, true, nil
}

// settleCell drops the write seq from the cell's pending stack together
// with every earlier write it superseded. A newer write still pending now
// falls back to the settled value. The cell keeps showing the newest
// pending value.
func (c *Cache) settleCell(key CellKey, seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stack := c.cells[key]
	i := indexOfSeq(stack, seq)
	if i < 0 {
		return
	}
	rest := stack[i+1:]
	if len(rest) > 0 {
		rest[0].prev = stack[i].value
	}
	c.setStack(key, rest)
}

// rollbackCell drops the failed write seq. When it was the newest pending
// write the cell falls back to the write below it, or to the value the
// failed write replaced. When a newer write is still pending the cell keeps
// that value, and the newer write inherits the failed write's fallback so a
// later failure restores a value the server actually holds. It reports
// whether the displayed value changed.
func (c *Cache) rollbackCell(key CellKey, seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	stack := c.cells[key]
	i := indexOfSeq(stack, seq)
	if i < 0 {
		return false
	}
	failed := stack[i]
	if i < len(stack)-1 {
		stack[i+1].prev = failed.prev
		c.setStack(key, append(stack[:i:i], stack[i+1:]...))
		return false
	}

	stack = stack[:i]
	c.setStack(key, stack)
	restore := failed.prev
	if len(stack) > 0 {
		restore = stack[len(stack)-1].value
	}
	if it, ok := c.items[key.ItemID]; ok {
		setCell(it, key.ColumnID, restore)
		c.version++
	}
	return true
}

func (c *Cache) setStack(key CellKey, stack []pendingCell) {
	if len(stack) == 0 {
		delete(c.cells, key)
		return
	}
	c.cells[key] = stack
}

func indexOfSeq(stack []pendingCell, seq uint64) int {
	for i, p := range stack {
		if p.seq == seq {
			return i
		}
	}
	return -1
}

// writeMoves applies group/position changes and returns the sequence number
// plus each item's previous placement
func (c *Cache) writeMoves(changes map[types.ItemID]placement) (uint64, map[types.ItemID]placement, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id := range changes {
		if _, ok := c.items[id]; !ok {
			return 0, nil, models.ErrItemNotFound
		}
	}
	c.seq++
	prev := make(map[types.ItemID]placement, len(changes))
	for id, p := range changes {
		it := c.items[id]
		prev[id] = placement{groupID: it.GroupRef(), position: it.Position}
		it.GroupID = p.groupID
		it.Position = p.position
		c.moves[id] = pendingMove{seq: c.seq, placement: p}
	}
	c.version++
	return c.seq, prev, nil
}

// tailPosition is the position that places an item after every cached item
// of groupID, hidden or filtered ones included. exclude is left out so an
// item already in the group does not count itself.
func (c *Cache) tailPosition(groupID types.GroupID, exclude types.ItemID) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := 0.0
	for id, it := range c.items {
		if id == exclude || it.GroupRef() != groupID {
			continue
		}
		next = max(next, it.Position+1)
	}
	return next
}

func (c *Cache) settleMoves(seq uint64, ids []types.ItemID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range ids {
		if p, ok := c.moves[id]; ok && p.seq == seq {
			delete(c.moves, id)
		}
	}
}

func (c *Cache) rollbackMoves(seq uint64, prev map[types.ItemID]placement) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for id, p := range prev {
		cur, ok := c.moves[id]
		if !ok || cur.seq != seq {
			continue
		}
		delete(c.moves, id)
		if it, ok := c.items[id]; ok {
			it.GroupID = p.groupID
			it.Position = p.position
			n++
		}
	}
	if n > 0 {
		c.version++
	}
	return n
}

func setCell(it *models.Item, col types.ColumnID, v any) {
	if col == models.NameColumnID {
		it.Name = value.String(v)
		return
	}
	if it.Data == nil {
		it.Data = make(map[string]any)
	}
	if v == nil {
		delete(it.Data, string(col))
		return
	}
	it.Data[string(col)] = v
}
