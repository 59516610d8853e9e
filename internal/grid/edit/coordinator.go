// Package edit applies cell edits and item moves optimistically: the local
// cache changes first, the mutation runs second, and a failed mutation rolls
// back exactly the snapshot it recorded.
package edit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/thenoetrevino/tabla/internal/grid/drag"
	"github.com/thenoetrevino/tabla/internal/grid/value"
	"github.com/thenoetrevino/tabla/internal/types"
)

// DefaultUndoDepth is how many applied cell edits Undo can revert
const DefaultUndoDepth = 50

// Mutator persists changes. Implementations may block; the coordinator never
// holds a lock while calling them.
type Mutator interface {
	UpdateCell(ctx context.Context, itemID types.ItemID, columnID types.ColumnID, v any) error
	MoveItem(ctx context.Context, itemID types.ItemID, groupID types.GroupID, position float64) error
	ReorderGroup(ctx context.Context, groupID types.GroupID, positions []drag.Placement) error
}

type undoEntry struct {
	key  CellKey
	prev any
	next any
}

// Op is a prepared optimistic change. The cache already reflects it; Commit
// runs the mutation and rolls back on failure. Commit may run on another
// goroutine.
type Op struct {
	label    string
	run      func(ctx context.Context) error
	settle   func()
	rollback func() bool
}

// Label describes the change for status messages
func (o *Op) Label() string {
	return o.label
}

// Commit runs the mutation
func (o *Op) Commit(ctx context.Context) error {
	if err := o.run(ctx); err != nil {
		if o.rollback() {
			slog.Warn("mutation failed, rolled back", "op", o.label, "error", err)
		} else {
			slog.Warn("mutation failed, newer edit kept", "op", o.label, "error", err)
		}
		return fmt.Errorf("%s: %w", o.label, err)
	}
	o.settle()
	return nil
}

// Coordinator owns the optimistic edit flow for one grid
type Coordinator struct {
	cache   *Cache
	mutator Mutator

	mu        sync.Mutex
	undo      []undoEntry
	undoDepth int
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithUndoDepth bounds the undo stack
func WithUndoDepth(n int) Option {
	return func(c *Coordinator) {
		if n >= 0 {
			c.undoDepth = n
		}
	}
}

// NewCoordinator creates a coordinator over cache, persisting through m
func NewCoordinator(cache *Cache, m Mutator, opts ...Option) *Coordinator {
	c := &Coordinator{
		cache:     cache,
		mutator:   m,
		undoDepth: DefaultUndoDepth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cache returns the cache the coordinator writes to
func (c *Coordinator) Cache() *Cache {
	return c.cache
}

// Apply is PrepareCell followed by Commit
func (c *Coordinator) Apply(ctx context.Context, itemID types.ItemID, columnID types.ColumnID, v any) error {
	op, err := c.PrepareCell(itemID, columnID, v)
	if err != nil || op == nil {
		return err
	}
	return op.Commit(ctx)
}

// PrepareCell writes v into the cache and returns the pending mutation.
// A nil Op means the value is unchanged and nothing needs to run.
func (c *Coordinator) PrepareCell(itemID types.ItemID, columnID types.ColumnID, v any) (*Op, error) {
	return c.prepareCell(itemID, columnID, v, true)
}

func (c *Coordinator) prepareCell(itemID types.ItemID, columnID types.ColumnID, v any, record bool) (*Op, error) {
	v = value.Normalize(v)
	key := CellKey{ItemID: itemID, ColumnID: columnID}
	seq, prev, changed, err := c.cache.writeCell(key, v)
	if err != nil {
		return nil, fmt.Errorf("edit %s/%s: %w", itemID, columnID, err)
	}
	if !changed {
		return nil, nil
	}
	return &Op{
		label: fmt.Sprintf("update %s/%s", itemID, columnID),
		run: func(ctx context.Context) error {
			return c.mutator.UpdateCell(ctx, itemID, columnID, v)
		},
		settle: func() {
			c.cache.settleCell(key, seq)
			if record {
				c.pushUndo(undoEntry{key: key, prev: prev, next: v})
			}
		},
		rollback: func() bool {
			return c.cache.rollbackCell(key, seq)
		},
	}, nil
}

// PrepareDrop applies a drag outcome to the cache. A nil Op means there is
// nothing to persist.
func (c *Coordinator) PrepareDrop(out drag.Outcome) (*Op, error) {
	if out.Kind == drag.None || len(out.Positions) == 0 {
		return nil, nil
	}
	if out.Kind == drag.Move {
		// Cross-group moves append after the group's real last item
		out.Positions = []drag.Placement{{
			ItemID:   out.ItemID,
			Position: c.cache.tailPosition(out.GroupID, out.ItemID),
		}}
	}
	changes := make(map[types.ItemID]placement, len(out.Positions))
	ids := make([]types.ItemID, 0, len(out.Positions))
	for _, p := range out.Positions {
		changes[p.ItemID] = placement{groupID: out.GroupID, position: p.Position}
		ids = append(ids, p.ItemID)
	}
	seq, prev, err := c.cache.writeMoves(changes)
	if err != nil {
		return nil, fmt.Errorf("move %s: %w", out.ItemID, err)
	}

	op := &Op{
		settle:   func() { c.cache.settleMoves(seq, ids) },
		rollback: func() bool { return c.cache.rollbackMoves(seq, prev) > 0 },
	}
	switch out.Kind {
	case drag.Move:
		pos := out.Positions[0].Position
		op.label = fmt.Sprintf("move %s to %s", out.ItemID, out.GroupID)
		op.run = func(ctx context.Context) error {
			return c.mutator.MoveItem(ctx, out.ItemID, out.GroupID, pos)
		}
	default:
		positions := append([]drag.Placement(nil), out.Positions...)
		op.label = fmt.Sprintf("reorder %s", out.GroupID)
		op.run = func(ctx context.Context) error {
			return c.mutator.ReorderGroup(ctx, out.GroupID, positions)
		}
	}
	return op, nil
}

// MoveItem is PrepareDrop followed by Commit
func (c *Coordinator) MoveItem(ctx context.Context, out drag.Outcome) error {
	op, err := c.PrepareDrop(out)
	if err != nil || op == nil {
		return err
	}
	return op.Commit(ctx)
}

// ============================================================================
// UNDO
// ============================================================================

func (c *Coordinator) pushUndo(e undoEntry) {
	if c.undoDepth == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.undo = append(c.undo, e)
	if len(c.undo) > c.undoDepth {
		c.undo = c.undo[len(c.undo)-c.undoDepth:]
	}
}

// CanUndo reports whether there is an applied edit to revert
func (c *Coordinator) CanUndo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.undo) > 0
}

// PrepareUndo pops the most recent applied edit and prepares writing its
// previous value back. Undoing is not itself undoable. If the cell changed
// since (remotely or by a later edit), the entry is discarded.
func (c *Coordinator) PrepareUndo() (*Op, error) {
	for {
		c.mu.Lock()
		if len(c.undo) == 0 {
			c.mu.Unlock()
			return nil, ErrNothingToUndo
		}
		e := c.undo[len(c.undo)-1]
		c.undo = c.undo[:len(c.undo)-1]
		c.mu.Unlock()

		if !value.Equal(c.cache.Value(e.key.ItemID, e.key.ColumnID), e.next) {
			slog.Debug("skipping stale undo entry", "item_id", e.key.ItemID, "column_id", e.key.ColumnID)
			continue
		}
		op, err := c.prepareCell(e.key.ItemID, e.key.ColumnID, e.prev, false)
		if err != nil {
			continue
		}
		if op != nil {
			op.label = "undo " + op.label
		}
		return op, nil
	}
}

// Undo reverts the most recent applied edit
func (c *Coordinator) Undo(ctx context.Context) error {
	op, err := c.PrepareUndo()
	if err != nil || op == nil {
		return err
	}
	return op.Commit(ctx)
}
