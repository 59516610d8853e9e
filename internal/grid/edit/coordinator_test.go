package edit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/tabla/internal/grid/drag"
	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/types"
)

var errBackend = errors.New("backend unavailable")

type cellCall struct {
	item  types.ItemID
	col   types.ColumnID
	value any
}

type fakeMutator struct {
	err      error
	cells    []cellCall
	moves    []types.ItemID
	movedTo  []float64
	reorders [][]drag.Placement
}

func (f *fakeMutator) UpdateCell(_ context.Context, itemID types.ItemID, columnID types.ColumnID, v any) error {
	f.cells = append(f.cells, cellCall{itemID, columnID, v})
	return f.err
}

func (f *fakeMutator) MoveItem(_ context.Context, itemID types.ItemID, _ types.GroupID, position float64) error {
	f.moves = append(f.moves, itemID)
	f.movedTo = append(f.movedTo, position)
	return f.err
}

func (f *fakeMutator) ReorderGroup(_ context.Context, _ types.GroupID, positions []drag.Placement) error {
	f.reorders = append(f.reorders, positions)
	return f.err
}

func seeded() (*Coordinator, *fakeMutator) {
	cache := NewCache()
	cache.Replace([]models.Item{
		{ID: "1", Name: "Write docs", GroupID: "A", Position: 0, Data: map[string]any{"status": "Open"}},
		{ID: "2", Name: "Ship", GroupID: "A", Position: 1, Data: map[string]any{"status": "Closed"}},
		{ID: "3", Name: "Plan", GroupID: "B", Position: 0},
	})
	m := &fakeMutator{}
	return NewCoordinator(cache, m), m
}

func TestApplyUnchangedIsNoop(t *testing.T) {
	c, m := seeded()

	require.NoError(t, c.Apply(context.Background(), "1", "status", "Open"))

	assert.Empty(t, m.cells)
	assert.Equal(t, 0, c.Cache().Pending())
}

func TestApplyWritesOptimistically(t *testing.T) {
	c, m := seeded()

	op, err := c.PrepareCell("1", "status", "Done")
	require.NoError(t, err)
	require.NotNil(t, op)

	// Visible before the mutation runs
	assert.Equal(t, "Done", c.Cache().Value("1", "status"))
	assert.Empty(t, m.cells)

	require.NoError(t, op.Commit(context.Background()))
	assert.Equal(t, []cellCall{{"1", "status", "Done"}}, m.cells)
	assert.Equal(t, 0, c.Cache().Pending())
}

func TestFailedApplyRollsBack(t *testing.T) {
	c, m := seeded()
	m.err = errBackend

	err := c.Apply(context.Background(), "1", "status", "Done")

	require.Error(t, err)
	assert.ErrorIs(t, err, errBackend)
	assert.Equal(t, "Open", c.Cache().Value("1", "status"), "the previous value is displayed again")
	assert.False(t, c.CanUndo())
}

func TestNameColumnEdit(t *testing.T) {
	c, _ := seeded()

	require.NoError(t, c.Apply(context.Background(), "3", models.NameColumnID, "Plan Q3"))

	it, ok := c.Cache().Get("3")
	require.True(t, ok)
	assert.Equal(t, "Plan Q3", it.Name)
}

func TestClearingRemovesKey(t *testing.T) {
	c, _ := seeded()

	require.NoError(t, c.Apply(context.Background(), "1", "status", nil))

	it, _ := c.Cache().Get("1")
	_, present := it.Data["status"]
	assert.False(t, present)
}

func TestUnknownItem(t *testing.T) {
	c, _ := seeded()

	err := c.Apply(context.Background(), "99", "status", "x")

	assert.ErrorIs(t, err, models.ErrItemNotFound)
}

// TestOutOfOrderRollbackKeepsNewerEdit starts two edits on the same cell,
// fails the first after the second was applied, and expects the second
// value to survive.
func TestOutOfOrderRollbackKeepsNewerEdit(t *testing.T) {
	c, m := seeded()

	first, err := c.PrepareCell("1", "status", "In progress")
	require.NoError(t, err)
	second, err := c.PrepareCell("1", "status", "Done")
	require.NoError(t, err)

	require.NoError(t, second.Commit(context.Background()))

	m.err = errBackend
	require.Error(t, first.Commit(context.Background()))

	assert.Equal(t, "Done", c.Cache().Value("1", "status"))
}

// TestChainedRollbackRestoresStoredValue fails two stacked edits newest
// first and expects the value the backend still holds.
func TestChainedRollbackRestoresStoredValue(t *testing.T) {
	c, m := seeded()
	ctx := context.Background()

	first, err := c.PrepareCell("1", "status", "In progress")
	require.NoError(t, err)
	second, err := c.PrepareCell("1", "status", "Done")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Cache().Pending())

	m.err = errBackend
	require.Error(t, second.Commit(ctx))
	assert.Equal(t, "In progress", c.Cache().Value("1", "status"), "the earlier edit is still pending")

	require.Error(t, first.Commit(ctx))
	assert.Equal(t, "Open", c.Cache().Value("1", "status"))
	assert.Equal(t, 0, c.Cache().Pending())
}

// TestChainedRollbackOldestFirst fails the earlier edit while the later one
// is pending, then fails the later one too.
func TestChainedRollbackOldestFirst(t *testing.T) {
	c, m := seeded()
	ctx := context.Background()

	first, err := c.PrepareCell("1", "status", "In progress")
	require.NoError(t, err)
	second, err := c.PrepareCell("1", "status", "Done")
	require.NoError(t, err)

	m.err = errBackend
	require.Error(t, first.Commit(ctx))
	assert.Equal(t, "Done", c.Cache().Value("1", "status"))

	require.Error(t, second.Commit(ctx))
	assert.Equal(t, "Open", c.Cache().Value("1", "status"))
}

func TestRollbackAfterEarlierEditSettled(t *testing.T) {
	c, m := seeded()
	ctx := context.Background()

	first, err := c.PrepareCell("1", "status", "In progress")
	require.NoError(t, err)
	second, err := c.PrepareCell("1", "status", "Done")
	require.NoError(t, err)

	require.NoError(t, first.Commit(ctx))
	m.err = errBackend
	require.Error(t, second.Commit(ctx))

	assert.Equal(t, "In progress", c.Cache().Value("1", "status"))
}

func TestPendingWriteSurvivesStaleRefresh(t *testing.T) {
	c, _ := seeded()
	op, err := c.PrepareCell("2", "status", "Reopened")
	require.NoError(t, err)

	c.Cache().Replace([]models.Item{
		{ID: "2", Name: "Ship", GroupID: "A", Data: map[string]any{"status": "Closed"}},
	})
	assert.Equal(t, "Reopened", c.Cache().Value("2", "status"))

	require.NoError(t, op.Commit(context.Background()))
	c.Cache().Replace([]models.Item{
		{ID: "2", Name: "Ship", GroupID: "A", Data: map[string]any{"status": "Closed"}},
	})
	assert.Equal(t, "Closed", c.Cache().Value("2", "status"), "after settling the refresh is trusted")
}

func TestReorderDrop(t *testing.T) {
	c, m := seeded()
	out := drag.MoveBy("1", "A", 1, []types.ItemID{"1", "2"})

	require.NoError(t, c.MoveItem(context.Background(), out))

	one, _ := c.Cache().Get("1")
	two, _ := c.Cache().Get("2")
	assert.Equal(t, 1.0, one.Position)
	assert.Equal(t, 0.0, two.Position)
	require.Len(t, m.reorders, 1)
	assert.Len(t, m.reorders[0], 2)
}

func TestFailedMoveRollsBack(t *testing.T) {
	c, m := seeded()
	m.err = errBackend
	out := drag.Outcome{
		Kind:      drag.Move,
		ItemID:    "1",
		GroupID:   "B",
		Positions: []drag.Placement{{ItemID: "1", Position: 1}},
	}

	op, err := c.PrepareDrop(out)
	require.NoError(t, err)
	moved, _ := c.Cache().Get("1")
	assert.Equal(t, types.GroupID("B"), moved.GroupID)

	require.Error(t, op.Commit(context.Background()))

	back, _ := c.Cache().Get("1")
	assert.Equal(t, types.GroupID("A"), back.GroupID)
	assert.Equal(t, 0.0, back.Position)
	assert.Equal(t, []types.ItemID{"1"}, m.moves)
}

// TestMoveAppendsPastLargestPosition drops into a group whose positions
// have gaps; the item must land after the last one, not between them.
func TestMoveAppendsPastLargestPosition(t *testing.T) {
	cache := NewCache()
	cache.Replace([]models.Item{
		{ID: "1", GroupID: "A", Position: 0},
		{ID: "2", GroupID: "B", Position: 0},
		{ID: "4", GroupID: "B", Position: 5},
	})
	m := &fakeMutator{}
	c := NewCoordinator(cache, m)
	out := drag.Outcome{
		Kind:      drag.Move,
		ItemID:    "1",
		GroupID:   "B",
		Positions: []drag.Placement{{ItemID: "1", Position: 2}},
	}

	require.NoError(t, c.MoveItem(context.Background(), out))

	moved, _ := cache.Get("1")
	assert.Equal(t, types.GroupID("B"), moved.GroupID)
	assert.Equal(t, 6.0, moved.Position)
	assert.Equal(t, []float64{6}, m.movedTo)
}

func TestMoveIntoEmptyGroupStartsAtZero(t *testing.T) {
	c, m := seeded()
	out := drag.Outcome{
		Kind:      drag.Move,
		ItemID:    "1",
		GroupID:   "C",
		Positions: []drag.Placement{{ItemID: "1", Position: 3}},
	}

	require.NoError(t, c.MoveItem(context.Background(), out))

	moved, _ := c.Cache().Get("1")
	assert.Equal(t, 0.0, moved.Position)
	assert.Equal(t, []float64{0}, m.movedTo)
}

func TestNoneDropIsNoop(t *testing.T) {
	c, m := seeded()

	op, err := c.PrepareDrop(drag.Outcome{})

	assert.NoError(t, err)
	assert.Nil(t, op)
	assert.Empty(t, m.moves)
}

func TestUndo(t *testing.T) {
	c, m := seeded()
	ctx := context.Background()
	require.NoError(t, c.Apply(ctx, "1", "status", "Done"))
	require.NoError(t, c.Apply(ctx, "2", "status", "Open"))

	require.NoError(t, c.Undo(ctx))
	assert.Equal(t, "Closed", c.Cache().Value("2", "status"))

	require.NoError(t, c.Undo(ctx))
	assert.Equal(t, "Open", c.Cache().Value("1", "status"))

	assert.ErrorIs(t, c.Undo(ctx), ErrNothingToUndo)
	assert.Len(t, m.cells, 4)
}

func TestUndoSkipsEntriesChangedRemotely(t *testing.T) {
	c, _ := seeded()
	ctx := context.Background()
	require.NoError(t, c.Apply(ctx, "1", "status", "Done"))

	c.Cache().Replace([]models.Item{
		{ID: "1", Name: "Write docs", GroupID: "A", Data: map[string]any{"status": "Blocked"}},
	})

	assert.ErrorIs(t, c.Undo(ctx), ErrNothingToUndo)
	assert.Equal(t, "Blocked", c.Cache().Value("1", "status"))
}

func TestUndoDepth(t *testing.T) {
	cache := NewCache()
	cache.Replace([]models.Item{{ID: "1"}})
	c := NewCoordinator(cache, &fakeMutator{}, WithUndoDepth(1))
	ctx := context.Background()

	require.NoError(t, c.Apply(ctx, "1", "n", 1))
	require.NoError(t, c.Apply(ctx, "1", "n", 2))
	require.NoError(t, c.Undo(ctx))

	assert.Equal(t, 1.0, cache.Value("1", "n"))
	assert.ErrorIs(t, c.Undo(ctx), ErrNothingToUndo)
}

func TestMergePresence(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	entries := []models.Presence{
		{UserID: "me", UserName: "Me", EditingItemID: "1", EditingColumnID: "status", LastSeen: now},
		{UserID: "ana", UserName: "Ana", EditingItemID: "1", EditingColumnID: "status", LastSeen: now.Add(-5 * time.Second)},
		{UserID: "bo", UserName: "Bo", EditingItemID: "1", EditingColumnID: "status", LastSeen: now},
		{UserID: "cy", UserName: "Cy", EditingItemID: "2", EditingColumnID: "owner", LastSeen: now.Add(-time.Hour)},
		{UserID: "di", UserName: "Di", LastSeen: now},
		// Ana's older entry pointing elsewhere is superseded
		{UserID: "ana", UserName: "Ana", EditingItemID: "3", EditingColumnID: "name", LastSeen: now.Add(-20 * time.Second)},
	}

	p := MergePresence(entries, "me", now, DefaultPresenceTTL)

	at := p.At("1", "status")
	require.Len(t, at, 2)
	assert.Equal(t, "Ana", at[0].UserName)
	assert.Equal(t, "Bo", at[1].UserName)
	assert.Empty(t, p.At("2", "owner"), "expired")
	assert.Empty(t, p.At("3", "name"), "superseded")
	assert.True(t, p.OnItem("1"))
	assert.False(t, p.OnItem("2"))
}
