package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/types"
)

func TestMigrationsAreIdempotent(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, runMigrations(context.Background(), db))
	require.NoError(t, runMigrations(context.Background(), db))
}

func TestBoardCRUD(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	b, err := repo.CreateBoard(ctx, "Roadmap", "plans")
	require.NoError(t, err)
	assert.Equal(t, "Roadmap", b.Name)
	assert.False(t, b.CreatedAt.IsZero())

	byName, err := repo.GetBoardByName(ctx, "Roadmap")
	require.NoError(t, err)
	assert.Equal(t, b.ID, byName.ID)

	_, err = repo.CreateBoard(ctx, "Roadmap", "")
	assert.Error(t, err, "board names are unique")

	all, err := repo.GetAllBoards(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.DeleteBoard(ctx, b.ID))
	_, err = repo.GetBoardByID(ctx, b.ID)
	assert.ErrorIs(t, err, models.ErrBoardNotFound)
	assert.ErrorIs(t, repo.DeleteBoard(ctx, b.ID), models.ErrBoardNotFound)
}

func TestGroupsOrderedAndCollapsible(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	board, groups := createTestBoard(t, repo)

	assert.Equal(t, 0.0, groups[0].Position)
	assert.Equal(t, 1.0, groups[1].Position)
	assert.Equal(t, models.DefaultGroupColor, groups[0].Color)

	require.NoError(t, repo.SetGroupCollapsed(ctx, groups[1].ID, true))
	require.NoError(t, repo.RenameGroup(ctx, groups[0].ID, "Later"))

	got, err := repo.GetGroupsByBoard(ctx, board.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Later", got[0].Name)
	assert.False(t, got[0].Collapsed)
	assert.True(t, got[1].Collapsed)

	owner, err := repo.GetGroupBoard(ctx, groups[0].ID)
	require.NoError(t, err)
	assert.Equal(t, board.ID, owner)

	assert.ErrorIs(t, repo.SetGroupCollapsed(ctx, "value:Open", true), models.ErrGroupNotFound)
	assert.ErrorIs(t, repo.RenameGroup(ctx, "999", "x"), models.ErrGroupNotFound)
}

func TestColumnsWidthAndOrder(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	board, _ := createTestBoard(t, repo)

	for _, c := range []models.Column{
		{ID: "owner", Name: "Owner", Type: models.ColumnPerson, Visible: true},
		{ID: "due", Name: "Due", Type: models.ColumnDate, Visible: true, Width: 90},
	} {
		c.BoardID = board.ID
		_, err := repo.CreateColumn(ctx, c)
		require.NoError(t, err)
	}

	_, err := repo.CreateColumn(ctx, models.Column{ID: "owner", BoardID: board.ID, Type: models.ColumnText})
	assert.Error(t, err, "column ids are unique per board")

	require.NoError(t, repo.UpdateColumnWidth(ctx, board.ID, "owner", 5000))
	require.NoError(t, repo.SetColumnVisible(ctx, board.ID, "due", false))
	require.NoError(t, repo.ReorderColumns(ctx, board.ID, []types.ColumnID{"due", "status"}))

	cols, err := repo.GetColumnsByBoard(ctx, board.ID)
	require.NoError(t, err)
	require.Len(t, cols, 3)
	assert.Equal(t, types.ColumnID("due"), cols[0].ID)
	assert.False(t, cols[0].Visible)
	assert.Equal(t, types.ColumnID("status"), cols[1].ID)
	assert.Equal(t, []any{"Open", "Closed"}, cols[1].Settings["options"])
	assert.Equal(t, types.ColumnID("owner"), cols[2].ID)
	assert.Equal(t, models.MaxColumnWidth, cols[2].Width)

	assert.ErrorIs(t, repo.UpdateColumnWidth(ctx, board.ID, "nope", 100), models.ErrColumnNotFound)
	assert.ErrorIs(t, repo.ReorderColumns(ctx, board.ID, []types.ColumnID{"nope"}), models.ErrColumnNotFound)

	require.NoError(t, repo.DeleteColumn(ctx, board.ID, "owner"))
	cols, err = repo.GetColumnsByBoard(ctx, board.ID)
	require.NoError(t, err)
	assert.Len(t, cols, 2)
}

func TestItemCellUpdates(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	board, groups := createTestBoard(t, repo)

	it, err := repo.CreateItem(ctx, board.ID, groups[0].ID, "Write docs", map[string]any{"status": "Open"})
	require.NoError(t, err)
	assert.Equal(t, groups[0].ID, it.GroupID)
	assert.Equal(t, "Open", it.Data["status"])

	require.NoError(t, repo.UpdateItemField(ctx, it.ID, "status", "Closed"))
	require.NoError(t, repo.UpdateItemField(ctx, it.ID, "estimate", 3.5))
	require.NoError(t, repo.UpdateItemName(ctx, it.ID, "Write more docs"))

	got, err := repo.GetItemByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write more docs", got.Name)
	assert.Equal(t, "Closed", got.Data["status"])
	assert.Equal(t, 3.5, got.Data["estimate"])

	require.NoError(t, repo.UpdateItemField(ctx, it.ID, "status", nil))
	got, err = repo.GetItemByID(ctx, it.ID)
	require.NoError(t, err)
	_, present := got.Data["status"]
	assert.False(t, present)

	assert.ErrorIs(t, repo.UpdateItemField(ctx, "999", "status", "x"), models.ErrItemNotFound)
	assert.ErrorIs(t, repo.UpdateItemName(ctx, "abc", "x"), models.ErrItemNotFound)
}

func TestItemPositionsAndMoves(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	board, groups := createTestBoard(t, repo)

	var created []*models.Item
	for _, name := range []string{"a", "b", "c"} {
		it, err := repo.CreateItem(ctx, board.ID, groups[0].ID, name, nil)
		require.NoError(t, err)
		created = append(created, it)
	}
	assert.Equal(t, 2.0, created[2].Position)

	require.NoError(t, repo.SetItemPositions(ctx, map[types.ItemID]float64{
		created[0].ID: 2, created[1].ID: 0, created[2].ID: 1,
	}))
	items, err := repo.GetItemsByBoard(ctx, board.ID)
	require.NoError(t, err)
	assert.Equal(t, []types.ItemID{created[1].ID, created[2].ID, created[0].ID}, ids(items))

	require.NoError(t, repo.MoveItem(ctx, created[0].ID, groups[1].ID, 0))
	moved, err := repo.GetItemByID(ctx, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, groups[1].ID, moved.GroupID)

	// a synthetic target stores no group
	require.NoError(t, repo.MoveItem(ctx, created[1].ID, "value:Open", 0))
	moved, err = repo.GetItemByID(ctx, created[1].ID)
	require.NoError(t, err)
	assert.True(t, moved.GroupID.IsZero())

	owner, err := repo.GetItemBoard(ctx, created[2].ID)
	require.NoError(t, err)
	assert.Equal(t, board.ID, owner)
}

func TestDeletingGroupOrphansItems(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	board, groups := createTestBoard(t, repo)

	it, err := repo.CreateItem(ctx, board.ID, groups[1].ID, "orphan", nil)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteGroup(ctx, groups[1].ID))

	got, err := repo.GetItemByID(ctx, it.ID)
	require.NoError(t, err)
	assert.True(t, got.GroupID.IsZero())
}

func TestDeletingBoardCascades(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	board, groups := createTestBoard(t, repo)
	it, err := repo.CreateItem(ctx, board.ID, groups[0].ID, "gone", nil)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteBoard(ctx, board.ID))

	_, err = repo.GetItemByID(ctx, it.ID)
	assert.ErrorIs(t, err, models.ErrItemNotFound)
	cols, err := repo.GetColumnsByBoard(ctx, board.ID)
	require.NoError(t, err)
	assert.Empty(t, cols)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabla.db")
	ctx := context.Background()

	db, err := Open(ctx, path)
	require.NoError(t, err)
	repo := NewRepository(db)
	board, groups := createTestBoard(t, repo)
	_, err = repo.CreateItem(ctx, board.ID, groups[0].ID, "kept", map[string]any{"status": "Open"})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = os.Stat(path)
	require.NoError(t, err)

	db, err = Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	items, err := NewRepository(db).GetItemsByBoard(ctx, board.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "kept", items[0].Name)
	assert.Equal(t, "Open", items[0].Data["status"])
}
