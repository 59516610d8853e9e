package testutil

import (
	"context"
	"testing"

	"github.com/thenoetrevino/tabla/internal/database"
	"github.com/thenoetrevino/tabla/internal/models"
)

// SetupTestRepo opens an in-memory database with the full schema
func SetupTestRepo(t *testing.T) *database.Repository {
	t.Helper()
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return database.NewRepository(db)
}

// TestBoard is a small fixture board
type TestBoard struct {
	Board  *models.Board
	Groups []*models.Group
	Items  []*models.Item
}

// SeedTestBoard creates "Sprint" with groups Backlog and Doing, a status
// column (options Open, Closed), an owner column and three items:
// "Write docs" (Backlog, Open), "Fix login" (Backlog, Closed) and
// "Release" (Doing, no status).
func SeedTestBoard(t *testing.T, repo database.DataStore) TestBoard {
	t.Helper()
	ctx := context.Background()

	board, err := repo.CreateBoard(ctx, "Sprint", "")
	if err != nil {
		t.Fatalf("Failed to create board: %v", err)
	}
	out := TestBoard{Board: board}

	for _, name := range []string{"Backlog", "Doing"} {
		g, err := repo.CreateGroup(ctx, board.ID, name, "")
		if err != nil {
			t.Fatalf("Failed to create group: %v", err)
		}
		out.Groups = append(out.Groups, g)
	}

	for _, c := range []models.Column{
		{ID: models.NameColumnID, Name: "Name", Type: models.ColumnText, Visible: true, Width: 250},
		{ID: "status", Name: "Status", Type: models.ColumnStatus, Visible: true, Width: 120,
			Settings: map[string]any{"options": []any{"Open", "Closed"}}},
		{ID: "owner", Name: "Owner", Type: models.ColumnPerson, Visible: true},
	} {
		c.BoardID = board.ID
		if _, err := repo.CreateColumn(ctx, c); err != nil {
			t.Fatalf("Failed to create column %s: %v", c.ID, err)
		}
	}

	for _, it := range []struct {
		name  string
		group int
		data  map[string]any
	}{
		{"Write docs", 0, map[string]any{"status": "Open", "owner": "ana"}},
		{"Fix login", 0, map[string]any{"status": "Closed"}},
		{"Release", 1, nil},
	} {
		item, err := repo.CreateItem(ctx, board.ID, out.Groups[it.group].ID, it.name, it.data)
		if err != nil {
			t.Fatalf("Failed to create item: %v", err)
		}
		out.Items = append(out.Items, item)
	}
	return out
}
