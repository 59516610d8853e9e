package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/types"
)

// ============================================================================
// DATABASE SETUP HELPERS
// ============================================================================

// setupTestDB creates an in-memory database with the full schema
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("failed to close database: %v", err)
		}
	})
	return db
}

// createTestBoard creates a board with two groups and a status column
func createTestBoard(t *testing.T, repo *Repository) (*models.Board, []*models.Group) {
	t.Helper()
	ctx := context.Background()

	board, err := repo.CreateBoard(ctx, "Roadmap", "test board")
	if err != nil {
		t.Fatalf("Failed to create board: %v", err)
	}
	var groups []*models.Group
	for _, name := range []string{"Backlog", "Doing"} {
		g, err := repo.CreateGroup(ctx, board.ID, name, "")
		if err != nil {
			t.Fatalf("Failed to create group %s: %v", name, err)
		}
		groups = append(groups, g)
	}
	if _, err := repo.CreateColumn(ctx, models.Column{
		ID: "status", BoardID: board.ID, Name: "Status", Type: models.ColumnStatus, Visible: true,
		Settings: map[string]any{"options": []any{"Open", "Closed"}},
	}); err != nil {
		t.Fatalf("Failed to create column: %v", err)
	}
	return board, groups
}

func ids(items []models.Item) []types.ItemID {
	out := make([]types.ItemID, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
