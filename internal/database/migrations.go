package database

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS boards (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS groups (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		board_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		color TEXT NOT NULL DEFAULT '',
		position REAL NOT NULL DEFAULT 0,
		collapsed INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (board_id) REFERENCES boards(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS grid_columns (
		id TEXT NOT NULL,
		board_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		visible INTEGER NOT NULL DEFAULT 1,
		width INTEGER NOT NULL DEFAULT 0,
		position REAL NOT NULL DEFAULT 0,
		settings TEXT NOT NULL DEFAULT '{}',
		PRIMARY KEY (board_id, id),
		FOREIGN KEY (board_id) REFERENCES boards(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		board_id INTEGER NOT NULL,
		group_id INTEGER,
		name TEXT NOT NULL DEFAULT '',
		position REAL NOT NULL DEFAULT 0,
		data TEXT NOT NULL DEFAULT '{}',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (board_id) REFERENCES boards(id) ON DELETE CASCADE,
		FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE SET NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_groups_board ON groups(board_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_items_board ON items(board_id, group_id, position)`,
}

// runMigrations creates the database schema. Every statement is idempotent.
func runMigrations(ctx context.Context, db *sql.DB) error {
	return withTx(ctx, db, func(tx *sql.Tx) error {
		for i, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migration %d: %w", i, err)
			}
		}
		return nil
	})
}
