// Package database handles the initialization and connection to the SQLite db
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DataDirEnv relocates the data directory (database, socket, logs)
const DataDirEnv = "TABLA_HOME"

// DefaultDir returns ~/.tabla, or $TABLA_HOME, creating it when missing
func DefaultDir() (string, error) {
	dir := os.Getenv(DataDirEnv)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".tabla")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	return dir, nil
}

// InitDB opens tabla.db in the data directory and brings the schema up to date
func InitDB(ctx context.Context) (*sql.DB, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return Open(ctx, filepath.Join(dir, "tabla.db"))
}

// Open opens the database at path, applies connection pragmas and runs
// migrations. ":memory:" is accepted for tests.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: a single writer, and ":memory:" stays one database
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// SQLite will retry locked writes for busy_timeout milliseconds
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			slog.Error("failed to apply pragma", "pragma", p, "error", err)
			closeQuietly(db)
			return nil, err
		}
	}

	if err := db.PingContext(ctx); err != nil {
		closeQuietly(db)
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		closeQuietly(db)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func closeQuietly(db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.Error("error closing db", "error", err)
	}
}
