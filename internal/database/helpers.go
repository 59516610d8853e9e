package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
)

// withTx executes a function within a database transaction.
// It automatically handles begin, rollback on error, and commit on success.
func withTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			log.Printf("failed to rollback transaction: %v", err)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// encodeJSON marshals a map for a TEXT column; nil becomes "{}"
func encodeJSON(m map[string]any) (string, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encoding json: %w", err)
	}
	return string(b), nil
}

// decodeJSON unmarshals a TEXT column into a map. Empty input yields an
// empty map.
func decodeJSON(s string) (map[string]any, error) {
	m := make(map[string]any)
	if s == "" {
		return m, nil
	}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, fmt.Errorf("decoding json: %w", err)
	}
	return m, nil
}

// nextPosition returns one past the largest position in table for the
// given scope, or 0 when the scope is empty.
func nextPosition(ctx context.Context, q queryer, query string, args ...any) (float64, error) {
	var maxPos sql.NullFloat64
	if err := q.QueryRowContext(ctx, query, args...).Scan(&maxPos); err != nil {
		return 0, err
	}
	if !maxPos.Valid {
		return 0, nil
	}
	return maxPos.Float64 + 1, nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// nullGroupID maps an empty or non-numeric group reference to NULL
func nullGroupID(id int64, ok bool) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: ok}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// expectOne maps a zero-row update to notFound
func expectOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
