package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/types"
)

// BoardRepo handles all board-related database operations.
type BoardRepo struct {
	db *sql.DB
}

const boardColumns = `id, name, description, created_at, updated_at`

func scanBoard(row interface{ Scan(...any) error }) (*models.Board, error) {
	var b models.Board
	var id int64
	if err := row.Scan(&id, &b.Name, &b.Description, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.ID = types.BoardID(id)
	return &b, nil
}

// CreateBoard inserts a new board
func (r *BoardRepo) CreateBoard(ctx context.Context, name, description string) (*models.Board, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO boards (name, description) VALUES (?, ?)`, name, description)
	if err != nil {
		return nil, fmt.Errorf("creating board %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetBoardByID(ctx, types.BoardID(id))
}

// GetAllBoards returns every board ordered by id
func (r *BoardRepo) GetAllBoards(ctx context.Context) ([]*models.Board, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+boardColumns+` FROM boards ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying boards: %w", err)
	}
	defer rows.Close()

	var boards []*models.Board
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

// GetBoardByID returns models.ErrBoardNotFound when the board is missing
func (r *BoardRepo) GetBoardByID(ctx context.Context, id types.BoardID) (*models.Board, error) {
	b, err := scanBoard(r.db.QueryRowContext(ctx,
		`SELECT `+boardColumns+` FROM boards WHERE id = ?`, id.ToInt()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrBoardNotFound
	}
	return b, err
}

// GetBoardByName looks a board up by its unique name
func (r *BoardRepo) GetBoardByName(ctx context.Context, name string) (*models.Board, error) {
	b, err := scanBoard(r.db.QueryRowContext(ctx,
		`SELECT `+boardColumns+` FROM boards WHERE name = ?`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrBoardNotFound
	}
	return b, err
}

// DeleteBoard removes the board and, by cascade, its groups, columns and items
func (r *BoardRepo) DeleteBoard(ctx context.Context, id types.BoardID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, id.ToInt())
	if err != nil {
		return fmt.Errorf("deleting board %d: %w", id, err)
	}
	return expectOne(res, models.ErrBoardNotFound)
}

// touchBoard bumps updated_at so list views can show recent activity
func touchBoard(ctx context.Context, tx *sql.Tx, id types.BoardID) error {
	_, err := tx.ExecContext(ctx, `UPDATE boards SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id.ToInt())
	return err
}
