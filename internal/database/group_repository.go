package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/types"
)

// GroupRepo handles all group-related database operations.
type GroupRepo struct {
	db *sql.DB
}

// CreateGroup appends a group after the board's last group
func (r *GroupRepo) CreateGroup(ctx context.Context, boardID types.BoardID, name, color string) (*models.Group, error) {
	if color == "" {
		color = models.DefaultGroupColor
	}
	g := &models.Group{BoardID: boardID, Name: name, Color: color}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		pos, err := nextPosition(ctx, tx, `SELECT MAX(position) FROM groups WHERE board_id = ?`, boardID.ToInt())
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO groups (board_id, name, color, position) VALUES (?, ?, ?, ?)`,
			boardID.ToInt(), name, color, pos)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		g.ID = types.GroupIDFromInt(id)
		g.Position = pos
		return touchBoard(ctx, tx, boardID)
	})
	if err != nil {
		return nil, fmt.Errorf("creating group %q: %w", name, err)
	}
	return g, nil
}

// GetGroupsByBoard returns the board's groups ordered by position then id
func (r *GroupRepo) GetGroupsByBoard(ctx context.Context, boardID types.BoardID) ([]models.Group, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, color, position, collapsed FROM groups WHERE board_id = ? ORDER BY position, id`,
		boardID.ToInt())
	if err != nil {
		return nil, fmt.Errorf("querying groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var (
			id        int64
			collapsed int
			g         = models.Group{BoardID: boardID}
		)
		if err := rows.Scan(&id, &g.Name, &g.Color, &g.Position, &collapsed); err != nil {
			return nil, err
		}
		g.ID = types.GroupIDFromInt(id)
		g.Collapsed = collapsed != 0
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// GetGroupBoard returns the board that owns a group
func (r *GroupRepo) GetGroupBoard(ctx context.Context, id types.GroupID) (types.BoardID, error) {
	n, ok := id.Int64()
	if !ok {
		return 0, models.ErrGroupNotFound
	}
	var boardID int64
	err := r.db.QueryRowContext(ctx, `SELECT board_id FROM groups WHERE id = ?`, n).Scan(&boardID)
	if err == sql.ErrNoRows {
		return 0, models.ErrGroupNotFound
	}
	return types.BoardID(boardID), err
}

// SetGroupCollapsed persists the collapsed flag
func (r *GroupRepo) SetGroupCollapsed(ctx context.Context, id types.GroupID, collapsed bool) error {
	n, ok := id.Int64()
	if !ok {
		return models.ErrGroupNotFound
	}
	res, err := r.db.ExecContext(ctx, `UPDATE groups SET collapsed = ? WHERE id = ?`, boolToInt(collapsed), n)
	if err != nil {
		return fmt.Errorf("updating group %s: %w", id, err)
	}
	return expectOne(res, models.ErrGroupNotFound)
}

// RenameGroup changes a group's display name
func (r *GroupRepo) RenameGroup(ctx context.Context, id types.GroupID, name string) error {
	n, ok := id.Int64()
	if !ok {
		return models.ErrGroupNotFound
	}
	res, err := r.db.ExecContext(ctx, `UPDATE groups SET name = ? WHERE id = ?`, name, n)
	if err != nil {
		return fmt.Errorf("renaming group %s: %w", id, err)
	}
	return expectOne(res, models.ErrGroupNotFound)
}

// DeleteGroup removes a group. Its items keep existing with no group and
// render under the default group.
func (r *GroupRepo) DeleteGroup(ctx context.Context, id types.GroupID) error {
	n, ok := id.Int64()
	if !ok {
		return models.ErrGroupNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = ?`, n)
	if err != nil {
		return fmt.Errorf("deleting group %s: %w", id, err)
	}
	return expectOne(res, models.ErrGroupNotFound)
}
