package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/types"
)

// ColumnRepo handles all grid column database operations.
type ColumnRepo struct {
	db *sql.DB
}

// CreateColumn appends a column after the board's last column. The column
// id must be unique within the board.
func (r *ColumnRepo) CreateColumn(ctx context.Context, col models.Column) (*models.Column, error) {
	settings, err := encodeJSON(col.Settings)
	if err != nil {
		return nil, err
	}
	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		pos, err := nextPosition(ctx, tx, `SELECT MAX(position) FROM grid_columns WHERE board_id = ?`, col.BoardID.ToInt())
		if err != nil {
			return err
		}
		col.Position = pos
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO grid_columns (id, board_id, name, type, visible, width, position, settings)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			string(col.ID), col.BoardID.ToInt(), col.Name, string(col.Type),
			boolToInt(col.Visible), col.Width, pos, settings); err != nil {
			return err
		}
		return touchBoard(ctx, tx, col.BoardID)
	})
	if err != nil {
		return nil, fmt.Errorf("creating column %q: %w", col.ID, err)
	}
	return &col, nil
}

// GetColumnsByBoard returns every column, hidden ones included, ordered by
// position then id
func (r *ColumnRepo) GetColumnsByBoard(ctx context.Context, boardID types.BoardID) ([]models.Column, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, type, visible, width, position, settings
		 FROM grid_columns WHERE board_id = ? ORDER BY position, id`, boardID.ToInt())
	if err != nil {
		return nil, fmt.Errorf("querying columns for board: %w", err)
	}
	defer rows.Close()

	var columns []models.Column
	for rows.Next() {
		var (
			id, typ, settings string
			visible           int
			c                 = models.Column{BoardID: boardID}
		)
		if err := rows.Scan(&id, &c.Name, &typ, &visible, &c.Width, &c.Position, &settings); err != nil {
			return nil, err
		}
		c.ID = types.ColumnID(id)
		c.Type = models.ColumnType(typ)
		c.Visible = visible != 0
		if c.Settings, err = decodeJSON(settings); err != nil {
			return nil, fmt.Errorf("column %s settings: %w", id, err)
		}
		columns = append(columns, c)
	}
	return columns, rows.Err()
}

// UpdateColumnWidth stores a clamped width
func (r *ColumnRepo) UpdateColumnWidth(ctx context.Context, boardID types.BoardID, id types.ColumnID, width int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE grid_columns SET width = ? WHERE board_id = ? AND id = ?`,
		models.ClampWidth(width), boardID.ToInt(), string(id))
	if err != nil {
		return fmt.Errorf("resizing column %s: %w", id, err)
	}
	return expectOne(res, models.ErrColumnNotFound)
}

// SetColumnVisible shows or hides a column
func (r *ColumnRepo) SetColumnVisible(ctx context.Context, boardID types.BoardID, id types.ColumnID, visible bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE grid_columns SET visible = ? WHERE board_id = ? AND id = ?`,
		boolToInt(visible), boardID.ToInt(), string(id))
	if err != nil {
		return fmt.Errorf("updating column %s: %w", id, err)
	}
	return expectOne(res, models.ErrColumnNotFound)
}

// ReorderColumns rewrites positions so that ids appear in the given order.
// Columns not listed keep their relative order after the listed ones.
func (r *ColumnRepo) ReorderColumns(ctx context.Context, boardID types.BoardID, ids []types.ColumnID) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			`SELECT id FROM grid_columns WHERE board_id = ? ORDER BY position, id`, boardID.ToInt())
		if err != nil {
			return err
		}
		var existing []types.ColumnID
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			existing = append(existing, types.ColumnID(id))
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		listed := make(map[types.ColumnID]bool, len(ids))
		order := make([]types.ColumnID, 0, len(existing))
		for _, id := range ids {
			if listed[id] {
				continue
			}
			listed[id] = true
			order = append(order, id)
		}
		for _, id := range existing {
			if !listed[id] {
				order = append(order, id)
			}
		}

		for i, id := range order {
			res, err := tx.ExecContext(ctx,
				`UPDATE grid_columns SET position = ? WHERE board_id = ? AND id = ?`,
				float64(i), boardID.ToInt(), string(id))
			if err != nil {
				return fmt.Errorf("reordering column %s: %w", id, err)
			}
			if err := expectOne(res, models.ErrColumnNotFound); err != nil {
				return fmt.Errorf("column %s: %w", id, err)
			}
		}
		return touchBoard(ctx, tx, boardID)
	})
}

// DeleteColumn removes the column definition; cell data stays in item JSON
func (r *ColumnRepo) DeleteColumn(ctx context.Context, boardID types.BoardID, id types.ColumnID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM grid_columns WHERE board_id = ? AND id = ?`, boardID.ToInt(), string(id))
	if err != nil {
		return fmt.Errorf("deleting column %s: %w", id, err)
	}
	return expectOne(res, models.ErrColumnNotFound)
}
