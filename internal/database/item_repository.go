package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/types"
)

// ItemRepo handles all item-related database operations.
type ItemRepo struct {
	db *sql.DB
}

const itemColumns = `id, board_id, group_id, name, position, data, created_at, updated_at`

func scanItem(row interface{ Scan(...any) error }) (models.Item, error) {
	var (
		it      models.Item
		id      int64
		boardID int64
		groupID sql.NullInt64
		data    string
	)
	if err := row.Scan(&id, &boardID, &groupID, &it.Name, &it.Position, &data, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return it, err
	}
	it.ID = types.ItemIDFromInt(id)
	it.BoardID = types.BoardID(boardID)
	if groupID.Valid {
		it.GroupID = types.GroupIDFromInt(groupID.Int64)
	}
	m, err := decodeJSON(data)
	if err != nil {
		return it, fmt.Errorf("item %d data: %w", id, err)
	}
	it.Data = m
	return it, nil
}

// CreateItem appends an item at the end of its group. An empty or
// synthetic group id stores no group.
func (r *ItemRepo) CreateItem(ctx context.Context, boardID types.BoardID, groupID types.GroupID, name string, data map[string]any) (*models.Item, error) {
	encoded, err := encodeJSON(data)
	if err != nil {
		return nil, err
	}
	gid := nullGroupID(groupID.Int64())

	var id int64
	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		pos, err := nextPosition(ctx, tx,
			`SELECT MAX(position) FROM items WHERE board_id = ? AND group_id IS ?`, boardID.ToInt(), gid)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO items (board_id, group_id, name, position, data) VALUES (?, ?, ?, ?, ?)`,
			boardID.ToInt(), gid, name, pos, encoded)
		if err != nil {
			return err
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		return touchBoard(ctx, tx, boardID)
	})
	if err != nil {
		return nil, fmt.Errorf("creating item %q: %w", name, err)
	}
	it, err := r.GetItemByID(ctx, types.ItemIDFromInt(id))
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// GetItemsByBoard returns every item on the board ordered by group, then
// position, then id
func (r *ItemRepo) GetItemsByBoard(ctx context.Context, boardID types.BoardID) ([]models.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE board_id = ? ORDER BY group_id, position, id`, boardID.ToInt())
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetItemByID returns models.ErrItemNotFound when the item is missing
func (r *ItemRepo) GetItemByID(ctx context.Context, id types.ItemID) (models.Item, error) {
	n, ok := id.Int64()
	if !ok {
		return models.Item{}, models.ErrItemNotFound
	}
	it, err := scanItem(r.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, n))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Item{}, models.ErrItemNotFound
	}
	return it, err
}

// UpdateItemName sets the display name
func (r *ItemRepo) UpdateItemName(ctx context.Context, id types.ItemID, name string) error {
	n, ok := id.Int64()
	if !ok {
		return models.ErrItemNotFound
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE items SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, name, n)
	if err != nil {
		return fmt.Errorf("renaming item %s: %w", id, err)
	}
	return expectOne(res, models.ErrItemNotFound)
}

// UpdateItemField writes one key of the item's data. A nil value removes
// the key.
func (r *ItemRepo) UpdateItemField(ctx context.Context, id types.ItemID, key string, v any) error {
	n, ok := id.Int64()
	if !ok {
		return models.ErrItemNotFound
	}
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var raw string
		err := tx.QueryRowContext(ctx, `SELECT data FROM items WHERE id = ?`, n).Scan(&raw)
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrItemNotFound
		}
		if err != nil {
			return err
		}
		data, err := decodeJSON(raw)
		if err != nil {
			return err
		}
		if v == nil {
			delete(data, key)
		} else {
			data[key] = v
		}
		encoded, err := encodeJSON(data)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE items SET data = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, encoded, n)
		return err
	})
}

// MoveItem changes an item's group and position in one statement
func (r *ItemRepo) MoveItem(ctx context.Context, id types.ItemID, groupID types.GroupID, position float64) error {
	n, ok := id.Int64()
	if !ok {
		return models.ErrItemNotFound
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE items SET group_id = ?, position = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		nullGroupID(groupID.Int64()), position, n)
	if err != nil {
		return fmt.Errorf("moving item %s: %w", id, err)
	}
	return expectOne(res, models.ErrItemNotFound)
}

// SetItemPositions rewrites positions for several items atomically
func (r *ItemRepo) SetItemPositions(ctx context.Context, positions map[types.ItemID]float64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for id, pos := range positions {
			n, ok := id.Int64()
			if !ok {
				return fmt.Errorf("item %s: %w", id, models.ErrItemNotFound)
			}
			res, err := tx.ExecContext(ctx, `UPDATE items SET position = ? WHERE id = ?`, pos, n)
			if err != nil {
				return err
			}
			if err := expectOne(res, models.ErrItemNotFound); err != nil {
				return fmt.Errorf("item %s: %w", id, err)
			}
		}
		return nil
	})
}

// GetItemBoard returns the board that owns an item
func (r *ItemRepo) GetItemBoard(ctx context.Context, id types.ItemID) (types.BoardID, error) {
	n, ok := id.Int64()
	if !ok {
		return 0, models.ErrItemNotFound
	}
	var boardID int64
	err := r.db.QueryRowContext(ctx, `SELECT board_id FROM items WHERE id = ?`, n).Scan(&boardID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, models.ErrItemNotFound
	}
	return types.BoardID(boardID), err
}

// DeleteItem removes an item
func (r *ItemRepo) DeleteItem(ctx context.Context, id types.ItemID) error {
	n, ok := id.Int64()
	if !ok {
		return models.ErrItemNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, n)
	if err != nil {
		return fmt.Errorf("deleting item %s: %w", id, err)
	}
	return expectOne(res, models.ErrItemNotFound)
}
