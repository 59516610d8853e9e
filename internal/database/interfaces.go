package database

import (
	"context"

	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/types"
)

// BoardReader defines read operations for boards.
type BoardReader interface {
	GetAllBoards(ctx context.Context) ([]*models.Board, error)
	GetBoardByID(ctx context.Context, id types.BoardID) (*models.Board, error)
	GetBoardByName(ctx context.Context, name string) (*models.Board, error)
}

// BoardWriter defines write operations for boards.
type BoardWriter interface {
	CreateBoard(ctx context.Context, name, description string) (*models.Board, error)
	DeleteBoard(ctx context.Context, id types.BoardID) error
}

// BoardRepository combines all board-related operations.
type BoardRepository interface {
	BoardReader
	BoardWriter
}

// GroupReader defines read operations for groups.
type GroupReader interface {
	GetGroupsByBoard(ctx context.Context, boardID types.BoardID) ([]models.Group, error)
	GetGroupBoard(ctx context.Context, id types.GroupID) (types.BoardID, error)
}

// GroupWriter defines write operations for groups.
type GroupWriter interface {
	CreateGroup(ctx context.Context, boardID types.BoardID, name, color string) (*models.Group, error)
	SetGroupCollapsed(ctx context.Context, id types.GroupID, collapsed bool) error
	RenameGroup(ctx context.Context, id types.GroupID, name string) error
	DeleteGroup(ctx context.Context, id types.GroupID) error
}

// GroupRepository combines all group-related operations.
type GroupRepository interface {
	GroupReader
	GroupWriter
}

// ColumnReader defines read operations for columns.
type ColumnReader interface {
	GetColumnsByBoard(ctx context.Context, boardID types.BoardID) ([]models.Column, error)
}

// ColumnWriter defines write operations for columns.
type ColumnWriter interface {
	CreateColumn(ctx context.Context, col models.Column) (*models.Column, error)
	UpdateColumnWidth(ctx context.Context, boardID types.BoardID, id types.ColumnID, width int) error
	SetColumnVisible(ctx context.Context, boardID types.BoardID, id types.ColumnID, visible bool) error
	ReorderColumns(ctx context.Context, boardID types.BoardID, ids []types.ColumnID) error
	DeleteColumn(ctx context.Context, boardID types.BoardID, id types.ColumnID) error
}

// ColumnRepository combines all column-related operations.
type ColumnRepository interface {
	ColumnReader
	ColumnWriter
}

// ItemReader defines read operations for items.
type ItemReader interface {
	GetItemsByBoard(ctx context.Context, boardID types.BoardID) ([]models.Item, error)
	GetItemByID(ctx context.Context, id types.ItemID) (models.Item, error)
	GetItemBoard(ctx context.Context, id types.ItemID) (types.BoardID, error)
}

// ItemWriter defines write operations for items.
type ItemWriter interface {
	CreateItem(ctx context.Context, boardID types.BoardID, groupID types.GroupID, name string, data map[string]any) (*models.Item, error)
	UpdateItemName(ctx context.Context, id types.ItemID, name string) error
	UpdateItemField(ctx context.Context, id types.ItemID, key string, v any) error
	MoveItem(ctx context.Context, id types.ItemID, groupID types.GroupID, position float64) error
	SetItemPositions(ctx context.Context, positions map[types.ItemID]float64) error
	DeleteItem(ctx context.Context, id types.ItemID) error
}

// ItemRepository combines all item-related operations.
type ItemRepository interface {
	ItemReader
	ItemWriter
}
