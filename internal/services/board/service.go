// Package board holds the business rules for boards, their groups, columns
// and items. Every write publishes a change event so other clients reload.
package board

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/thenoetrevino/tabla/internal/database"
	"github.com/thenoetrevino/tabla/internal/events"
	"github.com/thenoetrevino/tabla/internal/grid/drag"
	"github.com/thenoetrevino/tabla/internal/grid/edit"
	"github.com/thenoetrevino/tabla/internal/grid/project"
	"github.com/thenoetrevino/tabla/internal/grid/rows"
	"github.com/thenoetrevino/tabla/internal/grid/value"
	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/types"
)

const maxNameLength = 255

var columnIDPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// Service defines all board-related business operations
type Service interface {
	// Read operations
	ListBoards(ctx context.Context) ([]*models.Board, error)
	GetBoard(ctx context.Context, ref string) (*models.Board, error)
	LoadBoard(ctx context.Context, boardID types.BoardID) (*Snapshot, error)

	// Board structure
	CreateBoard(ctx context.Context, req CreateBoardRequest) (*models.Board, error)
	DeleteBoard(ctx context.Context, boardID types.BoardID) error
	AddGroup(ctx context.Context, req AddGroupRequest) (*models.Group, error)
	SetGroupCollapsed(ctx context.Context, groupID types.GroupID, collapsed bool) error
	AddColumn(ctx context.Context, req AddColumnRequest) (*models.Column, error)
	ResizeColumn(ctx context.Context, boardID types.BoardID, columnID types.ColumnID, width int) error
	ReorderColumns(ctx context.Context, boardID types.BoardID, ids []types.ColumnID) error
	SetColumnVisible(ctx context.Context, boardID types.BoardID, columnID types.ColumnID, visible bool) error

	// Items
	AddItem(ctx context.Context, req AddItemRequest) (*models.Item, error)
	DeleteItem(ctx context.Context, itemID types.ItemID) error
	UpdateCell(ctx context.Context, itemID types.ItemID, columnID types.ColumnID, v any) error
	MoveItem(ctx context.Context, itemID types.ItemID, groupID types.GroupID, position float64) error
	ReorderGroup(ctx context.Context, groupID types.GroupID, positions []drag.Placement) error

	// Demo data
	Seed(ctx context.Context, req SeedRequest) (*models.Board, error)
}

// Snapshot is everything the grid needs to render one board
type Snapshot struct {
	Board   *models.Board
	Groups  []models.Group
	Columns []models.Column
	Items   []models.Item
}

// CreateBoardRequest encapsulates all data needed to create a board
type CreateBoardRequest struct {
	Name        string
	Description string
	Groups      []string // Optional: initial groups in order
}

// AddGroupRequest encapsulates all data needed to add a group
type AddGroupRequest struct {
	BoardID types.BoardID
	Name    string
	Color   string // Optional: empty means models.DefaultGroupColor
}

// AddColumnRequest encapsulates all data needed to add a column
type AddColumnRequest struct {
	BoardID types.BoardID
	ID      types.ColumnID
	Name    string
	Type    models.ColumnType
	Width   int      // Optional: 0 means the default width
	Options []string // Optional: status column labels in display order
	Hidden  bool
}

// AddItemRequest encapsulates all data needed to add an item
type AddItemRequest struct {
	BoardID types.BoardID
	GroupID types.GroupID // Optional: empty means the default group
	Name    string
	Data    map[string]any
}

// service implements Service interface
type service struct {
	repo        database.DataStore
	eventClient events.EventPublisher
}

// NewService creates a new board service. eventClient may be nil.
func NewService(repo database.DataStore, eventClient events.EventPublisher) Service {
	return &service{
		repo:        repo,
		eventClient: eventClient,
	}
}

var _ edit.Mutator = (*service)(nil)

func (s *service) ListBoards(ctx context.Context) ([]*models.Board, error) {
	return s.repo.GetAllBoards(ctx)
}

// GetBoard resolves a numeric id or a board name
func (s *service) GetBoard(ctx context.Context, ref string) (*models.Board, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrEmptyName
	}
	if id, err := strconv.Atoi(ref); err == nil && id > 0 {
		b, err := s.repo.GetBoardByID(ctx, types.BoardID(id))
		if err == nil {
			return b, nil
		}
	}
	return s.repo.GetBoardByName(ctx, ref)
}

func (s *service) LoadBoard(ctx context.Context, boardID types.BoardID) (*Snapshot, error) {
	if boardID <= 0 {
		return nil, ErrInvalidBoardID
	}
	b, err := s.repo.GetBoardByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{Board: b}
	if snap.Groups, err = s.repo.GetGroupsByBoard(ctx, boardID); err != nil {
		return nil, fmt.Errorf("failed to load groups: %w", err)
	}
	if snap.Columns, err = s.repo.GetColumnsByBoard(ctx, boardID); err != nil {
		return nil, fmt.Errorf("failed to load columns: %w", err)
	}
	if snap.Items, err = s.repo.GetItemsByBoard(ctx, boardID); err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	return snap, nil
}

// CreateBoard creates the board, its built-in name column and any initial
// groups
func (s *service) CreateBoard(ctx context.Context, req CreateBoardRequest) (*models.Board, error) {
	if err := validateName(req.Name); err != nil {
		return nil, err
	}
	for _, g := range req.Groups {
		if err := validateName(g); err != nil {
			return nil, fmt.Errorf("group %q: %w", g, err)
		}
	}

	b, err := s.repo.CreateBoard(ctx, strings.TrimSpace(req.Name), req.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}
	if _, err := s.repo.CreateColumn(ctx, models.Column{
		ID:      models.NameColumnID,
		BoardID: b.ID,
		Name:    "Name",
		Type:    models.ColumnText,
		Visible: true,
		Width:   250,
	}); err != nil {
		return nil, fmt.Errorf("failed to create name column: %w", err)
	}
	for _, g := range req.Groups {
		if _, err := s.repo.CreateGroup(ctx, b.ID, strings.TrimSpace(g), ""); err != nil {
			return nil, fmt.Errorf("failed to create group: %w", err)
		}
	}

	s.publishBoardEvent(b.ID)
	return b, nil
}

func (s *service) DeleteBoard(ctx context.Context, boardID types.BoardID) error {
	if boardID <= 0 {
		return ErrInvalidBoardID
	}
	if err := s.repo.DeleteBoard(ctx, boardID); err != nil {
		return err
	}
	s.publishBoardEvent(boardID)
	return nil
}

func (s *service) AddGroup(ctx context.Context, req AddGroupRequest) (*models.Group, error) {
	if req.BoardID <= 0 {
		return nil, ErrInvalidBoardID
	}
	if err := validateName(req.Name); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetBoardByID(ctx, req.BoardID); err != nil {
		return nil, err
	}
	g, err := s.repo.CreateGroup(ctx, req.BoardID, strings.TrimSpace(req.Name), req.Color)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	s.publishBoardEvent(req.BoardID)
	return g, nil
}

func (s *service) SetGroupCollapsed(ctx context.Context, groupID types.GroupID, collapsed bool) error {
	if project.IsSynthetic(groupID) || groupID == rows.DefaultGroupID {
		// value buckets and the implicit group only collapse locally
		return nil
	}
	boardID, err := s.repo.GetGroupBoard(ctx, groupID)
	if err != nil {
		return err
	}
	if err := s.repo.SetGroupCollapsed(ctx, groupID, collapsed); err != nil {
		return err
	}
	s.publishBoardEvent(boardID)
	return nil
}

func (s *service) AddColumn(ctx context.Context, req AddColumnRequest) (*models.Column, error) {
	if err := s.validateAddColumn(ctx, req); err != nil {
		return nil, err
	}

	col := models.Column{
		ID:      req.ID,
		BoardID: req.BoardID,
		Name:    strings.TrimSpace(req.Name),
		Type:    req.Type,
		Visible: !req.Hidden,
	}
	if req.Width != 0 {
		col.Width = models.ClampWidth(req.Width)
	}
	if len(req.Options) > 0 {
		opts := make([]any, len(req.Options))
		for i, o := range req.Options {
			opts[i] = o
		}
		col.Settings = map[string]any{"options": opts}
	}

	created, err := s.repo.CreateColumn(ctx, col)
	if err != nil {
		return nil, fmt.Errorf("failed to create column: %w", err)
	}
	s.publishBoardEvent(req.BoardID)
	return created, nil
}

func (s *service) ResizeColumn(ctx context.Context, boardID types.BoardID, columnID types.ColumnID, width int) error {
	if boardID <= 0 {
		return ErrInvalidBoardID
	}
	if err := s.repo.UpdateColumnWidth(ctx, boardID, columnID, width); err != nil {
		return err
	}
	s.publishBoardEvent(boardID)
	return nil
}

func (s *service) ReorderColumns(ctx context.Context, boardID types.BoardID, ids []types.ColumnID) error {
	if boardID <= 0 {
		return ErrInvalidBoardID
	}
	if err := s.repo.ReorderColumns(ctx, boardID, ids); err != nil {
		return err
	}
	s.publishBoardEvent(boardID)
	return nil
}

// SetColumnVisible hides or shows a column. The name column is always shown.
func (s *service) SetColumnVisible(ctx context.Context, boardID types.BoardID, columnID types.ColumnID, visible bool) error {
	if boardID <= 0 {
		return ErrInvalidBoardID
	}
	if columnID == models.NameColumnID && !visible {
		return ErrReservedColumn
	}
	if err := s.repo.SetColumnVisible(ctx, boardID, columnID, visible); err != nil {
		return err
	}
	s.publishBoardEvent(boardID)
	return nil
}

func (s *service) AddItem(ctx context.Context, req AddItemRequest) (*models.Item, error) {
	if req.BoardID <= 0 {
		return nil, ErrInvalidBoardID
	}
	if err := validateName(req.Name); err != nil {
		return nil, err
	}
	if project.IsSynthetic(req.GroupID) {
		return nil, ErrSyntheticGroup
	}
	req.GroupID = storedGroup(req.GroupID)
	if !req.GroupID.IsZero() {
		owner, err := s.repo.GetGroupBoard(ctx, req.GroupID)
		if err != nil {
			return nil, err
		}
		if owner != req.BoardID {
			return nil, ErrCrossBoardMove
		}
	}

	cols, err := s.repo.GetColumnsByBoard(ctx, req.BoardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load columns: %w", err)
	}
	colTypes := make(map[string]models.ColumnType, len(cols))
	for _, c := range cols {
		colTypes[string(c.ID)] = c.Type
	}

	data := make(map[string]any, len(req.Data))
	for k, v := range req.Data {
		if text, ok := v.(string); ok {
			if t, known := colTypes[k]; known {
				v = value.Coerce(text, t)
			}
		}
		if nv := value.Normalize(v); !value.IsEmpty(nv) {
			data[k] = nv
		}
	}
	it, err := s.repo.CreateItem(ctx, req.BoardID, req.GroupID, strings.TrimSpace(req.Name), data)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	s.publishBoardEvent(req.BoardID)
	return it, nil
}

func (s *service) DeleteItem(ctx context.Context, itemID types.ItemID) error {
	boardID, err := s.repo.GetItemBoard(ctx, itemID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return err
	}
	s.publishBoardEvent(boardID)
	return nil
}

// UpdateCell writes one cell. Text values are coerced to the column type
// (e.g., "3" into a number column stores 3). Writing the name column renames
// the item.
func (s *service) UpdateCell(ctx context.Context, itemID types.ItemID, columnID types.ColumnID, v any) error {
	boardID, err := s.repo.GetItemBoard(ctx, itemID)
	if err != nil {
		return err
	}

	if columnID == models.NameColumnID {
		name := strings.TrimSpace(value.String(v))
		if err := validateName(name); err != nil {
			return err
		}
		if err := s.repo.UpdateItemName(ctx, itemID, name); err != nil {
			return err
		}
		s.publishBoardEvent(boardID)
		return nil
	}

	col, err := s.column(ctx, boardID, columnID)
	if err != nil {
		return err
	}
	if text, ok := v.(string); ok {
		v = value.Coerce(text, col.Type)
	}
	v = value.Normalize(v)
	if value.IsEmpty(v) {
		v = nil
	}

	if err := s.repo.UpdateItemField(ctx, itemID, string(columnID), v); err != nil {
		return fmt.Errorf("failed to update cell: %w", err)
	}
	s.publishBoardEvent(boardID)
	return nil
}

// MoveItem changes an item's group. An empty group id moves it to the
// default group.
func (s *service) MoveItem(ctx context.Context, itemID types.ItemID, groupID types.GroupID, position float64) error {
	if position < 0 {
		return ErrInvalidPosition
	}
	if project.IsSynthetic(groupID) {
		return ErrSyntheticGroup
	}
	groupID = storedGroup(groupID)
	boardID, err := s.repo.GetItemBoard(ctx, itemID)
	if err != nil {
		return err
	}
	if !groupID.IsZero() {
		owner, err := s.repo.GetGroupBoard(ctx, groupID)
		if err != nil {
			return err
		}
		if owner != boardID {
			return ErrCrossBoardMove
		}
	}
	if err := s.repo.MoveItem(ctx, itemID, groupID, position); err != nil {
		return err
	}
	s.publishBoardEvent(boardID)
	return nil
}

// ReorderGroup stores new positions for items that all live in groupID.
// Items without a stored group render inside the first group, so they are
// adopted by it here.
func (s *service) ReorderGroup(ctx context.Context, groupID types.GroupID, positions []drag.Placement) error {
	if len(positions) == 0 {
		return ErrEmptyReorder
	}
	groupID = storedGroup(groupID)

	var boardID types.BoardID
	updates := make(map[types.ItemID]float64, len(positions))
	adopt := make(map[types.ItemID]float64)
	for i, p := range positions {
		if p.Position < 0 {
			return ErrInvalidPosition
		}
		it, err := s.repo.GetItemByID(ctx, p.ItemID)
		if err != nil {
			return err
		}
		if i == 0 {
			boardID = it.BoardID
		}
		switch {
		case it.GroupID == groupID:
			updates[p.ItemID] = p.Position
		case it.GroupID.IsZero() && it.BoardID == boardID:
			adopt[p.ItemID] = p.Position
		default:
			return fmt.Errorf("item %s: %w", p.ItemID, ErrGroupMismatch)
		}
	}
	if err := s.repo.SetItemPositions(ctx, updates); err != nil {
		return err
	}
	for id, pos := range adopt {
		if err := s.repo.MoveItem(ctx, id, groupID, pos); err != nil {
			return err
		}
	}
	s.publishBoardEvent(boardID)
	return nil
}

// storedGroup maps the implicit default group to "no group"
func storedGroup(id types.GroupID) types.GroupID {
	if id == rows.DefaultGroupID {
		return ""
	}
	return id
}

func (s *service) column(ctx context.Context, boardID types.BoardID, id types.ColumnID) (models.Column, error) {
	cols, err := s.repo.GetColumnsByBoard(ctx, boardID)
	if err != nil {
		return models.Column{}, err
	}
	for _, c := range cols {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Column{}, fmt.Errorf("%w: %s", models.ErrColumnNotFound, id)
}

func (s *service) validateAddColumn(ctx context.Context, req AddColumnRequest) error {
	if req.BoardID <= 0 {
		return ErrInvalidBoardID
	}
	if req.ID == models.NameColumnID {
		return ErrReservedColumn
	}
	if !columnIDPattern.MatchString(string(req.ID)) {
		return ErrInvalidColumnID
	}
	if !req.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidColumnType, req.Type)
	}
	if err := validateName(req.Name); err != nil {
		return err
	}
	if _, err := s.column(ctx, req.BoardID, req.ID); err == nil {
		return ErrDuplicateColumn
	}
	_, err := s.repo.GetBoardByID(ctx, req.BoardID)
	return err
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > maxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// publishBoardEvent tells other clients to reload. Failures are logged by
// the publisher and never fail the write.
func (s *service) publishBoardEvent(boardID types.BoardID) {
	if s.eventClient == nil {
		return
	}
	_ = events.PublishBoardChanged(s.eventClient, boardID.ToInt())
}
