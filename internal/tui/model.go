package tui

import (
	"context"
	"log/slog"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/huh/v2"
	"github.com/thenoetrevino/tabla/internal/app"
	"github.com/thenoetrevino/tabla/internal/config"
	"github.com/thenoetrevino/tabla/internal/events"
	"github.com/thenoetrevino/tabla/internal/grid"
	"github.com/thenoetrevino/tabla/internal/grid/focus"
	"github.com/thenoetrevino/tabla/internal/grid/project"
	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/tui/state"
	"github.com/thenoetrevino/tabla/internal/types"
	"github.com/thenoetrevino/tabla/internal/user"
)

// Model represents the application state for the TUI. It is passed by
// value; everything that must survive a copy lives behind a pointer.
type Model struct {
	ctx    context.Context
	app    *app.App
	config *config.Config
	keys   keyMap
	logger *slog.Logger

	engine *grid.Engine
	fx     *effects

	uiState           *state.UIState
	notificationState *state.NotificationState
	connectionState   *state.ConnectionState

	boards   []*models.Board
	board    *models.Board
	groups   []models.Group
	boardRef string
	self     types.UserID
	selfName string

	editor  *textinput.Model
	form    *formState
	detail  *viewport.Model
	help    help.Model
	pointer *pointerState

	eventChan <-chan events.Event
	listening bool

	clipboard focus.SystemClipboard
	now       func() time.Time
}

// Option configures a Model
type Option func(*Model)

// WithClipboard replaces the system clipboard, mostly for tests
func WithClipboard(c focus.SystemClipboard) Option {
	return func(m *Model) { m.clipboard = c }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// New creates the model for a board reference (id or name). An empty
// reference opens the first board.
func New(ctx context.Context, a *app.App, boardRef string, opts ...Option) Model {
	selfName := user.GetCurrentUsername()
	self := types.UserID(selfName)
	if c, ok := a.Events().(*events.Client); ok && c != nil {
		self = types.UserID(c.ID())
	}

	m := Model{
		ctx:               ctx,
		app:               a,
		config:            a.Config(),
		keys:              newKeyMap(a.Config().KeyMappings),
		logger:            a.Logger(),
		fx:                &effects{},
		uiState:           state.NewUIState(),
		notificationState: state.NewNotificationState(),
		connectionState:   state.NewConnectionState(state.Standalone),
		boardRef:          boardRef,
		self:              self,
		selfName:          selfName,
		help:              help.New(),
		pointer:           &pointerState{},
		now:               time.Now,
	}
	if a.Events() != nil {
		m.connectionState.SetStatus(state.Connected)
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.notificationState.SetClock(m.now)
	m.engine = m.newEngine()
	return m
}

// Init loads the board and starts the expiry ticker
func (m Model) Init() tea.Cmd {
	return tea.Batch(loadBoard(m.ctx, m.app.BoardService, m.boardRef), tick())
}

// newEngine builds a grid engine whose callbacks queue side effects on fx
func (m Model) newEngine() *grid.Engine {
	opts := []grid.Option{grid.WithMutator(m.app.BoardService)}
	if m.clipboard != nil {
		opts = append(opts, grid.WithClipboard(m.clipboard))
	}
	fx := m.fx
	return grid.New(m.config.Grid.Engine(m.self), grid.Callbacks{
		OnColumnResize:        fx.columnResized,
		OnColumnReorder:       fx.columnsReordered,
		OnGroupCollapseToggle: fx.groupToggled,
		OnCellEditStart:       fx.editStarted,
		OnCellEditEnd:         fx.editEnded,
		OnOpenDetail:          fx.openDetail,
	}, opts...)
}

// Engine returns the grid engine, for tests and the core wrapper
func (m Model) Engine() *grid.Engine {
	return m.engine
}

// Board returns the board on screen, or nil
func (m Model) Board() *models.Board {
	return m.board
}

// Mode returns the current UI mode
func (m Model) Mode() state.Mode {
	return m.uiState.Mode()
}

// Notifications returns the pending notifications
func (m Model) Notifications() []state.Notification {
	return m.notificationState.All()
}

// formState holds the open huh form and what to do when it completes
type formState struct {
	form     *huh.Form
	title    string
	onSubmit func(m *Model) tea.Cmd
}

// effects collects the side effects engine callbacks ask for. The engine
// calls back synchronously inside Update, so the queue is drained before
// Update returns.
type effects struct {
	m      *Model
	cmds   []tea.Cmd
	detail types.ItemID
}

func (fx *effects) bind(m *Model) {
	fx.m = m
}

func (fx *effects) add(cmd tea.Cmd) {
	if cmd != nil {
		fx.cmds = append(fx.cmds, cmd)
	}
}

func (fx *effects) boardID() (types.BoardID, bool) {
	if fx.m == nil || fx.m.board == nil {
		return 0, false
	}
	return fx.m.board.ID, true
}

func (fx *effects) columnResized(col types.ColumnID, width int) {
	id, ok := fx.boardID()
	if !ok {
		return
	}
	m := fx.m
	svc, ctx, layout := m.app.BoardService, m.ctx, m.engine.Layout()
	fx.add(persist("resize column",
		func() error { return svc.ResizeColumn(ctx, id, col, width) },
		func() { layout.ResetWidth(col) },
		true,
	))
}

func (fx *effects) columnsReordered(ids []types.ColumnID) {
	id, ok := fx.boardID()
	if !ok {
		return
	}
	m := fx.m
	svc, ctx, layout := m.app.BoardService, m.ctx, m.engine.Layout()
	fx.add(persist("reorder columns",
		func() error { return svc.ReorderColumns(ctx, id, ids) },
		layout.ResetOrder,
		true,
	))
}

// groupToggled persists the collapsed flag of real groups. Value buckets
// only exist in this session.
func (fx *effects) groupToggled(gid types.GroupID, collapsed bool) {
	if fx.m == nil || project.IsSynthetic(gid) {
		return
	}
	m := fx.m
	svc, ctx := m.app.BoardService, m.ctx
	fx.add(persist("collapse group",
		func() error { return svc.SetGroupCollapsed(ctx, gid, collapsed) },
		nil,
		false,
	))
}

func (fx *effects) editStarted(itemID types.ItemID, col types.ColumnID) {
	fx.add(fx.presence(itemID, col))
}

func (fx *effects) editEnded() {
	fx.add(fx.presence("", ""))
}

func (fx *effects) presence(itemID types.ItemID, col types.ColumnID) tea.Cmd {
	id, ok := fx.boardID()
	if !ok {
		return nil
	}
	m := fx.m
	return sendPresence(m.app.Events(), models.Presence{
		UserID:          m.self,
		UserName:        m.selfName,
		BoardID:         id,
		EditingItemID:   itemID,
		EditingColumnID: col,
		LastSeen:        m.now(),
	})
}

func (fx *effects) openDetail(itemID types.ItemID) {
	fx.detail = itemID
}

// drain returns the queued effects plus commands committing the engine's
// prepared changes
func (fx *effects) drain(m *Model) tea.Cmd {
	cmds := fx.cmds
	fx.cmds = nil
	if ops := m.engine.Ops(); len(ops) > 0 {
		cmds = append(cmds, commitOps(m.ctx, ops))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}
