package tui

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/thenoetrevino/tabla/internal/events"
	"github.com/thenoetrevino/tabla/internal/grid/project"
	boardservice "github.com/thenoetrevino/tabla/internal/services/board"
	"github.com/thenoetrevino/tabla/internal/tui/state"
)

// chromeHeight is the title bar, the sticky header, the status bar and the help line
const chromeHeight = 4

// Update handles all messages and updates the model accordingly
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	select {
	case <-m.ctx.Done():
		return m, tea.Quit
	default:
	}

	m.fx.bind(&m)
	cmd := m.update(msg)
	return m, tea.Batch(cmd, m.afterUpdate(msg))
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	// Forms need every message, not only keys
	if m.uiState.Mode() == state.FormMode && m.form != nil {
		if !isDataMsg(msg) {
			return m.updateForm(msg)
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg.Width, msg.Height)
		return nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.MouseClickMsg:
		return m.handleMouseClick(msg)
	case tea.MouseMotionMsg:
		return m.handleMouseMotion(msg)
	case tea.MouseReleaseMsg:
		return m.handleMouseRelease(msg)
	case tea.MouseWheelMsg:
		return m.handleMouseWheel(msg)

	case tea.PasteMsg:
		if m.editor != nil {
			return m.updateEditor(msg)
		}
		return nil

	case boardLoadedMsg:
		return m.handleBoardLoaded(msg)

	case snapshotMsg:
		if msg.err != nil {
			m.notifyError("reload board", msg.err)
			return nil
		}
		if m.board != nil && msg.snapshot != nil && msg.snapshot.Board.ID == m.board.ID {
			m.applySnapshot(msg.snapshot)
		}
		return nil

	case opDoneMsg:
		m.engine.Refresh()
		if msg.err != nil {
			m.notificationState.Add(state.LevelError, fmt.Sprintf("Reverted: %v", msg.err))
		}
		return nil

	case structureDoneMsg:
		if msg.err != nil {
			if msg.revert != nil {
				msg.revert()
				m.engine.Refresh()
			}
			m.notifyError(msg.label, msg.err)
			return nil
		}
		if msg.reload && m.board != nil {
			return reloadBoard(m.ctx, m.app.BoardService, m.board.ID)
		}
		return nil

	case itemSavedMsg:
		if msg.err != nil {
			m.notifyError("save item", msg.err)
			return nil
		}
		m.notificationState.Add(state.LevelInfo, msg.message)
		if m.board != nil {
			return reloadBoard(m.ctx, m.app.BoardService, m.board.ID)
		}
		return nil

	case RefreshMsg:
		return tea.Batch(m.handleEvent(msg.Event), waitForEvent(m.ctx, m.eventChan))

	case ConnectionLostMsg:
		m.connectionState.SetStatus(state.Disconnected)
		m.notificationState.Add(state.LevelWarning, "Lost connection to the daemon, live updates paused")
		m.eventChan = nil
		m.listening = false
		return nil

	case tickMsg:
		now := time.Time(msg)
		m.notificationState.Expire(now)
		m.engine.ExpirePresence(now)
		return tick()
	}
	return nil
}

// afterUpdate drains engine side effects and reacts to state the engine
// changed during the update
func (m *Model) afterUpdate(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	if id := m.fx.detail; id != "" {
		m.fx.detail = ""
		m.openDetail(id)
	}
	cmds = append(cmds, m.syncEditor())
	cmds = append(cmds, m.fx.drain(m))
	if _, ok := msg.(tea.KeyPressMsg); ok {
		m.revealFocusedColumn()
	}
	return tea.Batch(cmds...)
}

// isDataMsg reports messages that must reach the model even while a form
// is open
func isDataMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case boardLoadedMsg, snapshotMsg, opDoneMsg, structureDoneMsg, itemSavedMsg,
		RefreshMsg, ConnectionLostMsg, tickMsg, tea.WindowSizeMsg:
		return true
	}
	return false
}

func (m *Model) handleResize(width, height int) {
	m.uiState.SetWidth(width)
	m.uiState.SetHeight(height)
	m.engine.SetViewport(m.gridHeight())
	m.help.SetWidth(width)
	if m.detail != nil {
		m.detail.SetWidth(m.overlayWidth())
		m.detail.SetHeight(m.overlayHeight())
	}
}

// gridHeight is the number of lines available to grid rows
func (m Model) gridHeight() int {
	return max(m.uiState.Height()-chromeHeight, 0)
}

func (m *Model) handleBoardLoaded(msg boardLoadedMsg) tea.Cmd {
	m.boards = msg.boards
	if msg.err != nil {
		m.notifyError("load board", msg.err)
	}
	if msg.snapshot == nil {
		if len(msg.boards) == 0 {
			m.notificationState.Add(state.LevelInfo, "No boards yet, create one with: tabla board create")
		}
		return nil
	}

	switching := m.board == nil || m.board.ID != msg.snapshot.Board.ID
	if switching {
		m.engine = m.newEngine()
		m.engine.SetViewport(m.gridHeight())
		m.uiState.SetColumnOffset(0)
	}
	m.board = msg.snapshot.Board
	m.boardRef = ""
	m.applySnapshot(msg.snapshot)

	return m.subscribe()
}

func (m *Model) applySnapshot(snap *boardservice.Snapshot) {
	m.board = snap.Board
	m.groups = snap.Groups
	m.engine.SetData(snap.Items, snap.Groups, snap.Columns)

	// A grouping column may have been deleted or hidden elsewhere
	proj := m.engine.Projection()
	if proj.Grouped() {
		if _, ok := project.ColumnType(m.engine.Columns(), proj.GroupBy); !ok {
			proj.GroupBy = ""
			m.engine.SetProjection(proj)
		}
	}
	m.uiState.ClampColumnOffset(len(m.engine.Columns()) - 1)
}

// subscribe points the daemon subscription at the current board and starts
// listening once
func (m *Model) subscribe() tea.Cmd {
	pub := m.app.Events()
	if pub == nil || m.board == nil {
		return nil
	}
	if err := pub.Subscribe(m.board.ID.ToInt()); err != nil {
		m.logger.Warn("subscribe failed", "board_id", m.board.ID, "error", err)
	}
	if m.listening {
		return nil
	}
	ch, err := pub.Listen(m.ctx)
	if err != nil {
		m.notifyError("listen for updates", err)
		return nil
	}
	m.eventChan = ch
	m.listening = true
	m.connectionState.SetStatus(state.Connected)
	return waitForEvent(m.ctx, ch)
}

func (m *Model) handleEvent(ev events.Event) tea.Cmd {
	if m.board == nil || (ev.BoardID != 0 && ev.BoardID != m.board.ID.ToInt()) {
		return nil
	}
	switch ev.Type {
	case events.EventPresence:
		m.engine.SetPresence(ev.Presence, m.now())
		return nil
	case events.EventDatabaseChanged:
		return reloadBoard(m.ctx, m.app.BoardService, m.board.ID)
	}
	return nil
}

func (m *Model) notifyError(action string, err error) {
	m.logger.Error(action+" failed", "error", err)
	m.notificationState.Add(state.LevelError, fmt.Sprintf("Could not %s: %v", action, err))
}
