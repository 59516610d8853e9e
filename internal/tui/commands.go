package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/thenoetrevino/tabla/internal/events"
	"github.com/thenoetrevino/tabla/internal/grid/edit"
	"github.com/thenoetrevino/tabla/internal/models"
	boardservice "github.com/thenoetrevino/tabla/internal/services/board"
	"github.com/thenoetrevino/tabla/internal/types"
)

// tickInterval is how often presence and notifications are expired
const tickInterval = time.Second

// loadBoard lists the boards and loads ref, or the first board when ref is empty
func loadBoard(ctx context.Context, svc boardservice.Service, ref string) tea.Cmd {
	return func() tea.Msg {
		boards, err := svc.ListBoards(ctx)
		if err != nil {
			return boardLoadedMsg{err: fmt.Errorf("list boards: %w", err)}
		}
		if len(boards) == 0 {
			return boardLoadedMsg{boards: boards}
		}

		board := boards[0]
		if ref != "" {
			board, err = svc.GetBoard(ctx, ref)
			if err != nil {
				return boardLoadedMsg{boards: boards, err: fmt.Errorf("board %q: %w", ref, err)}
			}
		}

		snap, err := svc.LoadBoard(ctx, board.ID)
		return boardLoadedMsg{boards: boards, snapshot: snap, err: err}
	}
}

// reloadBoard fetches a fresh snapshot of one board
func reloadBoard(ctx context.Context, svc boardservice.Service, id types.BoardID) tea.Cmd {
	return func() tea.Msg {
		snap, err := svc.LoadBoard(ctx, id)
		return snapshotMsg{snapshot: snap, err: err}
	}
}

// commitOps runs prepared optimistic changes in order. Each result comes
// back as an opDoneMsg so the grid can re-derive its rows.
func commitOps(ctx context.Context, ops []*edit.Op) tea.Cmd {
	if len(ops) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, len(ops))
	for i, op := range ops {
		cmds[i] = func() tea.Msg {
			return opDoneMsg{label: op.Label(), err: op.Commit(ctx)}
		}
	}
	return tea.Sequence(cmds...)
}

// persist runs a structural mutation off the UI goroutine
func persist(label string, run func() error, revert func(), reload bool) tea.Cmd {
	return func() tea.Msg {
		return structureDoneMsg{label: label, err: run(), revert: revert, reload: reload}
	}
}

// sendPresence reports the cell being edited, or none when itemID is empty
func sendPresence(pub events.EventPublisher, p models.Presence) tea.Cmd {
	if pub == nil {
		return nil
	}
	return func() tea.Msg {
		if err := pub.SendPresence(p); err != nil {
			slog.Debug("presence not sent", "error", err)
		}
		return nil
	}
}

// waitForEvent blocks for the next daemon event
func waitForEvent(ctx context.Context, ch <-chan events.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case event, ok := <-ch:
			if !ok {
				return ConnectionLostMsg{}
			}
			return RefreshMsg{Event: event}
		case <-ctx.Done():
			return nil
		}
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
