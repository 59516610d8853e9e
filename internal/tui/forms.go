package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/huh/v2"
	"github.com/thenoetrevino/tabla/internal/grid/project"
	boardservice "github.com/thenoetrevino/tabla/internal/services/board"
	"github.com/thenoetrevino/tabla/internal/tui/huhforms"
	"github.com/thenoetrevino/tabla/internal/tui/state"
	"github.com/thenoetrevino/tabla/internal/types"
)

// openForm shows a huh form as an overlay
func (m *Model) openForm(title string, form *huh.Form, onSubmit func(m *Model) tea.Cmd) tea.Cmd {
	form = form.
		WithTheme(huhforms.CreateTablaTheme(m.config.ColorScheme)).
		WithKeyMap(huhforms.CreateKeyMap()).
		WithShowHelp(true).
		WithWidth(min(m.overlayWidth(), 60))
	m.form = &formState{form: form, title: title, onSubmit: onSubmit}
	m.engine.SetEnabled(false)
	m.uiState.SetMode(state.FormMode)
	return form.Init()
}

func (m *Model) closeForm() {
	m.form = nil
	m.engine.SetEnabled(true)
	m.uiState.SetMode(state.NormalMode)
}

// updateForm forwards messages to the open form and runs its submit action
// once it completes
func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	fs := m.form
	model, cmd := fs.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		fs.form = f
	}

	switch fs.form.State {
	case huh.StateCompleted:
		m.closeForm()
		if fs.onSubmit != nil {
			return tea.Batch(cmd, fs.onSubmit(m))
		}
		return cmd
	case huh.StateAborted:
		m.closeForm()
		return nil
	}
	return cmd
}

// ============================================================================
// ITEMS
// ============================================================================

// openItemForm asks for a new item, defaulting to the focused item's group
func (m *Model) openItemForm() tea.Cmd {
	if m.board == nil {
		m.notificationState.Add(state.LevelWarning, "Open a board first")
		return nil
	}
	v := &huhforms.ItemValues{}
	if len(m.groups) > 0 {
		v.GroupID = string(m.groups[0].ID)
	}
	if item, _, ok := m.engine.FocusedCell(); ok {
		if it, ok := m.engine.Item(item); ok && !it.GroupRef().IsZero() {
			v.GroupID = string(it.GroupRef())
		}
	}

	boardID := m.board.ID
	return m.openForm("New Item", huhforms.CreateItemForm(v, m.groups), func(m *Model) tea.Cmd {
		svc, ctx := m.app.BoardService, m.ctx
		req := boardservice.AddItemRequest{
			BoardID: boardID,
			GroupID: types.GroupID(v.GroupID),
			Name:    strings.TrimSpace(v.Name),
		}
		return func() tea.Msg {
			item, err := svc.AddItem(ctx, req)
			if err != nil {
				return itemSavedMsg{err: err}
			}
			return itemSavedMsg{message: fmt.Sprintf("Added %q", item.Name)}
		}
	})
}

// openDeleteForm confirms deleting the focused item
func (m *Model) openDeleteForm() tea.Cmd {
	itemID, _, ok := m.engine.FocusedCell()
	if !ok {
		return nil
	}
	it, ok := m.engine.Item(itemID)
	if !ok {
		return nil
	}

	confirm := false
	return m.openForm("Delete Item", huhforms.CreateDeleteForm(it.Name, &confirm), func(m *Model) tea.Cmd {
		if !confirm {
			return nil
		}
		svc, ctx, name := m.app.BoardService, m.ctx, it.Name
		return func() tea.Msg {
			if err := svc.DeleteItem(ctx, itemID); err != nil {
				return itemSavedMsg{err: err}
			}
			return itemSavedMsg{message: fmt.Sprintf("Deleted %q", name)}
		}
	})
}

// ============================================================================
// FILTERS
// ============================================================================

// openFilterForm builds one filter clause or a text search. New clauses are
// added to the existing ones.
func (m *Model) openFilterForm() tea.Cmd {
	if m.board == nil {
		return nil
	}
	v := &huhforms.FilterValues{Match: string(m.engine.Projection().Match)}
	if _, col, ok := m.engine.FocusedCell(); ok {
		v.Column = string(col)
	}

	return m.openForm("Filter", huhforms.CreateFilterForm(v, m.engine.Columns()), func(m *Model) tea.Cmd {
		m.applyFilter(*v)
		return nil
	})
}

func (m *Model) applyFilter(v huhforms.FilterValues) {
	proj := m.engine.Projection()
	proj.Match = project.Match(v.Match)

	if v.Search() {
		proj.Search = strings.TrimSpace(v.Value)
		m.engine.SetProjection(proj)
		if proj.Search != "" {
			m.notificationState.Add(state.LevelInfo, fmt.Sprintf("Searching for %q", proj.Search))
		}
		return
	}

	c := v.Condition()
	if err := project.ValidateCondition(c, m.engine.Columns()); err != nil {
		m.notificationState.Add(state.LevelError, err.Error())
		return
	}
	proj.Filters = append(proj.Filters, c)
	m.engine.SetProjection(proj)
	m.notificationState.Add(state.LevelInfo, "Filter: "+c.String())
}
