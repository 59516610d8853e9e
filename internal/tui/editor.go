package tui

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/thenoetrevino/tabla/internal/grid/focus"
	"github.com/thenoetrevino/tabla/internal/grid/value"
	"github.com/thenoetrevino/tabla/internal/tui/state"
)

// syncEditor opens the cell editor when the engine starts an edit session
// and drops it when the session ends
func (m *Model) syncEditor() tea.Cmd {
	editing := m.engine.FocusState() == focus.Editing
	switch {
	case editing && m.editor == nil:
		s := m.engine.Session()
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 0
		ti.SetValue(s.Seed)
		ti.CursorEnd()
		ti.SetWidth(max(m.config.Grid.Cells(m.engine.Width(s.ColumnID))-2, 1))
		cmd := ti.Focus()

		m.editor = &ti
		m.engine.SetInputFocused(true)
		m.uiState.SetMode(state.EditMode)
		return cmd

	case !editing && m.editor != nil:
		m.editor = nil
		if m.uiState.Mode() == state.EditMode {
			m.uiState.SetMode(state.NormalMode)
		}
	}
	return nil
}

// handleEditKey routes keys while a cell editor is open. Enter commits the
// typed text coerced to the column type, Tab commits and moves on, Escape
// discards. Everything else edits the text.
func (m *Model) handleEditKey(msg tea.KeyPressMsg) tea.Cmd {
	if msg.String() == m.config.KeyMappings.Quit {
		return tea.Quit
	}
	s := m.engine.Session()
	if s == nil || m.editor == nil {
		m.uiState.SetMode(state.NormalMode)
		return nil
	}

	k := msg.Key()
	switch k.Code {
	case tea.KeyEnter:
		m.engine.Commit(m.editorValue())
		return nil
	case tea.KeyEscape:
		m.engine.HandleKey(focus.Key{Code: focus.KeyEscape})
		return nil
	case tea.KeyTab:
		m.engine.SetDraft(m.editorValue())
		m.engine.HandleKey(focus.Key{Code: focus.KeyTab, Shift: k.Mod.Contains(tea.ModShift)})
		return nil
	}
	return m.updateEditor(msg)
}

// updateEditor forwards a message to the text input and mirrors the text
// into the session draft
func (m *Model) updateEditor(msg tea.Msg) tea.Cmd {
	ti, cmd := m.editor.Update(msg)
	m.editor = &ti
	m.engine.SetDraft(m.editorValue())
	return cmd
}

// editorValue is the editor text as a value of the edited column's type
func (m Model) editorValue() any {
	s := m.engine.Session()
	if s == nil || m.editor == nil {
		return nil
	}
	return value.Coerce(m.editor.Value(), m.columnType(s.ColumnID))
}
