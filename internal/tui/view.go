package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/thenoetrevino/tabla/internal/grid/project"
	"github.com/thenoetrevino/tabla/internal/tui/components"
	"github.com/thenoetrevino/tabla/internal/tui/layers"
	"github.com/thenoetrevino/tabla/internal/tui/notifications"
	"github.com/thenoetrevino/tabla/internal/tui/state"
	"github.com/thenoetrevino/tabla/internal/tui/theme"
)

// View renders the current state of the application
func (m Model) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion

	// Wait for terminal size to be initialized
	if m.uiState.Width() == 0 {
		view.Content = "Loading..."
		return view
	}

	base := m.renderScreen()

	var overlay *lipgloss.Layer
	switch m.uiState.Mode() {
	case state.FormMode:
		if m.form != nil {
			overlay = m.renderModalLayer(m.form.title, m.form.form.View())
		}
	case state.DetailMode:
		if m.detail != nil {
			overlay = m.renderModalLayer("", m.detail.View())
		}
	case state.HelpMode:
		m.help.ShowAll = true
		overlay = m.renderModalLayer("Keys", m.help.View(m.keys))
	}

	view.Content = layers.Compose(base, overlay)
	return view
}

func (m Model) renderModalLayer(title, body string) *lipgloss.Layer {
	box := layers.RenderModal(title, body, m.overlayWidth())
	return layers.CreateCenteredLayer(box, m.uiState.Width(), m.uiState.Height())
}

// renderScreen draws the title bar, the sticky header, the grid body, the
// status bar and the help line
func (m Model) renderScreen() string {
	width := m.uiState.Width()
	cols := m.displayColumns()

	header := ""
	if len(cols) > 0 {
		dragged, over, _ := m.engine.Layout().Reordering()
		resizing, _ := m.engine.Layout().Resizing()
		header = components.RenderHeader(components.HeaderProps{
			Columns:  cols,
			Sort:     m.engine.Projection().Sort,
			Dragged:  dragged,
			Over:     over,
			Resizing: resizing,
		})
	}

	var body string
	if m.board == nil {
		body = m.renderEmpty()
	} else {
		editor := ""
		if m.editor != nil {
			editor = m.editor.View()
		}
		body = components.RenderGrid(components.GridProps{
			Engine:  m.engine,
			Columns: cols,
			Height:  m.gridHeight(),
			Editor:  editor,
		})
	}

	m.help.ShowAll = false
	helpLine := m.help.View(m.keys)

	return strings.Join([]string{
		components.RenderTitleBar(width, m.boardTitle(), m.settingsSummary()),
		header,
		body,
		m.renderStatusBar(),
		helpLine,
	}, "\n")
}

func (m Model) renderEmpty() string {
	msg := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Subtle)).
		Render("No board to show. Create one with: tabla board create <name>")
	lines := make([]string, max(m.gridHeight(), 1))
	lines[0] = msg
	return strings.Join(lines, "\n")
}

func (m Model) boardTitle() string {
	if m.board == nil {
		return "tabla"
	}
	if len(m.boards) > 1 {
		return fmt.Sprintf("%s (%d boards)", m.board.Name, len(m.boards))
	}
	return m.board.Name
}

// settingsSummary describes grouping, sort and filters for the title bar
func (m Model) settingsSummary() string {
	proj := m.engine.Projection()
	var parts []string
	if proj.Grouped() {
		parts = append(parts, "group: "+m.columnName(proj.GroupBy))
	}
	if proj.Sort.Active() {
		parts = append(parts, fmt.Sprintf("sort: %s %s", m.columnName(proj.Sort.ColumnID), proj.Sort.Direction))
	}
	if n := len(proj.Filters); n > 0 {
		match := ""
		if n > 1 && proj.Match == project.MatchAny {
			match = " (any)"
		}
		parts = append(parts, fmt.Sprintf("filters: %d%s", n, match))
	}
	if proj.Search != "" {
		parts = append(parts, fmt.Sprintf("search: %q", proj.Search))
	}
	return strings.Join(parts, " · ")
}

func (m Model) renderStatusBar() string {
	width := m.uiState.Width()
	conn := m.connectionState.Status()
	right := conn.Symbol() + " " + conn.String()

	var left string
	if n, ok := m.notificationState.Latest(); ok {
		left = notifications.RenderInlineFromState(n, max(width/2, 20))
	} else {
		left = m.renderCounts()
	}

	return components.RenderStatusBar(components.StatusBarProps{
		Width: width,
		Mode:  m.uiState.Mode().String(),
		Left:  left,
		Right: right,
	})
}

func (m Model) renderCounts() string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.StatusBarText)).
		Background(lipgloss.Color(theme.StatusBarBg))

	text := fmt.Sprintf("%d items", m.engine.Index().ItemCount())
	if hidden := m.engine.Hidden(); hidden > 0 {
		text += fmt.Sprintf(" · %d hidden", hidden)
	}
	if sel := len(m.engine.Selection()); sel > 0 {
		text += fmt.Sprintf(" · %d selected", sel)
	}
	return style.Render(text)
}
