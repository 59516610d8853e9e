package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/glamour"
	"github.com/thenoetrevino/tabla/internal/grid/value"
	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/tui/state"
	"github.com/thenoetrevino/tabla/internal/types"
)

// overlayWidth and overlayHeight size modal layers at 80% of the screen
func (m Model) overlayWidth() int {
	return max(m.uiState.Width()*8/10, 20)
}

func (m Model) overlayHeight() int {
	return max(m.uiState.Height()*8/10, 5)
}

// itemMarkdown renders every column of an item as markdown. Long text
// columns become their own section.
func itemMarkdown(it models.Item, columns []models.Column, groupName string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", it.Name)
	if groupName != "" {
		fmt.Fprintf(&sb, "_%s_\n\n", groupName)
	}

	var long []models.Column
	for _, c := range columns {
		if c.ID == models.NameColumnID {
			continue
		}
		if c.Type == models.ColumnLongText {
			long = append(long, c)
			continue
		}
		text := value.Display(it.Value(c.ID), c.Type)
		if text == "" {
			text = "—"
		}
		fmt.Fprintf(&sb, "- **%s**: %s\n", c.Name, text)
	}

	for _, c := range long {
		text := value.String(it.Value(c.ID))
		if text == "" {
			continue
		}
		fmt.Fprintf(&sb, "\n## %s\n\n%s\n", c.Name, text)
	}
	return sb.String()
}

// openDetail shows the item's full record in a scrollable overlay
func (m *Model) openDetail(id types.ItemID) {
	it, ok := m.engine.Item(id)
	if !ok {
		return
	}

	groupName := ""
	if gid, ok := m.engine.Index().GroupOf(id); ok {
		for _, r := range m.engine.Rows() {
			if r.GroupID == gid && r.Group != nil {
				groupName = r.Group.Name
				break
			}
		}
	}

	width := m.overlayWidth() - 4
	content := itemMarkdown(it, m.engine.AllColumns(), groupName)
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		if out, err := renderer.Render(content); err == nil {
			content = out
		}
	}

	vp := viewport.New()
	vp.SetWidth(width)
	vp.SetHeight(m.overlayHeight() - 4)
	vp.SetContent(content)
	m.detail = &vp
	m.engine.SetEnabled(false)
	m.uiState.SetMode(state.DetailMode)
}

func (m *Model) closeDetail() {
	m.detail = nil
	m.engine.SetEnabled(true)
	m.uiState.SetMode(state.NormalMode)
}

// handleDetailKey scrolls the detail overlay; Escape or q closes it
func (m *Model) handleDetailKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q", "enter":
		m.closeDetail()
		return nil
	case m.config.KeyMappings.Quit:
		return tea.Quit
	}
	if m.detail == nil {
		m.closeDetail()
		return nil
	}
	vp, cmd := m.detail.Update(msg)
	m.detail = &vp
	return cmd
}

// handleHelpKey closes the help overlay on any key but quit
func (m *Model) handleHelpKey(msg tea.KeyPressMsg) tea.Cmd {
	if msg.String() == m.config.KeyMappings.Quit {
		return tea.Quit
	}
	m.uiState.SetMode(state.NormalMode)
	return nil
}
