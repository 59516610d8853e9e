// Package notifications renders status bar notifications
package notifications

import (
	"charm.land/lipgloss/v2"
	"github.com/muesli/reflow/truncate"
	"github.com/thenoetrevino/tabla/internal/tui/state"
)

// RenderInline renders a compact single-line notification no wider than
// maxWidth cells
func RenderInline(severity Severity, message string, maxWidth int) string {
	style := severity.style()

	content := style.icon + " " + message
	if maxWidth > 2 && lipgloss.Width(content) > maxWidth-2 {
		content = truncate.StringWithTail(content, uint(maxWidth-2), "…")
	}

	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(style.foreground)).
		Background(lipgloss.Color(style.background)).
		Padding(0, 1).
		Render(content)
}

// RenderInlineFromState renders a compact inline notification from state
func RenderInlineFromState(n state.Notification, maxWidth int) string {
	return RenderInline(FromLevel(n.Level), n.Message, maxWidth)
}
