package components

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/thenoetrevino/tabla/internal/tui/theme"
)

// StatusBarProps is what the status bar shows. Left and Right are already
// rendered segments.
type StatusBarProps struct {
	Width int
	Mode  string
	Left  string
	Right string
}

// RenderStatusBar renders a mode badge and a left segment, then right
// aligned text, filling the gap with the bar background
func RenderStatusBar(props StatusBarProps) string {
	bar := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.StatusBarText)).
		Background(lipgloss.Color(theme.StatusBarBg))

	badge := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.StatusBarBg)).
		Background(lipgloss.Color(theme.StatusBarText)).
		Bold(true).
		Padding(0, 1).
		Render(props.Mode)

	left := badge + bar.Render(" ") + props.Left
	right := bar.Render(props.Right + " ")

	gapWidth := props.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gapWidth < 1 {
		gapWidth = 1
	}
	gap := bar.Render(strings.Repeat(" ", gapWidth))

	return lipgloss.JoinHorizontal(lipgloss.Top, left, gap, right)
}

// RenderTitleBar renders the board name on the left and the view settings
// (grouping, sort, filters) on the right
func RenderTitleBar(width int, title, settings string) string {
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Title)).
		Bold(true)
	subtle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Subtle))

	left := titleStyle.Render(title)
	right := subtle.Render(settings)

	gapWidth := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gapWidth < 1 {
		return left
	}
	return left + strings.Repeat(" ", gapWidth) + right
}
