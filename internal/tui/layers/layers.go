// Package layers builds the modal layers drawn over the grid
package layers

import (
	"charm.land/lipgloss/v2"
	"github.com/thenoetrevino/tabla/internal/tui/theme"
)

// CreateCenteredLayer creates a layer positioned at the center of the screen.
// It returns nil for empty content.
func CreateCenteredLayer(content string, screenWidth int, screenHeight int) *lipgloss.Layer {
	if content == "" {
		return nil
	}

	x := max((screenWidth-lipgloss.Width(content))/2, 0)
	y := max((screenHeight-lipgloss.Height(content))/2, 0)

	return lipgloss.NewLayer(content).X(x).Y(y)
}

// RenderModal frames body in a rounded border with a bold title. width is
// the outer width including the border.
func RenderModal(title, body string, width int) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.Title))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(0, 1).
		Width(max(width, 10))

	if title == "" {
		return box.Render(body)
	}
	return box.Render(titleStyle.Render(title) + "\n\n" + body)
}

// Compose stacks a base view and optional overlays into one frame
func Compose(base string, overlays ...*lipgloss.Layer) string {
	stack := []*lipgloss.Layer{lipgloss.NewLayer(base)}
	for _, l := range overlays {
		if l != nil {
			stack = append(stack, l)
		}
	}
	return lipgloss.NewCanvas(stack...).Render()
}
