// Package styles holds the lipgloss styles for human CLI output
package styles

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/thenoetrevino/tabla/internal/config"
	"github.com/thenoetrevino/tabla/internal/models"
)

var (
	TitleStyle    lipgloss.Style // Board name
	SubtitleStyle lipgloss.Style // Descriptions, summaries and hidden counts
	HeaderStyle   lipgloss.Style // Column titles
	ValueStyle    lipgloss.Style // Cell text
)

func init() {
	Init(config.DefaultColorScheme())
}

// Init builds the styles from a color scheme
func Init(colors config.ColorScheme) {
	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Title))

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Subtle))

	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.HeaderFg))

	ValueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Normal))
}

// RenderGroupHeader renders "▾ Name (n)" in the group's color, with a
// closed marker for collapsed groups
func RenderGroupHeader(g *models.Group, count int) string {
	marker := "▾"
	if g.Collapsed {
		marker = "▸"
	}
	color := g.Color
	if color == "" {
		color = models.DefaultGroupColor
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(color)).
		Render(fmt.Sprintf("%s %s (%d)", marker, g.Name, count))
}
