package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/thenoetrevino/tabla/internal/grid"
	"github.com/thenoetrevino/tabla/internal/grid/drag"
	"github.com/thenoetrevino/tabla/internal/grid/focus"
	"github.com/thenoetrevino/tabla/internal/grid/project"
	"github.com/thenoetrevino/tabla/internal/grid/rows"
	"github.com/thenoetrevino/tabla/internal/grid/value"
	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/tui/theme"
	"github.com/thenoetrevino/tabla/internal/types"
)

// GridProps is everything needed to draw the grid body
type GridProps struct {
	Engine  *grid.Engine
	Columns []DisplayColumn
	Height  int
	// Editor is the rendered cell editor, drawn over the cell being edited
	Editor string
}

// HeaderProps describes the sticky column header line
type HeaderProps struct {
	Columns []DisplayColumn
	Sort    project.SortState
	// Dragged and Over are set while a header is being dragged
	Dragged types.ColumnID
	Over    types.ColumnID
	// Resizing is the column whose edge is being dragged
	Resizing types.ColumnID
}

// RenderHeader draws the column titles with sort arrows
func RenderHeader(p HeaderProps) string {
	base := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.HeaderFg)).
		Background(lipgloss.Color(theme.HeaderBg)).
		Bold(true)
	sep := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Border)).
		Background(lipgloss.Color(theme.HeaderBg))

	var sb strings.Builder
	sb.WriteString(base.Render(strings.Repeat(" ", GutterWidth)))
	for _, c := range p.Columns {
		title := c.Column.Name
		if p.Sort.Active() && p.Sort.ColumnID == c.Column.ID {
			if p.Sort.Direction == project.Ascending {
				title += " ↑"
			} else {
				title += " ↓"
			}
		}

		style := base
		switch c.Column.ID {
		case p.Dragged:
			style = style.Background(lipgloss.Color(theme.Accent))
		case p.Over:
			style = style.Foreground(lipgloss.Color(theme.DropTarget)).Underline(true)
		}
		edge := sep
		if c.Column.ID == p.Resizing {
			edge = edge.Foreground(lipgloss.Color(theme.DropTarget))
		}
		sb.WriteString(style.Render(Fit(title, c.Cells-1)))
		sb.WriteString(edge.Render("│"))
	}
	return sb.String()
}

// RenderGrid draws the windowed rows as exactly Height lines
func RenderGrid(p GridProps) string {
	e := p.Engine
	lines := make([]string, max(p.Height, 0))
	all := e.Rows()
	w := e.Window()

	r := rowRenderer{GridProps: p}
	r.focusedItem, r.focusedCol, r.hasFocus = e.FocusedCell()
	r.editing = e.FocusState() == focus.Editing
	r.hover, r.hovering = e.DragHover()
	r.dragged, r.dragging = e.Dragging()

	for i := w.Start; i < w.End && i < len(all); i++ {
		top := e.RowTop(i) - e.ScrollTop()
		for j := 0; j < all[i].Height; j++ {
			y := top + j
			if y < 0 || y >= len(lines) {
				continue
			}
			if j == 0 {
				lines[y] = r.render(all[i])
			}
		}
	}
	return strings.Join(lines, "\n")
}

type rowRenderer struct {
	GridProps

	focusedItem types.ItemID
	focusedCol  types.ColumnID
	hasFocus    bool
	editing     bool

	hover    drag.Hover
	hovering bool
	dragged  types.ItemID
	dragging bool
}

func (r rowRenderer) render(row rows.Row) string {
	switch row.Kind {
	case rows.GroupHeader:
		return r.groupHeader(row)
	case rows.ColumnHeader:
		return RenderHeader(HeaderProps{Columns: r.Columns})
	case rows.ItemRow:
		return r.item(row)
	case rows.GroupSummary:
		return r.summary(row)
	case rows.GroupFooter:
		return ""
	default:
		return ""
	}
}

func groupColor(g *models.Group) string {
	if g == nil || g.Color == "" {
		return models.DefaultGroupColor
	}
	return g.Color
}

func (r rowRenderer) groupHeader(row rows.Row) string {
	marker := "▾"
	if r.Engine.Collapsed(row.GroupID) {
		marker = "▸"
	}
	name := ""
	if row.Group != nil {
		name = row.Group.Name
	}
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(groupColor(row.Group))).
		Bold(true)

	text := fmt.Sprintf("%s %s (%d)", marker, name, row.ItemCount)
	if r.hovering && r.hover.ItemID == "" && r.hover.GroupID == row.GroupID {
		text += lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.DropTarget)).
			Render("  ⇣ drop here")
	}
	return style.Render(text)
}

func (r rowRenderer) item(row rows.Row) string {
	it := row.Item
	selected := r.Engine.Selected(it.ID)

	bar := lipgloss.NewStyle().
		Foreground(lipgloss.Color(groupColor(row.Group))).
		Render("▌")
	mark := " "
	switch {
	case r.hovering && r.hover.ItemID == it.ID && r.hover.Side == drag.Before:
		mark = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.DropTarget)).Render("▲")
	case r.hovering && r.hover.ItemID == it.ID:
		mark = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.DropTarget)).Render("▼")
	case selected:
		mark = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent)).Render("✓")
	}

	sep := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Border)).Render("│")

	var sb strings.Builder
	sb.WriteString(bar + mark)
	for _, c := range r.Columns {
		width := c.Cells - 1
		focused := r.hasFocus && r.focusedItem == it.ID && r.focusedCol == c.Column.ID

		if focused && r.editing && r.Editor != "" {
			sb.WriteString(lipgloss.NewStyle().
				Background(lipgloss.Color(theme.EditingBg)).
				Width(width).
				MaxWidth(width).
				Render(r.Editor))
			sb.WriteString(sep)
			continue
		}

		text := value.Display(it.Value(c.Column.ID), c.Column.Type)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Normal))
		if others := r.Engine.Presence(it.ID, c.Column.ID); len(others) > 0 {
			text = presenceMarker(others) + text
			style = style.Foreground(lipgloss.Color(theme.Presence))
		}
		if selected {
			style = style.Background(lipgloss.Color(theme.SelectedBg))
		}
		if focused {
			style = style.Background(lipgloss.Color(theme.FocusBg)).Bold(true)
		}
		if r.dragging && r.dragged == it.ID {
			style = style.Faint(true)
		}
		sb.WriteString(style.Render(Fit(text, width)))
		sb.WriteString(sep)
	}
	return sb.String()
}

// presenceMarker shows the initial of the first collaborator on a cell
func presenceMarker(others []models.Presence) string {
	name := others[0].UserName
	if name == "" {
		name = string(others[0].UserID)
	}
	initial := "?"
	if name != "" {
		initial = strings.ToUpper(string([]rune(name)[0]))
	}
	return initial + "✎ "
}

func (r rowRenderer) summary(row rows.Row) string {
	ids := r.Engine.Index().GroupItems(row.GroupID)
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Subtle))

	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", GutterWidth))
	for i, c := range r.Columns {
		var text string
		if i == 0 {
			text = fmt.Sprintf("%d items", row.ItemCount)
		} else {
			values := make([]any, 0, len(ids))
			for _, id := range ids {
				if it, ok := r.Engine.Item(id); ok {
					values = append(values, it.Value(c.Column.ID))
				}
			}
			text = value.Summarize(values, c.Column.Type)
		}
		sb.WriteString(style.Render(Fit(text, c.Cells-1) + " "))
	}
	return sb.String()
}
