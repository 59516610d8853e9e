package components

import (
	"strings"

	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"
	"github.com/thenoetrevino/tabla/internal/models"
)

// GutterWidth is the space left of the first cell: group color bar plus a
// selection or drop marker
const GutterWidth = 2

// DisplayColumn is a column placed on screen
type DisplayColumn struct {
	Column models.Column
	// Index is the column's position among all visible columns
	Index int
	// Left is the first terminal cell, relative to the end of the gutter
	Left int
	// Cells is the terminal width including the trailing separator
	Cells int
	// UnitLeft and Units are the same extent in engine width units
	UnitLeft int
	Units    int
}

// Separator returns the x of the column's separator cell
func (c DisplayColumn) Separator() int {
	return c.Left + c.Cells - 1
}

// LayoutColumns places the pinned first column and then the scrollable
// columns from offset until room runs out. widths are engine units and
// cells converts them to terminal columns.
func LayoutColumns(cols []models.Column, widths []int, cells func(int) int, offset, room int) []DisplayColumn {
	if len(cols) == 0 {
		return nil
	}
	unitLefts := make([]int, len(cols))
	acc := 0
	for i := range cols {
		unitLefts[i] = acc
		acc += widths[i]
	}

	place := func(i, left int) DisplayColumn {
		return DisplayColumn{
			Column:   cols[i],
			Index:    i,
			Left:     left,
			Cells:    cells(widths[i]),
			UnitLeft: unitLefts[i],
			Units:    widths[i],
		}
	}

	out := []DisplayColumn{place(0, 0)}
	left := out[0].Cells
	for i := 1 + max(offset, 0); i < len(cols); i++ {
		dc := place(i, left)
		if left+dc.Cells > room && len(out) > 1 {
			break
		}
		out = append(out, dc)
		left += dc.Cells
	}
	return out
}

// At returns the column under terminal x (relative to the gutter's end)
func At(cols []DisplayColumn, x int) (DisplayColumn, bool) {
	for _, c := range cols {
		if x >= c.Left && x < c.Left+c.Cells {
			return c, true
		}
	}
	return DisplayColumn{}, false
}

// UnitX converts terminal x into an engine x that lands inside the same
// column, so engine hit tests agree with what is drawn
func UnitX(cols []DisplayColumn, x, scale int) (int, bool) {
	c, ok := At(cols, x)
	if !ok {
		return 0, false
	}
	return c.UnitLeft + min((x-c.Left)*scale, c.Units-1), true
}

// Fit truncates s to width cells with an ellipsis and pads it to exactly width
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = strings.NewReplacer("\t", " ", "\n", " ", "\r", "").Replace(s)
	return padding.String(truncate.StringWithTail(s, uint(width), "…"), uint(width))
}
