// Package window computes which rows of a flattened grid are materialized for
// a given scroll position.
package window

import (
	"sort"

	"github.com/thenoetrevino/tabla/internal/grid/rows"
)

// Window is the half-open range [Start, End) of rows to render.
// Offset is the cumulative height above Start and is used to position the
// rendered block inside a spacer of TotalHeight.
type Window struct {
	Start       int
	End         int
	Offset      int
	TotalHeight int
}

// Len returns the number of rows in the window
func (w Window) Len() int {
	return w.End - w.Start
}

// Empty reports whether nothing should be rendered
func (w Window) Empty() bool {
	return w.End <= w.Start
}

// Calculator holds a prefix-sum array over row heights. SetRows rebuilds it,
// so range queries cost O(log n) and the sums are only recomputed when the
// row list changes.
type Calculator struct {
	prefix []int // prefix[i] = top of row i; prefix[len] = total height

	// uniform is the shared height when every row has the same height, else 0
	uniform int

	// rowHeight converts overscan rows into pixels
	rowHeight int
}

// New creates a calculator. rowHeight is the nominal item height used to
// convert an overscan row count into pixels.
func New(rowHeight int) *Calculator {
	return &Calculator{rowHeight: max(rowHeight, 1), prefix: []int{0}}
}

// SetRows rebuilds the prefix sums from a flattened row list
func (c *Calculator) SetRows(list []rows.Row) {
	heights := make([]int, len(list))
	for i, r := range list {
		heights[i] = r.Height
	}
	c.SetHeights(heights)
}

// SetHeights rebuilds the prefix sums from raw heights. Negative heights
// are treated as zero.
func (c *Calculator) SetHeights(heights []int) {
	c.prefix = make([]int, len(heights)+1)
	c.uniform = 0
	if len(heights) > 0 {
		c.uniform = max(heights[0], 0)
	}
	for i, h := range heights {
		h = max(h, 0)
		if h != c.uniform {
			c.uniform = 0
		}
		c.prefix[i+1] = c.prefix[i] + h
	}
}

// Count returns the number of rows
func (c *Calculator) Count() int {
	return len(c.prefix) - 1
}

// TotalHeight returns the sum of all row heights
func (c *Calculator) TotalHeight() int {
	return c.prefix[len(c.prefix)-1]
}

// Top returns the cumulative offset of row i
func (c *Calculator) Top(i int) int {
	i = min(max(i, 0), c.Count())
	return c.prefix[i]
}

// Bottom returns the cumulative offset of the end of row i
func (c *Calculator) Bottom(i int) int {
	return c.Top(i + 1)
}

// Range returns the rows intersecting [scrollTop-overscan, scrollTop+viewport+overscan).
// A zero or negative viewport means the container is not measured yet and
// yields an empty window instead of the whole list.
func (c *Calculator) Range(scrollTop, viewport, overscan int) Window {
	total := c.TotalHeight()
	n := c.Count()
	if viewport <= 0 || n == 0 {
		return Window{TotalHeight: total}
	}

	pad := max(overscan, 0) * c.rowHeight
	top := scrollTop - pad
	bottom := scrollTop + viewport + pad

	var start, end int
	if c.uniform > 0 {
		start = max(top, 0) / c.uniform
		end = (bottom + c.uniform - 1) / c.uniform
	} else {
		// first row whose bottom is past top
		start = sort.Search(n, func(i int) bool { return c.prefix[i+1] > top })
		// first row whose top is at or past bottom
		end = sort.Search(n, func(i int) bool { return c.prefix[i] >= bottom })
	}
	start = min(max(start, 0), n)
	end = min(max(end, start), n)

	return Window{
		Start:       start,
		End:         end,
		Offset:      c.prefix[start],
		TotalHeight: total,
	}
}

// RowAt returns the row under a content-space y coordinate, or -1
func (c *Calculator) RowAt(y int) int {
	n := c.Count()
	if y < 0 || y >= c.TotalHeight() {
		return -1
	}
	return sort.Search(n, func(i int) bool { return c.prefix[i+1] > y })
}

// ScrollTo returns the smallest adjustment of scrollTop that brings row i
// fully into a viewport of the given height.
func (c *Calculator) ScrollTo(i, scrollTop, viewport int) int {
	if i < 0 || i >= c.Count() || viewport <= 0 {
		return c.Clamp(scrollTop, viewport)
	}
	top, bottom := c.prefix[i], c.prefix[i+1]
	switch {
	case top < scrollTop:
		scrollTop = top
	case bottom > scrollTop+viewport:
		scrollTop = bottom - viewport
	}
	return c.Clamp(scrollTop, viewport)
}

// Clamp bounds scrollTop to [0, TotalHeight-viewport]
func (c *Calculator) Clamp(scrollTop, viewport int) int {
	maxTop := max(c.TotalHeight()-max(viewport, 0), 0)
	return min(max(scrollTop, 0), maxTop)
}
