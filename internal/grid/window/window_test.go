package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thenoetrevino/tabla/internal/grid/rows"
	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/types"
)

// TestRange_ZeroViewport ensures an unmeasured container renders nothing.
// Edge case: first render before the terminal reports its size.
func TestRange_ZeroViewport(t *testing.T) {
	c := New(10)
	c.SetHeights([]int{10, 10, 10})

	w := c.Range(0, 0, 5)

	assert.True(t, w.Empty())
	assert.Equal(t, 30, w.TotalHeight)
}

func TestRange_EmptyList(t *testing.T) {
	c := New(10)
	c.SetHeights(nil)

	w := c.Range(0, 100, 3)

	assert.True(t, w.Empty())
	assert.Equal(t, 0, w.TotalHeight)
}

func TestRange_UniformFastPath(t *testing.T) {
	c := New(10)
	c.SetHeights(repeat(10, 100))

	w := c.Range(200, 50, 0)

	assert.Equal(t, 20, w.Start)
	assert.Equal(t, 25, w.End)
	assert.Equal(t, 200, w.Offset)
	assert.Equal(t, 1000, w.TotalHeight)
}

func TestRange_Overscan(t *testing.T) {
	c := New(10)
	c.SetHeights(repeat(10, 100))

	w := c.Range(200, 50, 3)

	assert.Equal(t, 17, w.Start)
	assert.Equal(t, 28, w.End)
	assert.Equal(t, 170, w.Offset)
}

func TestRange_OverscanClampedAtEdges(t *testing.T) {
	c := New(10)
	c.SetHeights(repeat(10, 10))

	top := c.Range(0, 30, 5)
	assert.Equal(t, 0, top.Start)
	assert.Equal(t, 8, top.End)

	bottom := c.Range(70, 30, 5)
	assert.Equal(t, 2, bottom.Start)
	assert.Equal(t, 10, bottom.End)
}

func TestRange_VariableHeights(t *testing.T) {
	c := New(10)
	// header 40, item 10, item 10, summary 20, footer 5, header 40
	c.SetHeights([]int{40, 10, 10, 20, 5, 40})

	w := c.Range(45, 20, 0)

	// viewport [45, 65): rows 1 (40-50), 2 (50-60), 3 (60-80)
	assert.Equal(t, 1, w.Start)
	assert.Equal(t, 4, w.End)
	assert.Equal(t, 40, w.Offset)
}

// TestRange_CoversViewport checks the windowing invariant for every scroll
// offset in [0, total-viewport]: start <= end and the rendered span covers
// the viewport plus overscan (clamped to content).
func TestRange_CoversViewport(t *testing.T) {
	heights := []int{44, 36, 36, 36, 36, 16, 44, 36, 36, 16, 44, 16}
	c := New(36)
	c.SetHeights(heights)

	viewport, overscan := 80, 1
	for scroll := 0; scroll <= c.TotalHeight()-viewport; scroll++ {
		w := c.Range(scroll, viewport, overscan)
		if !assert.LessOrEqual(t, w.Start, w.End) {
			return
		}
		wantTop := max(scroll-overscan*36, 0)
		wantBottom := min(scroll+viewport+overscan*36, c.TotalHeight())
		assert.LessOrEqual(t, c.Top(w.Start), wantTop, "scroll=%d", scroll)
		assert.GreaterOrEqual(t, c.Top(w.End), wantBottom, "scroll=%d", scroll)
		assert.Equal(t, c.Top(w.Start), w.Offset)
	}
}

func TestSetRows_FromFlattenedList(t *testing.T) {
	list := rows.Flatten(rows.Input{
		Groups:  []*models.Group{{ID: "A"}},
		Items:   []*models.Item{{ID: "1", GroupID: types.GroupID("A")}},
		Heights: rows.DefaultHeights(),
	})
	c := New(36)
	c.SetRows(list)

	h := rows.DefaultHeights()
	assert.Equal(t, 4, c.Count())
	assert.Equal(t, h.GroupHeader+h.Item+h.Summary+h.Footer, c.TotalHeight())
}

func TestRowAt(t *testing.T) {
	c := New(10)
	c.SetHeights([]int{40, 10, 10})

	assert.Equal(t, 0, c.RowAt(0))
	assert.Equal(t, 0, c.RowAt(39))
	assert.Equal(t, 1, c.RowAt(40))
	assert.Equal(t, 2, c.RowAt(59))
	assert.Equal(t, -1, c.RowAt(60))
	assert.Equal(t, -1, c.RowAt(-1))
}

func TestScrollTo(t *testing.T) {
	c := New(10)
	c.SetHeights(repeat(10, 20))

	// already visible
	assert.Equal(t, 0, c.ScrollTo(2, 0, 50))
	// below the viewport: align bottom
	assert.Equal(t, 60, c.ScrollTo(10, 0, 50))
	// above the viewport: align top
	assert.Equal(t, 30, c.ScrollTo(3, 100, 50))
	// clamped to content
	assert.Equal(t, 150, c.ScrollTo(19, 500, 50))
}

func TestSetHeights_NegativeTreatedAsZero(t *testing.T) {
	c := New(10)
	c.SetHeights([]int{10, -5, 10})

	assert.Equal(t, 20, c.TotalHeight())
}

func repeat(h, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = h
	}
	return out
}
