package notifications

import (
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
	"github.com/thenoetrevino/tabla/internal/tui/state"
)

func TestFromLevel(t *testing.T) {
	assert.Equal(t, Info, FromLevel(state.LevelInfo))
	assert.Equal(t, Warning, FromLevel(state.LevelWarning))
	assert.Equal(t, Error, FromLevel(state.LevelError))
}

func TestRenderInline(t *testing.T) {
	out := RenderInline(Error, "save failed", 80)
	assert.Contains(t, out, "save failed")
	assert.Contains(t, out, "✕")
}

func TestRenderInline_Truncates(t *testing.T) {
	out := RenderInlineFromState(state.Notification{Level: state.LevelInfo, Message: "a very long message that will not fit"}, 16)
	assert.LessOrEqual(t, lipgloss.Width(out), 16)
	assert.Contains(t, out, "…")
}
