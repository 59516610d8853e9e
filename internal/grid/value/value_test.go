package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thenoetrevino/tabla/internal/models"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"same string", "a", "a", true},
		{"different string", "a", "b", false},
		{"int vs float", 3, 3.0, true},
		{"nil vs empty string", nil, "", true},
		{"nil vs value", nil, "x", false},
		{"map key order", map[string]any{"a": 1, "b": 2}, map[string]any{"b": 2, "a": 1}, true},
		{"nested differs", map[string]any{"a": []any{1, 2}}, map[string]any{"a": []any{2, 1}}, false},
		{"bool", true, true, true},
		{"bool vs string", true, "true", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "", String(nil))
	assert.Equal(t, "hello", String("hello"))
	assert.Equal(t, "3", String(3.0))
	assert.Equal(t, "2.5", String(2.5))
	assert.Equal(t, "true", String(true))
	assert.Equal(t, `{"label":"Open"}`, String(map[string]any{"label": "Open"}))
}

func TestParse(t *testing.T) {
	assert.Equal(t, 42.0, Parse("42"))
	assert.Equal(t, true, Parse("true"))
	assert.Equal(t, map[string]any{"label": "Open"}, Parse(`{"label":"Open"}`))
	assert.Equal(t, "plain text", Parse("plain text"))
	assert.Equal(t, "", Parse(""))
}

func TestCoerce(t *testing.T) {
	assert.Equal(t, 12.5, Coerce("12.5", models.ColumnNumber))
	assert.Equal(t, "twelve", Coerce("twelve", models.ColumnNumber))
	assert.Equal(t, true, Coerce("yes", models.ColumnCheckbox))
	assert.Equal(t, false, Coerce("no", models.ColumnCheckbox))
	assert.Equal(t, []any{"a", "b"}, Coerce("a, b,", models.ColumnTags))
	assert.Equal(t, "2024-03-01", Coerce("2024/03/01", models.ColumnDate))
	assert.Equal(t, "hi", Coerce("hi", models.ColumnText))
	assert.Nil(t, Coerce("   ", models.ColumnText))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, 3.0, Normalize(3))
	assert.Equal(t, []any{1.0, 2.0}, Normalize([]int{1, 2}))
	assert.Equal(t, "x", Normalize("x"))
	assert.Nil(t, Normalize(nil))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Yes", Label(true))
	assert.Equal(t, "No", Label(false))
	assert.Equal(t, "Open", Label(map[string]any{"label": "Open"}))
	assert.Equal(t, "Done", Label(map[string]any{"text": "Done"}))
	assert.Equal(t, `{"id":1}`, Label(map[string]any{"id": 1}))
	assert.Equal(t, "a, b", Label([]any{"a", "b"}))
}

func TestNumberAndTruthy(t *testing.T) {
	n, ok := Number("3.5")
	assert.True(t, ok)
	assert.Equal(t, 3.5, n)

	_, ok = Number("abc")
	assert.False(t, ok)

	assert.True(t, Truthy(true))
	assert.True(t, Truthy("x"))
	assert.False(t, Truthy(nil))
	assert.False(t, Truthy("no"))
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "[x]", Display(true, models.ColumnCheckbox))
	assert.Equal(t, "[ ]", Display(nil, models.ColumnCheckbox))
	assert.Equal(t, "first…", Display("first\nsecond", models.ColumnLongText))
	assert.Equal(t, "a, b", Display([]any{"a", "b"}, models.ColumnTags))
	assert.Equal(t, "Done", Display(map[string]any{"label": "Done"}, models.ColumnStatus))
	assert.Equal(t, "3.5", Display(3.5, models.ColumnNumber))
	assert.Equal(t, "", Display(nil, models.ColumnText))
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "11.5", Summarize([]any{3.0, "8.5", nil, "many"}, models.ColumnNumber))
	assert.Equal(t, "", Summarize([]any{nil, ""}, models.ColumnNumber))
	assert.Equal(t, "2/3", Summarize([]any{true, "yes", false}, models.ColumnCheckbox))
	assert.Equal(t, "2024-04-01 – 2024-05-01",
		Summarize([]any{"2024-05-01", nil, "2024-04-01"}, models.ColumnDate))
	assert.Equal(t, "2024-04-01", Summarize([]any{"2024-04-01"}, models.ColumnDate))
	assert.Equal(t, "", Summarize([]any{"ana"}, models.ColumnPerson))
}
