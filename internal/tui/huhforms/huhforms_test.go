package huhforms

import (
	"testing"

	"charm.land/huh/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/tabla/internal/config/colors"
	"github.com/thenoetrevino/tabla/internal/grid/project"
	"github.com/thenoetrevino/tabla/internal/models"
)

var testColumns = []models.Column{
	{ID: "name", Name: "Name", Type: models.ColumnText},
	{ID: "status", Name: "Status", Type: models.ColumnStatus},
	{ID: "done", Name: "Done", Type: models.ColumnCheckbox},
}

func TestFilterValues_Condition(t *testing.T) {
	v := FilterValues{Column: "status", Operator: "equals", Value: "Open"}
	assert.False(t, v.Search())
	assert.Equal(t, project.Condition{ColumnID: "status", Operator: project.OpEquals, Value: "Open"}, v.Condition())

	unary := FilterValues{Column: "done", Operator: "is_checked", Value: "ignored"}
	assert.Nil(t, unary.Condition().Value)

	assert.True(t, FilterValues{Value: "docs"}.Search())
}

func TestOperatorOptions_FollowColumnType(t *testing.T) {
	opts := operatorOptions(testColumns, "done")
	require.Len(t, opts, 2)
	assert.Equal(t, "is_checked", opts[0].Value)

	assert.Len(t, operatorOptions(testColumns, "status"), len(project.Operators(models.ColumnStatus)))
	assert.Nil(t, operatorOptions(testColumns, "missing"))
}

func TestCreateFilterForm_DefaultsToMatchAll(t *testing.T) {
	var v FilterValues
	form := CreateFilterForm(&v, testColumns)

	require.NotNil(t, form)
	assert.Equal(t, "all", v.Match)
}

func TestCreateForms(t *testing.T) {
	var item ItemValues
	assert.NotNil(t, CreateItemForm(&item, []models.Group{{ID: "1", Name: "Backlog"}, {ID: "2", Name: "Doing"}}))

	confirm := true
	assert.NotNil(t, CreateDeleteForm("Write docs", &confirm))
}

func TestThemeAndKeyMap(t *testing.T) {
	theme := CreateTablaTheme(*colors.Default())
	assert.NotNil(t, theme.Theme(true))

	km := CreateKeyMap()
	assert.Contains(t, km.Quit.Keys(), "esc")

	var _ *huh.KeyMap = km
}
