package huhforms

import (
	"charm.land/huh/v2"
	"github.com/thenoetrevino/tabla/internal/grid/project"
	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/types"
)

// FilterValues collects the filter form answers. An empty Column means the
// value is a free-text search across every cell.
type FilterValues struct {
	Column   string
	Operator string
	Value    string
	Match    string
}

// Search reports whether the answers describe a text search
func (v FilterValues) Search() bool {
	return v.Column == ""
}

// Condition converts the answers into a filter clause
func (v FilterValues) Condition() project.Condition {
	c := project.Condition{
		ColumnID: types.ColumnID(v.Column),
		Operator: project.Operator(v.Operator),
	}
	if !c.Operator.Unary() && v.Value != "" {
		c.Value = v.Value
	}
	return c
}

// CreateFilterForm builds the three-step filter builder: column, operator,
// value. The operator list follows the chosen column's type and the value
// step is skipped for unary operators.
func CreateFilterForm(v *FilterValues, columns []models.Column) *huh.Form {
	if v.Match == "" {
		v.Match = string(project.MatchAll)
	}

	columnOptions := []huh.Option[string]{huh.NewOption("Search every column", "")}
	for _, c := range columns {
		columnOptions = append(columnOptions, huh.NewOption(c.Name, string(c.ID)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("column").
				Title("Filter on").
				Options(columnOptions...).
				Value(&v.Column),
			huh.NewSelect[string]().
				Key("match").
				Title("Combine with other filters").
				Options(
					huh.NewOption("Match all", string(project.MatchAll)),
					huh.NewOption("Match any", string(project.MatchAny)),
				).
				Value(&v.Match),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("operator").
				Title("Condition").
				OptionsFunc(func() []huh.Option[string] {
					return operatorOptions(columns, types.ColumnID(v.Column))
				}, &v.Column).
				Value(&v.Operator),
		).WithHideFunc(func() bool { return v.Search() }),
		huh.NewGroup(
			huh.NewInput().
				Key("value").
				Title("Value").
				Placeholder("Text, number or YYYY-MM-DD").
				Value(&v.Value),
		).WithHideFunc(func() bool {
			return !v.Search() && project.Operator(v.Operator).Unary()
		}),
	)
}

func operatorOptions(columns []models.Column, id types.ColumnID) []huh.Option[string] {
	t, ok := project.ColumnType(columns, id)
	if !ok {
		return nil
	}
	ops := project.Operators(t)
	opts := make([]huh.Option[string], len(ops))
	for i, op := range ops {
		opts[i] = huh.NewOption(op.Label(), string(op))
	}
	return opts
}
