package project

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/thenoetrevino/tabla/internal/grid/value"
	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/types"
)

// Operator is a filter condition operator
type Operator string

const (
	OpEquals       Operator = "equals"
	OpNotEquals    Operator = "not_equals"
	OpContains     Operator = "contains"
	OpNotContains  Operator = "not_contains"
	OpStartsWith   Operator = "starts_with"
	OpEndsWith     Operator = "ends_with"
	OpBefore       Operator = "before"
	OpAfter        Operator = "after"
	OpIsEmpty      Operator = "is_empty"
	OpIsNotEmpty   Operator = "is_not_empty"
	OpIsChecked    Operator = "is_checked"
	OpIsNotChecked Operator = "is_not_checked"
	OpGreaterThan  Operator = "greater_than"
	OpLessThan     Operator = "less_than"
)

// Unary reports whether the operator takes no comparison value
func (o Operator) Unary() bool {
	switch o {
	case OpIsEmpty, OpIsNotEmpty, OpIsChecked, OpIsNotChecked:
		return true
	}
	return false
}

// Label is the human-readable operator name
func (o Operator) Label() string {
	return strings.ReplaceAll(string(o), "_", " ")
}

var textOperators = []Operator{
	OpEquals, OpNotEquals, OpContains, OpNotContains,
	OpStartsWith, OpEndsWith, OpIsEmpty, OpIsNotEmpty,
}

// operatorTable fixes which operators each column type accepts
var operatorTable = map[models.ColumnType][]Operator{
	models.ColumnText:     textOperators,
	models.ColumnLongText: {OpContains, OpNotContains, OpIsEmpty, OpIsNotEmpty},
	models.ColumnLink:     textOperators,
	models.ColumnPerson:   {OpEquals, OpNotEquals, OpContains, OpIsEmpty, OpIsNotEmpty},
	models.ColumnStatus:   {OpEquals, OpNotEquals, OpIsEmpty, OpIsNotEmpty},
	models.ColumnNumber:   {OpEquals, OpNotEquals, OpGreaterThan, OpLessThan, OpIsEmpty, OpIsNotEmpty},
	models.ColumnDate:     {OpEquals, OpBefore, OpAfter, OpIsEmpty, OpIsNotEmpty},
	models.ColumnCheckbox: {OpIsChecked, OpIsNotChecked},
	models.ColumnTags:     {OpContains, OpNotContains, OpIsEmpty, OpIsNotEmpty},
}

// Operators lists the operators available for a column type
func Operators(t models.ColumnType) []Operator {
	return slices.Clone(operatorTable[t])
}

// Condition is one filter clause
type Condition struct {
	ColumnID types.ColumnID `yaml:"column" json:"column"`
	Operator Operator       `yaml:"operator" json:"operator"`
	Value    any            `yaml:"value,omitempty" json:"value,omitempty"`
}

// String renders the condition for the status bar
func (c Condition) String() string {
	if c.Operator.Unary() {
		return fmt.Sprintf("%s %s", c.ColumnID, c.Operator.Label())
	}
	return fmt.Sprintf("%s %s %q", c.ColumnID, c.Operator.Label(), value.String(c.Value))
}

// ColumnType resolves a column's type. The built-in name column is text
// even when the column list omits it.
func ColumnType(columns []models.Column, id types.ColumnID) (models.ColumnType, bool) {
	for _, c := range columns {
		if c.ID == id {
			return c.Type, true
		}
	}
	if id == models.NameColumnID {
		return models.ColumnText, true
	}
	return "", false
}

// ValidateCondition checks a condition against the column's operator table
// before it is accepted into a filter
func ValidateCondition(c Condition, columns []models.Column) error {
	t, ok := ColumnType(columns, c.ColumnID)
	if !ok {
		return fmt.Errorf("%w: unknown column %q", ErrInvalidCondition, c.ColumnID)
	}
	if !slices.Contains(operatorTable[t], c.Operator) {
		return fmt.Errorf("%w: %s does not apply to %s columns", ErrInvalidCondition, c.Operator, t)
	}
	if c.Operator.Unary() {
		return nil
	}
	if value.IsEmpty(c.Value) {
		return fmt.Errorf("%w: %s needs a value", ErrInvalidCondition, c.Operator)
	}
	switch t {
	case models.ColumnNumber:
		if _, ok := value.Number(c.Value); !ok {
			return fmt.Errorf("%w: %q is not a number", ErrInvalidCondition, value.String(c.Value))
		}
	case models.ColumnDate:
		if _, ok := value.ParseDate(value.String(c.Value)); !ok {
			return fmt.Errorf("%w: %q is not a date", ErrInvalidCondition, value.String(c.Value))
		}
	}
	return nil
}

// Match evaluates a validated condition against a cell value
func (c Condition) Match(t models.ColumnType, cell any) bool {
	switch c.Operator {
	case OpIsEmpty:
		return value.IsEmpty(cell)
	case OpIsNotEmpty:
		return !value.IsEmpty(cell)
	case OpIsChecked:
		return value.Truthy(cell)
	case OpIsNotChecked:
		return !value.Truthy(cell)
	}

	switch t {
	case models.ColumnNumber:
		return matchNumber(c.Operator, cell, c.Value)
	case models.ColumnDate:
		return matchDate(c.Operator, cell, c.Value)
	case models.ColumnTags:
		return matchTags(c.Operator, cell, c.Value)
	}
	return matchText(c.Operator, value.Label(cell), value.String(c.Value))
}

func matchText(op Operator, cell, want string) bool {
	cell, want = strings.ToLower(strings.TrimSpace(cell)), strings.ToLower(strings.TrimSpace(want))
	switch op {
	case OpEquals:
		return cell == want
	case OpNotEquals:
		return cell != want
	case OpContains:
		return strings.Contains(cell, want)
	case OpNotContains:
		return !strings.Contains(cell, want)
	case OpStartsWith:
		return strings.HasPrefix(cell, want)
	case OpEndsWith:
		return strings.HasSuffix(cell, want)
	}
	return false
}

func matchNumber(op Operator, cell, want any) bool {
	w, _ := value.Number(want)
	n, ok := value.Number(cell)
	if !ok {
		return op == OpNotEquals
	}
	switch op {
	case OpEquals:
		return n == w
	case OpNotEquals:
		return n != w
	case OpGreaterThan:
		return n > w
	case OpLessThan:
		return n < w
	}
	return false
}

func matchDate(op Operator, cell, want any) bool {
	w, _ := value.ParseDate(value.String(want))
	d, ok := value.ParseDate(value.String(cell))
	if !ok {
		return false
	}
	d, w = d.Truncate(24*time.Hour), w.Truncate(24*time.Hour)
	switch op {
	case OpEquals:
		return d.Equal(w)
	case OpBefore:
		return d.Before(w)
	case OpAfter:
		return d.After(w)
	}
	return false
}

func matchTags(op Operator, cell, want any) bool {
	target := strings.ToLower(strings.TrimSpace(value.String(want)))
	found := false
	if tags, ok := cell.([]any); ok {
		for _, tag := range tags {
			if strings.ToLower(value.Label(tag)) == target {
				found = true
				break
			}
		}
	}
	if op == OpNotContains {
		return !found
	}
	return found
}
