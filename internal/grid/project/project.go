// Package project derives the groups and item order the flattener renders:
// persisted groups or dynamic buckets by a column value, filtered by
// conditions and optionally sorted by a column. Item records are never
// modified; dynamic group membership is returned as a separate map.
package project

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/thenoetrevino/tabla/internal/grid/value"
	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/types"
)

// EmptyLabel names the bucket of items with no value
const EmptyLabel = "(Empty)"

// SyntheticPrefix starts the id of every dynamic group
const SyntheticPrefix = "value:"

// EmptyGroupID is the id of the (Empty) bucket
const EmptyGroupID types.GroupID = SyntheticPrefix

// Match combines filter conditions
type Match string

const (
	MatchAll Match = "all"
	MatchAny Match = "any"
)

// Config selects how items are projected
type Config struct {
	// GroupBy buckets items by this column's value. Empty keeps the
	// persisted groups.
	GroupBy types.ColumnID
	Filters []Condition
	Match   Match
	// Search keeps items whose name or any cell label contains the text
	Search string
	Sort   SortState
}

// Grouped reports whether dynamic grouping is active
func (c Config) Grouped() bool {
	return c.GroupBy != ""
}

// Result feeds the flattener
type Result struct {
	Groups []models.Group
	Items  []models.Item
	// Assignments maps item id to dynamic group id; nil in persisted mode
	Assignments map[types.ItemID]types.GroupID
	// PreserveItemOrder is set when a sort is active
	PreserveItemOrder bool
	// Hidden counts items removed by filters or search
	Hidden int
}

// GroupID returns the synthetic group id for a bucket key
func GroupID(key string) types.GroupID {
	return types.GroupID(SyntheticPrefix + key)
}

// IsSynthetic reports whether a group id came from dynamic grouping
func IsSynthetic(id types.GroupID) bool {
	return strings.HasPrefix(string(id), SyntheticPrefix)
}

// BucketKey coerces a cell value into its bucket key. Empty values yield ""
// which maps to the (Empty) bucket.
func BucketKey(v any) string {
	if value.IsEmpty(v) {
		return ""
	}
	return value.Label(v)
}

// Project applies filters, search, grouping and sort. Invalid conditions are
// skipped; callers validate with ValidateCondition before accepting them.
func Project(items []models.Item, groups []models.Group, columns []models.Column, cfg Config) Result {
	kept := filter(items, columns, cfg)
	res := Result{
		Items:  kept,
		Hidden: len(items) - len(kept),
	}

	if cfg.Sort.Active() {
		sortItems(res.Items, columns, cfg.Sort)
		res.PreserveItemOrder = true
	}

	if !cfg.Grouped() {
		res.Groups = append([]models.Group(nil), groups...)
		return res
	}
	res.Groups, res.Assignments = bucket(res.Items, columns, cfg.GroupBy)
	return res
}

func filter(items []models.Item, columns []models.Column, cfg Config) []models.Item {
	conds := make([]Condition, 0, len(cfg.Filters))
	kinds := make([]models.ColumnType, 0, len(cfg.Filters))
	for _, c := range cfg.Filters {
		if err := ValidateCondition(c, columns); err != nil {
			slog.Warn("skipping filter condition", "condition", c.String(), "error", err)
			continue
		}
		t, _ := ColumnType(columns, c.ColumnID)
		conds = append(conds, c)
		kinds = append(kinds, t)
	}
	search := strings.ToLower(strings.TrimSpace(cfg.Search))

	out := make([]models.Item, 0, len(items))
	for i := range items {
		it := &items[i]
		if search != "" && !matchesSearch(it, columns, search) {
			continue
		}
		if len(conds) > 0 && !matchConditions(it, conds, kinds, cfg.Match) {
			continue
		}
		out = append(out, *it)
	}
	return out
}

func matchConditions(it *models.Item, conds []Condition, kinds []models.ColumnType, m Match) bool {
	for i, c := range conds {
		ok := c.Match(kinds[i], it.Value(c.ColumnID))
		if m == MatchAny && ok {
			return true
		}
		if m != MatchAny && !ok {
			return false
		}
	}
	return m != MatchAny
}

func matchesSearch(it *models.Item, columns []models.Column, needle string) bool {
	if strings.Contains(strings.ToLower(it.Name), needle) {
		return true
	}
	for _, c := range columns {
		if strings.Contains(strings.ToLower(value.Label(it.Value(c.ID))), needle) {
			return true
		}
	}
	return false
}

// bucket groups items by column value. Keys declared in the column's
// options come first in declared order, the rest alphabetically
// (case-insensitive, ties by raw key), and the (Empty) bucket is last.
func bucket(items []models.Item, columns []models.Column, col types.ColumnID) ([]models.Group, map[types.ItemID]types.GroupID) {
	counts := make(map[string]int)
	assignments := make(map[types.ItemID]types.GroupID, len(items))
	for i := range items {
		key := BucketKey(items[i].Value(col))
		counts[key]++
		assignments[items[i].ID] = GroupID(key)
	}

	opts := columnOptions(columns, col)
	rank := make(map[string]int, len(opts))
	for i, o := range opts {
		if _, dup := rank[o.label]; !dup {
			rank[o.label] = i
		}
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if (a == "") != (b == "") {
			return b == ""
		}
		ra, okA := rank[a]
		rb, okB := rank[b]
		if okA != okB {
			return okA
		}
		if okA && ra != rb {
			return ra < rb
		}
		la, lb := strings.ToLower(a), strings.ToLower(b)
		if la != lb {
			return la < lb
		}
		return a < b
	})

	groups := make([]models.Group, len(keys))
	for i, k := range keys {
		g := models.Group{
			ID:       GroupID(k),
			Name:     k,
			Color:    models.DefaultGroupColor,
			Position: float64(i),
		}
		if k == "" {
			g.Name = EmptyLabel
		} else if r, ok := rank[k]; ok && opts[r].color != "" {
			g.Color = opts[r].color
		}
		groups[i] = g
	}
	return groups, assignments
}

type option struct {
	label string
	color string
}

// columnOptions reads Settings["options"]: a list of labels or of
// {label, color} objects, as status columns declare them
func columnOptions(columns []models.Column, id types.ColumnID) []option {
	for _, c := range columns {
		if c.ID != id {
			continue
		}
		var raw []any
		switch v := c.Settings["options"].(type) {
		case []any:
			raw = v
		case []string:
			for _, s := range v {
				raw = append(raw, s)
			}
		default:
			return nil
		}
		out := make([]option, 0, len(raw))
		for _, r := range raw {
			o := option{label: value.Label(r)}
			if m, ok := r.(map[string]any); ok {
				o.color, _ = m["color"].(string)
			}
			if o.label != "" {
				out = append(out, o)
			}
		}
		return out
	}
	return nil
}
