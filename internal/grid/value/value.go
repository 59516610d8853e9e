// Package value holds the comparison and conversion rules for dynamically
// typed cell values (anything that survives a JSON round trip).
package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/thenoetrevino/tabla/internal/models"
)

// IsEmpty reports whether a cell value counts as blank: nil, "", an empty
// slice or an empty map.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

// Equal compares two cell values structurally. Values are compared through
// their JSON encoding so 3, int64(3) and 3.0 are equal and map key order
// does not matter. Two empty values are equal.
func Equal(a, b any) bool {
	if IsEmpty(a) && IsEmpty(b) {
		return true
	}
	ab, errA := json.Marshal(a)
	bb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return fmt.Sprint(a) == fmt.Sprint(b)
	}
	return bytes.Equal(ab, bb)
}

// Normalize converts v into its JSON-decoded form (numbers become float64,
// structs become maps). Unencodable values are returned unchanged.
func Normalize(v any) any {
	if v == nil {
		return nil
	}
	switch v.(type) {
	case string, bool, float64:
		return v
	}
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}

// String renders a value as plain text: strings verbatim, nil as "",
// everything else as compact JSON.
func String(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// Parse interprets pasted text: JSON when it decodes, the raw string otherwise
func Parse(text string) any {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return text
	}
	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
		return v
	}
	return text
}

// Coerce converts editor text into a value suitable for the column type.
// Text that does not fit the type is kept as a string so nothing typed is lost.
func Coerce(text string, t models.ColumnType) any {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	switch t {
	case models.ColumnNumber:
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f
		}
	case models.ColumnCheckbox:
		switch strings.ToLower(trimmed) {
		case "true", "yes", "y", "x", "1", "on", "checked":
			return true
		case "false", "no", "n", "0", "off", "unchecked":
			return false
		}
	case models.ColumnTags:
		parts := strings.Split(trimmed, ",")
		tags := make([]any, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				tags = append(tags, p)
			}
		}
		return tags
	case models.ColumnDate:
		if d, ok := ParseDate(trimmed); ok {
			return d.Format(DateLayout)
		}
	}
	return text
}

// DateLayout is the canonical storage format of date cells
const DateLayout = "2006-01-02"

// ParseDate accepts the canonical layout and RFC 3339 timestamps
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range []string{DateLayout, time.RFC3339, "2006/01/02", "01/02/2006"} {
		if d, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// Number extracts a float from numeric values or numeric strings
func Number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

// Truthy interprets checkbox values
func Truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "x", "1", "on", "checked":
			return true
		}
	case float64:
		return t != 0
	}
	return false
}

// Label returns the display text of a value. Objects with a "label" or
// "text" field show that field; booleans show Yes/No.
func Label(v any) string {
	switch t := v.(type) {
	case bool:
		if t {
			return "Yes"
		}
		return "No"
	case map[string]any:
		for _, k := range []string{"label", "text"} {
			if s, ok := t[k].(string); ok {
				return s
			}
		}
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, Label(e))
		}
		return strings.Join(parts, ", ")
	}
	return String(v)
}

// Display renders a cell for a fixed-width grid: checkboxes as [x] or [ ],
// long text cut at the first line break, everything else via Label
func Display(v any, t models.ColumnType) string {
	switch t {
	case models.ColumnCheckbox:
		if Truthy(v) {
			return "[x]"
		}
		return "[ ]"
	case models.ColumnLongText:
		s := Label(v)
		if i := strings.IndexAny(s, "\r\n"); i >= 0 {
			return s[:i] + "…"
		}
		return s
	}
	return Label(v)
}

// Summarize aggregates one column across a group: numbers are summed,
// checkboxes count as "checked/total", dates show their span. Other types
// have no summary and return "".
func Summarize(values []any, t models.ColumnType) string {
	switch t {
	case models.ColumnNumber:
		var sum float64
		var n int
		for _, v := range values {
			if f, ok := Number(v); ok {
				sum += f
				n++
			}
		}
		if n == 0 {
			return ""
		}
		return strconv.FormatFloat(sum, 'f', -1, 64)
	case models.ColumnCheckbox:
		checked := 0
		for _, v := range values {
			if Truthy(v) {
				checked++
			}
		}
		return fmt.Sprintf("%d/%d", checked, len(values))
	case models.ColumnDate:
		var lo, hi time.Time
		for _, v := range values {
			d, ok := ParseDate(String(v))
			if !ok {
				continue
			}
			if lo.IsZero() || d.Before(lo) {
				lo = d
			}
			if hi.IsZero() || d.After(hi) {
				hi = d
			}
		}
		if lo.IsZero() {
			return ""
		}
		if lo.Equal(hi) {
			return lo.Format(DateLayout)
		}
		return lo.Format(DateLayout) + " – " + hi.Format(DateLayout)
	}
	return ""
}
