package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/types"
)

// BoardEnv holds the board set by `tabla use board`
const BoardEnv = "TABLA_BOARD"

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidateColorHex validates that a color string is in valid hex format #RRGGBB
func ValidateColorHex(color string) error {
	if !colorPattern.MatchString(color) {
		return fmt.Errorf("color must be in hex format #RRGGBB (e.g., #FF0000), got: %s", color)
	}
	return nil
}

// GetBoardRef returns the --board flag, falling back to $TABLA_BOARD
func GetBoardRef(cmd *cobra.Command) (string, error) {
	if cmd.Flags().Lookup("board") != nil {
		if ref, _ := cmd.Flags().GetString("board"); ref != "" {
			return ref, nil
		}
	}
	if ref := os.Getenv(BoardEnv); ref != "" {
		return ref, nil
	}
	return "", Exitf(ExitUsage, "no board specified (use --board or %s)", BoardEnv)
}

// ResolveBoard looks up the board named by --board or $TABLA_BOARD
func (c *CLI) ResolveBoard(ctx context.Context, cmd *cobra.Command) (*models.Board, error) {
	ref, err := GetBoardRef(cmd)
	if err != nil {
		return nil, err
	}
	return c.App.BoardService.GetBoard(ctx, ref)
}

// ParseCellValue reads a cell value from the command line. JSON literals
// (numbers, booleans, arrays, objects, null) are decoded; anything else is
// taken as text and coerced by the column type later.
func ParseCellValue(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	switch trimmed[0] {
	case '[', '{', '"':
		var v any
		if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
			return v
		}
	}
	switch trimmed {
	case "null":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	return raw
}

// ParseAssignments turns key=value pairs into item data
func ParseAssignments(pairs []string) (map[string]any, error) {
	data := make(map[string]any, len(pairs))
	for _, p := range pairs {
		key, val, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, Exitf(ExitUsage, "invalid --set %q (want column=value)", p)
		}
		data[key] = ParseCellValue(val)
	}
	return data, nil
}

// ColumnIDs lists column ids for suggestions
func ColumnIDs(cols []models.Column) string {
	ids := make([]string, len(cols))
	for i, c := range cols {
		ids[i] = string(c.ID)
	}
	return strings.Join(ids, ", ")
}

// ResolveGroup finds a group of the board by id or by case-insensitive name
func (c *CLI) ResolveGroup(ctx context.Context, boardID types.BoardID, ref string) (*models.Group, error) {
	snap, err := c.App.BoardService.LoadBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	ref = strings.TrimSpace(ref)
	for i := range snap.Groups {
		if string(snap.Groups[i].ID) == ref {
			return &snap.Groups[i], nil
		}
	}
	for i := range snap.Groups {
		if strings.EqualFold(snap.Groups[i].Name, ref) {
			return &snap.Groups[i], nil
		}
	}
	return nil, fmt.Errorf("group %q: %w", ref, models.ErrGroupNotFound)
}
