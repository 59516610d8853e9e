package board

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"
	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tabla/internal/cli"
	"github.com/thenoetrevino/tabla/internal/cli/handler"
	"github.com/thenoetrevino/tabla/internal/cli/styles"
	"github.com/thenoetrevino/tabla/internal/config"
	"github.com/thenoetrevino/tabla/internal/grid"
	"github.com/thenoetrevino/tabla/internal/grid/project"
	"github.com/thenoetrevino/tabla/internal/grid/rows"
	"github.com/thenoetrevino/tabla/internal/grid/value"
	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/types"
	"github.com/thenoetrevino/tabla/internal/user"
)

const cellSeparator = " │ "

// ShowCmd returns the board show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a board as a grouped table",
		Long: `Print a board the way the grid shows it: groups in order, items
inside each group and a summary line per group.

Filters take "column operator [value]". Operators depend on the column type:
equals, not_equals, contains, not_contains, starts_with, ends_with, before,
after, greater_than, less_than, is_empty, is_not_empty, is_checked,
is_not_checked.

Examples:
  tabla board show --board=Sprint
  tabla board show --group-by=status --sort=due
  tabla board show --filter="estimate greater_than 3" --filter="done is_not_checked"
  tabla board show --search=login --json
`,
		RunE: runShow,
	}

	cmd.Flags().String("board", "", "Board id or name (uses TABLA_BOARD env var if not specified)")
	cmd.Flags().String("group-by", "", "Group items by this column instead of the board's groups")
	cmd.Flags().String("sort", "", "Sort items: column or column:desc")
	cmd.Flags().StringArray("filter", nil, `Filter condition "column operator [value]" (repeatable)`)
	cmd.Flags().Bool("any", false, "Keep items matching any filter instead of all")
	cmd.Flags().String("search", "", "Keep items whose name or any cell contains this text")

	handler.AddOutputFlags(cmd)

	return cmd
}

// shownGroup and shownItem are the JSON shape of board show
type shownGroup struct {
	ID        types.GroupID `json:"id"`
	Name      string        `json:"name"`
	Color     string        `json:"color"`
	Collapsed bool          `json:"collapsed"`
	Count     int           `json:"count"`
	Items     []shownItem   `json:"items"`
}

type shownItem struct {
	ID   types.ItemID   `json:"id"`
	Name string         `json:"name"`
	Data map[string]any `json:"data"`
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := handler.NewFlagParser(cmd).Formatter()

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail(err, "")
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			log.Printf("Error closing CLI: %v", err)
		}
	}()

	b, err := cliInstance.ResolveBoard(ctx, cmd)
	if err != nil {
		return formatter.Fail(err, "Use 'tabla board list' to see available boards")
	}
	snap, err := cliInstance.App.BoardService.LoadBoard(ctx, b.ID)
	if err != nil {
		return formatter.Fail(err, "")
	}

	proj, err := projectionFromFlags(cmd, snap.Columns)
	if err != nil {
		return formatter.Fail(err, "Columns: "+cli.ColumnIDs(snap.Columns))
	}

	gridCfg := cliInstance.App.Config().Grid
	engineCfg := gridCfg.Engine(types.UserID(user.GetCurrentUsername()))
	engineCfg.ColumnHeaders = false
	engine := grid.New(engineCfg, grid.Callbacks{})
	engine.SetData(snap.Items, snap.Groups, snap.Columns)
	engine.SetProjection(proj)

	if formatter.Quiet {
		for _, r := range engine.Rows() {
			if r.Kind == rows.ItemRow {
				fmt.Println(r.Item.ID)
			}
		}
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": true,
			"board":   b,
			"groups":  collectGroups(engine),
			"hidden":  engine.Hidden(),
		})
	}

	fmt.Println(styles.TitleStyle.Render(b.Name))
	if b.Description != "" {
		fmt.Println(styles.SubtitleStyle.Render(b.Description))
	}
	fmt.Println()
	fmt.Print(renderRows(engine, gridCfg))
	if n := engine.Hidden(); n > 0 {
		fmt.Println(styles.SubtitleStyle.Render(fmt.Sprintf("%d items hidden by filters", n)))
	}
	return nil
}

// projectionFromFlags builds the grouping, filter and sort settings,
// rejecting columns the board does not have
func projectionFromFlags(cmd *cobra.Command, columns []models.Column) (project.Config, error) {
	var cfg project.Config

	groupBy, _ := cmd.Flags().GetString("group-by")
	if groupBy = strings.ToLower(strings.TrimSpace(groupBy)); groupBy != "" {
		if _, ok := project.ColumnType(columns, types.ColumnID(groupBy)); !ok {
			return cfg, cli.Exitf(cli.ExitValidation, "unknown group-by column %q", groupBy)
		}
		cfg.GroupBy = types.ColumnID(groupBy)
	}

	sortFlag, _ := cmd.Flags().GetString("sort")
	sortState, err := project.ParseSort(sortFlag)
	if err != nil {
		return cfg, cli.Exit(cli.ExitUsage, err)
	}
	if sortState.Active() {
		if _, ok := project.ColumnType(columns, sortState.ColumnID); !ok {
			return cfg, cli.Exitf(cli.ExitValidation, "unknown sort column %q", sortState.ColumnID)
		}
	}
	cfg.Sort = sortState

	filters, _ := cmd.Flags().GetStringArray("filter")
	for _, f := range filters {
		cond, err := project.ParseCondition(f)
		if err != nil {
			return cfg, err
		}
		if err := project.ValidateCondition(cond, columns); err != nil {
			return cfg, err
		}
		cfg.Filters = append(cfg.Filters, cond)
	}
	if anyMatch, _ := cmd.Flags().GetBool("any"); anyMatch {
		cfg.Match = project.MatchAny
	}

	cfg.Search, _ = cmd.Flags().GetString("search")
	return cfg, nil
}

func collectGroups(e *grid.Engine) []shownGroup {
	var out []shownGroup
	for _, r := range e.Rows() {
		switch r.Kind {
		case rows.GroupHeader:
			out = append(out, shownGroup{
				ID:        r.Group.ID,
				Name:      r.Group.Name,
				Color:     r.Group.Color,
				Collapsed: e.Collapsed(r.GroupID),
				Count:     r.ItemCount,
				Items:     []shownItem{},
			})
		case rows.ItemRow:
			g := &out[len(out)-1]
			g.Items = append(g.Items, shownItem{ID: r.Item.ID, Name: r.Item.Name, Data: r.Item.Data})
		}
	}
	return out
}

// renderRows prints the flattened rows with fixed-width cells
func renderRows(e *grid.Engine, cfg config.GridConfig) string {
	cols := e.Columns()
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = cfg.Cells(e.Width(c.ID))
	}

	var sb strings.Builder
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = styles.HeaderStyle.Render(fit(c.Name, widths[i]))
	}
	sb.WriteString(strings.Join(header, cellSeparator) + "\n")

	for _, r := range e.Rows() {
		switch r.Kind {
		case rows.GroupHeader:
			sb.WriteString(styles.RenderGroupHeader(r.Group, r.ItemCount) + "\n")
		case rows.ItemRow:
			cells := make([]string, len(cols))
			for i, c := range cols {
				cells[i] = fit(value.Display(r.Item.Value(c.ID), c.Type), widths[i])
			}
			sb.WriteString(styles.ValueStyle.Render(strings.Join(cells, cellSeparator)) + "\n")
		case rows.GroupSummary:
			sb.WriteString(styles.SubtitleStyle.Render(summaryLine(e, r, cols, widths)) + "\n")
		case rows.GroupFooter:
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func summaryLine(e *grid.Engine, r rows.Row, cols []models.Column, widths []int) string {
	ids := e.Index().GroupItems(r.GroupID)
	cells := make([]string, len(cols))
	for i, c := range cols {
		if i == 0 {
			cells[i] = fit(fmt.Sprintf("%d items", r.ItemCount), widths[i])
			continue
		}
		values := make([]any, 0, len(ids))
		for _, id := range ids {
			if it, ok := e.Item(id); ok {
				values = append(values, it.Value(c.ID))
			}
		}
		cells[i] = fit(value.Summarize(values, c.Type), widths[i])
	}
	return strings.Join(cells, cellSeparator)
}

// fit truncates s with an ellipsis and pads it to exactly width cells
func fit(s string, width int) string {
	s = strings.ReplaceAll(s, "\t", " ")
	return padding.String(truncate.StringWithTail(s, uint(width), "…"), uint(width))
}
