package column

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tabla/internal/cli"
	"github.com/thenoetrevino/tabla/internal/cli/handler"
	"github.com/thenoetrevino/tabla/internal/models"
)

// ResizeCmd returns the column resize subcommand
func ResizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resize",
		Short: "Set a column's width",
		Long: fmt.Sprintf(`Set a column's width in grid units. Widths are clamped to %d-%d.

Examples:
  tabla column resize --board=Sprint --id=status --width=180
`, models.MinColumnWidth, models.MaxColumnWidth),
		RunE: runResize,
	}

	cmd.Flags().String("board", "", "Board id or name (uses TABLA_BOARD env var if not specified)")
	cmd.Flags().String("id", "", "Column id (required)")
	if err := cmd.MarkFlagRequired("id"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}
	cmd.Flags().Int("width", 0, "New width (required)")
	if err := cmd.MarkFlagRequired("width"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}

	handler.AddOutputFlags(cmd)

	return cmd
}

func runResize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	parser := handler.NewFlagParser(cmd)
	formatter := parser.Formatter()

	id, err := parser.ParseColumnID("id")
	if err != nil {
		return formatter.Fail(err, "")
	}
	width, err := parser.ParseInt("width")
	if err != nil {
		return formatter.Fail(err, "")
	}

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
	if err := cliInstance.App.BoardService.ResizeColumn(ctx, b.ID, id, width); err != nil {
		return formatter.Fail(err, "Use 'tabla column list' to see the board's columns")
	}

	width = models.ClampWidth(width)
	if formatter.Quiet {
		return nil
	}
	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success":   true,
			"column_id": id,
			"width":     width,
		})
	}

	fmt.Printf("✓ Column %s is now %d wide\n", id, width)
	return nil
}
