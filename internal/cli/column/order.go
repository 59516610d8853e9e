package column

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tabla/internal/cli"
	"github.com/thenoetrevino/tabla/internal/cli/handler"
	"github.com/thenoetrevino/tabla/internal/types"
)

// OrderCmd returns the column order subcommand
func OrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order <column>...",
		Short: "Reorder a board's columns",
		Long: `Put the listed columns first, in the given order. Columns not listed
keep their relative order after them.

Examples:
  tabla column order --board=Sprint name status owner
`,
		Args: cobra.MinimumNArgs(1),
		RunE: runOrder,
	}

	cmd.Flags().String("board", "", "Board id or name (uses TABLA_BOARD env var if not specified)")
	handler.AddOutputFlags(cmd)

	return cmd
}

func runOrder(cmd *cobra.Command, args []string) error {
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

	known := make(map[types.ColumnID]bool, len(snap.Columns))
	for _, c := range snap.Columns {
		known[c.ID] = true
	}
	ids := make([]types.ColumnID, len(args))
	for i, a := range args {
		ids[i] = types.ColumnID(strings.ToLower(a))
		if !known[ids[i]] {
			return formatter.Fail(cli.Exitf(cli.ExitNotFound, "column %q not found", a),
				"Columns: "+cli.ColumnIDs(snap.Columns))
		}
	}

	if err := cliInstance.App.BoardService.ReorderColumns(ctx, b.ID, ids); err != nil {
		return formatter.Fail(err, "")
	}

	if formatter.Quiet {
		return nil
	}
	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": true,
			"order":   ids,
		})
	}

	fmt.Printf("✓ Columns reordered on %s\n", b.Name)
	return nil
}
