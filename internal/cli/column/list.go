package column

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tabla/internal/cli"
	"github.com/thenoetrevino/tabla/internal/cli/handler"
)

// ListCmd returns the column list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the columns of a board",
		RunE:  handler.Command(handler.HandlerFunc(runList)),
	}

	cmd.Flags().String("board", "", "Board id or name (uses TABLA_BOARD env var if not specified)")
	handler.AddOutputFlags(cmd)

	return cmd
}

func runList(ctx context.Context, c *cli.CLI, args *handler.Arguments) (any, error) {
	b, err := c.ResolveBoard(ctx, args.GetCmd())
	if err != nil {
		return nil, err
	}
	snap, err := c.App.BoardService.LoadBoard(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	if args.GetBool("json") {
		return snap.Columns, nil
	}
	if args.GetBool("quiet") {
		for _, col := range snap.Columns {
			fmt.Println(col.ID)
		}
		return nil, nil
	}

	fmt.Printf("Board %s has %d columns:\n\n", b.Name, len(snap.Columns))
	for _, col := range snap.Columns {
		hidden := ""
		if !col.Visible {
			hidden = " (hidden)"
		}
		fmt.Printf("  %-16s %-20s %-10s width %d%s\n", col.ID, col.Name, col.Type, col.Width, hidden)
	}
	return nil, nil
}
