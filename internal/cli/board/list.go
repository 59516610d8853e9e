package board

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tabla/internal/cli"
	"github.com/thenoetrevino/tabla/internal/cli/handler"
)

// ListCmd returns the board list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all boards",
		Long: `List all boards with their ids and descriptions.

Examples:
  tabla board list
  tabla board list --json
  BOARD_IDS=$(tabla board list --quiet)
`,
		RunE: handler.Command(handler.HandlerFunc(runList)),
	}

	handler.AddOutputFlags(cmd)

	return cmd
}

func runList(ctx context.Context, c *cli.CLI, args *handler.Arguments) (any, error) {
	boards, err := c.App.BoardService.ListBoards(ctx)
	if err != nil {
		return nil, err
	}

	if args.GetBool("json") {
		return boards, nil
	}

	if args.GetBool("quiet") {
		for _, b := range boards {
			fmt.Printf("%d\n", b.ID)
		}
		return nil, nil
	}

	if len(boards) == 0 {
		fmt.Println("No boards found")
		return nil, nil
	}

	fmt.Printf("Found %d boards:\n\n", len(boards))
	for _, b := range boards {
		fmt.Printf("  [%d] %s", b.ID, b.Name)
		if b.Description != "" {
			fmt.Printf(" - %s", b.Description)
		}
		fmt.Println()
	}
	return nil, nil
}
