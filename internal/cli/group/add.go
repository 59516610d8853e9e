package group

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tabla/internal/cli"
	"github.com/thenoetrevino/tabla/internal/cli/handler"
	boardservice "github.com/thenoetrevino/tabla/internal/services/board"
)

// AddCmd returns the group add subcommand
func AddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a group to a board",
		Long: `Add a group at the bottom of a board.

Examples:
  tabla group add --board=Sprint --name=Blocked --color=#e2445c
  GROUP_ID=$(tabla group add --name=Done --quiet)
`,
		RunE: runAdd,
	}

	cmd.Flags().String("board", "", "Board id or name (uses TABLA_BOARD env var if not specified)")
	cmd.Flags().String("name", "", "Group name (required)")
	if err := cmd.MarkFlagRequired("name"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}
	cmd.Flags().String("color", "", "Header color as #RRGGBB")

	handler.AddOutputFlags(cmd)

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	parser := handler.NewFlagParser(cmd)
	formatter := parser.Formatter()

	name, err := parser.ParseString("name")
	if err != nil {
		return formatter.Fail(err, "")
	}
	color, err := parser.ParseColor("color")
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

	g, err := cliInstance.App.BoardService.AddGroup(ctx, boardservice.AddGroupRequest{
		BoardID: b.ID,
		Name:    name,
		Color:   color,
	})
	if err != nil {
		return formatter.Fail(err, "")
	}

	if formatter.JSON || formatter.Quiet {
		return formatter.Success(g)
	}

	fmt.Printf("✓ Group %s created: %s\n", g.ID, g.Name)
	return nil
}
