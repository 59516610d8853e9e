package board

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tabla/internal/cli"
	"github.com/thenoetrevino/tabla/internal/cli/handler"
	boardservice "github.com/thenoetrevino/tabla/internal/services/board"
)

// CreateCmd returns the board create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new board",
		Long: `Create a new board. Groups are created in the order given; a board
without groups gets a single "Group" on first item.

Examples:
  tabla board create --name="Sprint 12" --group=Backlog --group=Doing --group=Done
  BOARD_ID=$(tabla board create --name="Sprint 12" --quiet)
`,
		RunE: runCreate,
	}

	cmd.Flags().String("name", "", "Board name (required)")
	if err := cmd.MarkFlagRequired("name"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}
	cmd.Flags().String("description", "", "Board description")
	cmd.Flags().StringArray("group", nil, "Initial group name (repeatable)")

	handler.AddOutputFlags(cmd)

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	parser := handler.NewFlagParser(cmd)
	formatter := parser.Formatter()

	name, err := parser.ParseString("name")
	if err != nil {
		return formatter.Fail(err, "")
	}
	description, _ := cmd.Flags().GetString("description")
	groups, _ := cmd.Flags().GetStringArray("group")

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail(err, "")
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			log.Printf("Error closing CLI: %v", err)
		}
	}()

	b, err := cliInstance.App.BoardService.CreateBoard(ctx, boardservice.CreateBoardRequest{
		Name:        name,
		Description: description,
		Groups:      groups,
	})
	if err != nil {
		return formatter.Fail(err, "")
	}

	if formatter.JSON || formatter.Quiet {
		return formatter.Success(b)
	}

	fmt.Printf("✓ Board %d created: %s\n", b.ID, b.Name)
	if len(groups) > 0 {
		fmt.Printf("  Groups: %d\n", len(groups))
	}
	fmt.Printf("\n  Set as default: eval $(tabla use board %d)\n", b.ID)
	return nil
}
