package item

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tabla/internal/cli"
	"github.com/thenoetrevino/tabla/internal/cli/handler"
	"github.com/thenoetrevino/tabla/internal/types"
)

// MoveCmd returns the item move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move an item to another group",
		Long: `Move an item to another group of its board. Without --position the item
goes to the end of the group.

Examples:
  tabla item move --id=12 --group=Doing
  tabla item move --id=12 --group=Doing --position=0.5
`,
		RunE: runMove,
	}

	cmd.Flags().Int("id", 0, "Item ID (required)")
	if err := cmd.MarkFlagRequired("id"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}
	cmd.Flags().String("group", "", "Target group id or name (required)")
	if err := cmd.MarkFlagRequired("group"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}
	cmd.Flags().Float64("position", -1, "Position inside the group (defaults to the end)")

	handler.AddOutputFlags(cmd)

	return cmd
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	parser := handler.NewFlagParser(cmd)
	formatter := parser.Formatter()

	itemID, err := parser.ParseItemID("id")
	if err != nil {
		return formatter.Fail(err, "")
	}
	groupRef, err := parser.ParseString("group")
	if err != nil {
		return formatter.Fail(err, "")
	}
	position, _ := cmd.Flags().GetFloat64("position")

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail(err, "")
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			log.Printf("Error closing CLI: %v", err)
		}
	}()

	boardID, err := cliInstance.App.Repo().GetItemBoard(ctx, itemID)
	if err != nil {
		return formatter.Fail(err, "")
	}
	g, err := cliInstance.ResolveGroup(ctx, boardID, groupRef)
	if err != nil {
		return formatter.Fail(err, "")
	}
	if !cmd.Flags().Changed("position") {
		if position, err = endPosition(cmd, cliInstance, boardID, g.ID); err != nil {
			return formatter.Fail(err, "")
		}
	}

	if err := cliInstance.App.BoardService.MoveItem(ctx, itemID, g.ID, position); err != nil {
		return formatter.Fail(err, "")
	}

	if formatter.Quiet {
		return nil
	}
	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success":  true,
			"item_id":  itemID,
			"group_id": g.ID,
			"position": position,
		})
	}

	fmt.Printf("✓ Item %s moved to %s\n", itemID, g.Name)
	return nil
}

// endPosition returns a position after every item already in the group
func endPosition(cmd *cobra.Command, c *cli.CLI, boardID types.BoardID, groupID types.GroupID) (float64, error) {
	snap, err := c.App.BoardService.LoadBoard(cmd.Context(), boardID)
	if err != nil {
		return 0, err
	}
	end := 0.0
	for _, it := range snap.Items {
		if it.GroupID == groupID && it.Position >= end {
			end = it.Position + 1
		}
	}
	return end, nil
}
