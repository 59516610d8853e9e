package item

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tabla/internal/cli"
	"github.com/thenoetrevino/tabla/internal/cli/handler"
	boardservice "github.com/thenoetrevino/tabla/internal/services/board"
	"github.com/thenoetrevino/tabla/internal/types"
)

// AddCmd returns the item add subcommand
func AddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item to a board",
		Long: `Add an item to a board. Cell values are given as column=value and are
converted to the column's type ("3" into a number column stores 3).
JSON literals are decoded, so tags can be written as '["ui","ops"]'.

Examples:
  tabla item add --board=Sprint --name="Fix login"
  tabla item add --board=Sprint --group=Doing --name="Ship" --set status=Done --set estimate=3
  ITEM_ID=$(tabla item add --name="Triage" --quiet)
`,
		RunE: runAdd,
	}

	cmd.Flags().String("board", "", "Board id or name (uses TABLA_BOARD env var if not specified)")
	cmd.Flags().String("name", "", "Item name (required)")
	if err := cmd.MarkFlagRequired("name"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}
	cmd.Flags().String("group", "", "Group id or name (defaults to the first group)")
	cmd.Flags().StringArray("set", nil, "Cell value as column=value (repeatable)")

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
	groupRef, _ := cmd.Flags().GetString("group")
	assignments, _ := cmd.Flags().GetStringArray("set")
	data, err := cli.ParseAssignments(assignments)
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

	var groupID types.GroupID
	if groupRef != "" {
		g, err := cliInstance.ResolveGroup(ctx, b.ID, groupRef)
		if err != nil {
			return formatter.Fail(err, "")
		}
		groupID = g.ID
	}

	it, err := cliInstance.App.BoardService.AddItem(ctx, boardservice.AddItemRequest{
		BoardID: b.ID,
		GroupID: groupID,
		Name:    name,
		Data:    data,
	})
	if err != nil {
		return formatter.Fail(err, "")
	}

	if formatter.JSON || formatter.Quiet {
		return formatter.Success(it)
	}

	fmt.Printf("✓ Item %s created: %s\n", it.ID, it.Name)
	return nil
}
