package item

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tabla/internal/cli"
	"github.com/thenoetrevino/tabla/internal/cli/handler"
)

// SetCmd returns the item set subcommand
func SetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set one cell of an item",
		Long: `Set one cell of an item. An empty --value clears the cell; setting the
name column renames the item.

Examples:
  tabla item set --id=12 --column=status --value="Working on it"
  tabla item set --id=12 --column=done --value=true
  tabla item set --id=12 --column=due --value=""
`,
		RunE: runSet,
	}

	cmd.Flags().Int("id", 0, "Item ID (required)")
	if err := cmd.MarkFlagRequired("id"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}
	cmd.Flags().String("column", "", "Column id (required)")
	if err := cmd.MarkFlagRequired("column"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}
	cmd.Flags().String("value", "", "New value; JSON literals are decoded")

	handler.AddOutputFlags(cmd)

	return cmd
}

func runSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	parser := handler.NewFlagParser(cmd)
	formatter := parser.Formatter()

	itemID, err := parser.ParseItemID("id")
	if err != nil {
		return formatter.Fail(err, "")
	}
	columnID, err := parser.ParseColumnID("column")
	if err != nil {
		return formatter.Fail(err, "")
	}
	raw, _ := cmd.Flags().GetString("value")

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail(err, "")
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			log.Printf("Error closing CLI: %v", err)
		}
	}()

	if err := cliInstance.App.BoardService.UpdateCell(ctx, itemID, columnID, cli.ParseCellValue(raw)); err != nil {
		return formatter.Fail(err, "")
	}

	if formatter.Quiet {
		return nil
	}
	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success":   true,
			"item_id":   itemID,
			"column_id": columnID,
		})
	}

	fmt.Printf("✓ Item %s: %s updated\n", itemID, columnID)
	return nil
}
