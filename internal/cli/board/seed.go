package board

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tabla/internal/cli"
	"github.com/thenoetrevino/tabla/internal/cli/handler"
	boardservice "github.com/thenoetrevino/tabla/internal/services/board"
)

// SeedCmd returns the board seed subcommand
func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a demo board with every column type",
		Long: `Create a demo board with three groups, one column of every type and
generated items. The same --items count always produces the same values.

Examples:
  tabla board seed
  tabla board seed --name=Load --items=5000
`,
		RunE: runSeed,
	}

	cmd.Flags().String("name", "Demo", "Board name")
	cmd.Flags().Int("items", 30, "Number of items to generate")

	handler.AddOutputFlags(cmd)

	return cmd
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	parser := handler.NewFlagParser(cmd)
	formatter := parser.Formatter()

	name, _ := cmd.Flags().GetString("name")
	items, err := parser.ParseInt("items")
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

	b, err := cliInstance.App.BoardService.Seed(ctx, boardservice.SeedRequest{Name: name, Items: items})
	if err != nil {
		return formatter.Fail(err, "")
	}

	if formatter.JSON || formatter.Quiet {
		return formatter.Success(b)
	}

	fmt.Printf("✓ Board %d seeded with %d items: %s\n", b.ID, items, b.Name)
	fmt.Printf("\n  Open it: tabla --board %d\n", b.ID)
	return nil
}
