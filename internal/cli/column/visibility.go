package column

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tabla/internal/cli"
	"github.com/thenoetrevino/tabla/internal/cli/handler"
)

// HideCmd returns the column hide subcommand
func HideCmd() *cobra.Command {
	return visibilityCmd("hide", "Hide a column from the grid", false)
}

// ShowCmd returns the column show subcommand
func ShowCmd() *cobra.Command {
	return visibilityCmd("show", "Show a hidden column", true)
}

func visibilityCmd(use, short string, visible bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVisibility(cmd, visible)
		},
	}

	cmd.Flags().String("board", "", "Board id or name (uses TABLA_BOARD env var if not specified)")
	cmd.Flags().String("id", "", "Column id (required)")
	if err := cmd.MarkFlagRequired("id"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}
	handler.AddOutputFlags(cmd)

	return cmd
}

func runVisibility(cmd *cobra.Command, visible bool) error {
	ctx := cmd.Context()
	parser := handler.NewFlagParser(cmd)
	formatter := parser.Formatter()

	id, err := parser.ParseColumnID("id")
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
	if err := cliInstance.App.BoardService.SetColumnVisible(ctx, b.ID, id, visible); err != nil {
		return formatter.Fail(err, "")
	}

	state := "hidden"
	if visible {
		state = "shown"
	}
	formatter.Printf("✓ Column %s %s\n", id, state)
	return nil
}
