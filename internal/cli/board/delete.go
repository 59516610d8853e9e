package board

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tabla/internal/cli"
	"github.com/thenoetrevino/tabla/internal/cli/handler"
)

// DeleteCmd returns the board delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a board",
		Long:  "Delete a board with all of its groups, columns and items (requires confirmation unless --force or --quiet).",
		RunE:  runDelete,
	}

	cmd.Flags().String("board", "", "Board id or name (uses TABLA_BOARD env var if not specified)")
	cmd.Flags().Bool("force", false, "Skip confirmation")

	handler.AddOutputFlags(cmd)

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := handler.NewFlagParser(cmd).Formatter()
	force, _ := cmd.Flags().GetBool("force")

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

	if !force && !formatter.Quiet && !formatter.JSON {
		fmt.Printf("Delete board #%d: '%s' and all of its items? (y/N): ", b.ID, b.Name)
		var response string
		if _, err := fmt.Scanln(&response); err != nil {
			log.Printf("Error reading user input: %v", err)
		}
		if r := strings.ToLower(response); r != "y" && r != "yes" {
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := cliInstance.App.BoardService.DeleteBoard(ctx, b.ID); err != nil {
		return formatter.Fail(err, "")
	}

	if formatter.Quiet {
		return nil
	}
	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success":  true,
			"board_id": b.ID,
		})
	}

	fmt.Printf("✓ Board %d deleted successfully\n", b.ID)
	return nil
}
