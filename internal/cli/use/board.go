package use

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tabla/internal/cli"
)

// BoardCmd returns the use board subcommand
func BoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board [board-id-or-name]",
		Short: "Set board context for current shell session",
		Long: `Set the current board using an environment variable.
This command prints shell commands that should be evaluated:

  eval $(tabla use board 3)        # Use board 3
  eval $(tabla use board Sprint)   # Use the board named Sprint
  eval $(tabla use board --clear)  # Clear board context
  tabla use board --show           # Show current board

TABLA_BOARD is set in the current shell only. The --board flag on other
commands takes precedence over it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUseBoard,
	}

	cmd.Flags().Bool("clear", false, "Clear the current board context")
	cmd.Flags().Bool("show", false, "Show the current board context")
	cmd.Flags().Bool("dry-run", false, "Show what would be exported without outputting shell commands")

	return cmd
}

func runUseBoard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	stderr := cmd.ErrOrStderr()

	clearFlag, _ := cmd.Flags().GetBool("clear")
	showFlag, _ := cmd.Flags().GetBool("show")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if clearFlag {
		if dryRun {
			fmt.Fprintf(stderr, "Would clear %s\n", cli.BoardEnv)
			return nil
		}
		fmt.Printf("unset %s\n", cli.BoardEnv)
		fmt.Fprintln(stderr, "Cleared board context")
		return nil
	}

	ref := os.Getenv(cli.BoardEnv)
	if !showFlag {
		if len(args) == 0 {
			return cli.Exitf(cli.ExitUsage, "board id or name required\nUsage: eval $(tabla use board <board>)")
		}
		ref = args[0]
	}
	if showFlag && ref == "" {
		fmt.Println("No board context set")
		fmt.Println("Use 'eval $(tabla use board <board>)' to set one")
		return nil
	}

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return fmt.Errorf("initialization error: %w", err)
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			log.Printf("Error closing CLI: %v", err)
		}
	}()

	b, err := cliInstance.App.BoardService.GetBoard(ctx, ref)
	if err != nil {
		if showFlag {
			fmt.Printf("Current board: %s (board not found)\n", ref)
			return nil
		}
		fmt.Fprintf(stderr, "Error: board %q not found\n", ref)
		fmt.Fprintln(stderr, "Suggestion: Use 'tabla board list' to see available boards")
		return cli.Exit(cli.ExitNotFound, err)
	}

	if showFlag {
		fmt.Printf("Current board: %d (%s)\n", b.ID, b.Name)
		return nil
	}
	return exportBoard(os.Stdout, stderr, b.ID.ToInt(), b.Name, dryRun)
}

// exportBoard prints the export line for eval, with a note on stderr so
// the evaluated output stays clean
func exportBoard(stdout, stderr io.Writer, id int, name string, dryRun bool) error {
	if dryRun {
		_, err := fmt.Fprintf(stderr, "Would set %s=%d (%s)\n", cli.BoardEnv, id, name)
		return err
	}
	if _, err := fmt.Fprintf(stdout, "export %s=%d\n", cli.BoardEnv, id); err != nil {
		return err
	}
	_, err := fmt.Fprintf(stderr, "Now using board %d: %s\n", id, name)
	return err
}
