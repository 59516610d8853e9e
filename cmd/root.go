package cmd

import (
	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tabla/internal/cli"
	"github.com/thenoetrevino/tabla/internal/cli/board"
	"github.com/thenoetrevino/tabla/internal/cli/column"
	"github.com/thenoetrevino/tabla/internal/cli/daemon"
	"github.com/thenoetrevino/tabla/internal/cli/group"
	"github.com/thenoetrevino/tabla/internal/cli/item"
	"github.com/thenoetrevino/tabla/internal/cli/tutorial"
	"github.com/thenoetrevino/tabla/internal/cli/use"
	"github.com/thenoetrevino/tabla/internal/launcher"
)

// Version is set at build time with -ldflags
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "tabla [board-id-or-name]",
	Short: "Tabla - grouped boards in the terminal",
	Long: `Tabla is a terminal board of items in groups and typed columns.

Run without a subcommand to open the interactive grid. The board comes from
the argument, --board, or $TABLA_BOARD, and defaults to the first board.`,
	Args:          cobra.MaximumNArgs(1),
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := ""
		if len(args) == 1 {
			ref = args[0]
		} else if r, err := cli.GetBoardRef(cmd); err == nil {
			ref = r
		}
		return launcher.Launch(ref)
	},
}

func init() {
	rootCmd.Flags().String("board", "", "Board id or name (uses TABLA_BOARD env var if not specified)")

	rootCmd.AddCommand(board.BoardCmd())
	rootCmd.AddCommand(item.ItemCmd())
	rootCmd.AddCommand(column.ColumnCmd())
	rootCmd.AddCommand(group.GroupCmd())
	rootCmd.AddCommand(use.UseCmd())
	rootCmd.AddCommand(tutorial.TutorialCmd())
	rootCmd.AddCommand(daemon.DaemonCmd())
}

// Root returns the root command, for tests and documentation generators
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the command line
func Execute() error {
	return rootCmd.Execute()
}
