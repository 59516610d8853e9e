// Package use holds the commands that set shell context, e.g. tabla use board
package use

import (
	"github.com/spf13/cobra"
)

// UseCmd returns the use parent command
func UseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use",
		Short: "Manage contextual settings for the current shell",
		Long: `Set context for the current shell session so later commands can skip
their --board flag.

Examples:
  eval $(tabla use board Sprint)   # Use board "Sprint"
  eval $(tabla use board --clear)  # Clear board context
  tabla use board --show           # Show current board`,
	}

	cmd.AddCommand(BoardCmd())

	return cmd
}
