// Package column implements the `tabla column` commands
package column

import (
	"github.com/spf13/cobra"
)

// ColumnCmd returns the column parent command
func ColumnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "column",
		Short: "Manage board columns",
	}

	cmd.AddCommand(ListCmd())
	cmd.AddCommand(AddCmd())
	cmd.AddCommand(ResizeCmd())
	cmd.AddCommand(OrderCmd())
	cmd.AddCommand(HideCmd())
	cmd.AddCommand(ShowCmd())

	return cmd
}
