// Package group implements the `tabla group` commands
package group

import (
	"github.com/spf13/cobra"
)

// GroupCmd returns the group parent command
func GroupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage board groups",
	}

	cmd.AddCommand(AddCmd())
	cmd.AddCommand(CollapseCmd())
	cmd.AddCommand(ExpandCmd())

	return cmd
}
