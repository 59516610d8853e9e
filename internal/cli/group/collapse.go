package group

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tabla/internal/cli"
	"github.com/thenoetrevino/tabla/internal/cli/handler"
)

// CollapseCmd returns the group collapse subcommand
func CollapseCmd() *cobra.Command {
	return collapseCmd("collapse", "Collapse a group so only its header shows", true)
}

// ExpandCmd returns the group expand subcommand
func ExpandCmd() *cobra.Command {
	return collapseCmd("expand", "Expand a collapsed group", false)
}

func collapseCmd(use, short string, collapsed bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollapse(cmd, collapsed)
		},
	}

	cmd.Flags().String("board", "", "Board id or name (uses TABLA_BOARD env var if not specified)")
	cmd.Flags().String("group", "", "Group id or name (required)")
	if err := cmd.MarkFlagRequired("group"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}
	handler.AddOutputFlags(cmd)

	return cmd
}

func runCollapse(cmd *cobra.Command, collapsed bool) error {
	ctx := cmd.Context()
	parser := handler.NewFlagParser(cmd)
	formatter := parser.Formatter()

	ref, err := parser.ParseString("group")
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
	g, err := cliInstance.ResolveGroup(ctx, b.ID, ref)
	if err != nil {
		return formatter.Fail(err, "")
	}
	if err := cliInstance.App.BoardService.SetGroupCollapsed(ctx, g.ID, collapsed); err != nil {
		return formatter.Fail(err, "")
	}

	state := "expanded"
	if collapsed {
		state = "collapsed"
	}
	formatter.Printf("✓ Group %s %s\n", g.Name, state)
	return nil
}
