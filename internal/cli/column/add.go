package column

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tabla/internal/cli"
	"github.com/thenoetrevino/tabla/internal/cli/handler"
	"github.com/thenoetrevino/tabla/internal/models"
	boardservice "github.com/thenoetrevino/tabla/internal/services/board"
)

// AddCmd returns the column add subcommand
func AddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a column to a board",
		Long: `Add a typed column to a board. The id is the key cells are stored under
and must be lowercase letters, digits and underscores.

Types: text, long_text, number, date, person, status, checkbox, link, tags.
Status columns take their labels, in display order, from --option.

Examples:
  tabla column add --board=Sprint --id=estimate --name=Estimate --type=number
  tabla column add --id=status --name=Status --type=status --option=Open --option=Closed
`,
		RunE: runAdd,
	}

	cmd.Flags().String("board", "", "Board id or name (uses TABLA_BOARD env var if not specified)")
	cmd.Flags().String("id", "", "Column id (required)")
	if err := cmd.MarkFlagRequired("id"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}
	cmd.Flags().String("name", "", "Column title (defaults to the id)")
	cmd.Flags().String("type", string(models.ColumnText), "Column type")
	cmd.Flags().Int("width", 0, "Width in grid units (80-600)")
	cmd.Flags().StringArray("option", nil, "Status label (repeatable)")
	cmd.Flags().Bool("hidden", false, "Create the column hidden")

	handler.AddOutputFlags(cmd)

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	parser := handler.NewFlagParser(cmd)
	formatter := parser.Formatter()

	id, err := parser.ParseColumnID("id")
	if err != nil {
		return formatter.Fail(err, "")
	}
	name, _ := cmd.Flags().GetString("name")
	if strings.TrimSpace(name) == "" {
		name = string(id)
	}
	colType, _ := cmd.Flags().GetString("type")
	width, _ := cmd.Flags().GetInt("width")
	options, _ := cmd.Flags().GetStringArray("option")
	hidden, _ := cmd.Flags().GetBool("hidden")

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

	col, err := cliInstance.App.BoardService.AddColumn(ctx, boardservice.AddColumnRequest{
		BoardID: b.ID,
		ID:      id,
		Name:    name,
		Type:    models.ColumnType(strings.ToLower(colType)),
		Width:   width,
		Options: options,
		Hidden:  hidden,
	})
	if err != nil {
		return formatter.Fail(err, typeSuggestion(err))
	}

	if formatter.Quiet {
		fmt.Println(col.ID)
		return nil
	}
	if formatter.JSON {
		return formatter.Success(col)
	}

	fmt.Printf("✓ Column %s (%s) added to %s\n", col.ID, col.Type, b.Name)
	return nil
}

func typeSuggestion(err error) string {
	if cli.ExitCode(err) != cli.ExitValidation {
		return ""
	}
	names := make([]string, len(models.ColumnTypes))
	for i, t := range models.ColumnTypes {
		names[i] = string(t)
	}
	return "Column types: " + strings.Join(names, ", ")
}
