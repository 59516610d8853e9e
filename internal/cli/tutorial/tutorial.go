// Package tutorial prints the built-in guide
package tutorial

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

//go:embed tutorial.md
var tutorialContent string

// TutorialCmd returns the tutorial command
func TutorialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tutorial",
		Short: "Show a short guide to tabla",
		Long: `Show a short guide to boards, the grid's keys and scripting with tabla.
Use --raw for plain markdown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetBool("raw")
			width, _ := cmd.Flags().GetInt("width")
			return outputTutorial(raw, width)
		},
	}

	cmd.Flags().Bool("raw", false, "Print the markdown source")
	cmd.Flags().Int("width", 80, "Wrap width")

	return cmd
}

func outputTutorial(raw bool, width int) error {
	if raw {
		fmt.Print(tutorialContent)
		return nil
	}
	out, err := Render(width)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

// Render returns the guide styled for the terminal
func Render(width int) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return renderer.Render(tutorialContent)
}
