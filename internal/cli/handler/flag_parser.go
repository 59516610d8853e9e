package handler

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tabla/internal/cli"
	"github.com/thenoetrevino/tabla/internal/types"
)

// FlagParser provides common flag extraction patterns
type FlagParser struct {
	cmd *cobra.Command
}

// NewFlagParser creates a new flag parser
func NewFlagParser(cmd *cobra.Command) *FlagParser {
	return &FlagParser{cmd: cmd}
}

// Formatter builds the output formatter from --json and --quiet
func (p *FlagParser) Formatter() *cli.OutputFormatter {
	jsonOutput, quietMode, _ := p.OutputFormats()
	return &cli.OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
}

// ParseItemID extracts a positive item id from a flag
func (p *FlagParser) ParseItemID(flagName string) (types.ItemID, error) {
	id, err := p.ParseInt(flagName)
	if err != nil {
		return "", err
	}
	return types.ItemIDFromInt(int64(id)), nil
}

// ParseColumnID extracts a column id from a flag
func (p *FlagParser) ParseColumnID(flagName string) (types.ColumnID, error) {
	id, err := p.ParseString(flagName)
	if err != nil {
		return "", err
	}
	return types.ColumnID(strings.ToLower(id)), nil
}

// ParseString extracts a required string flag
func (p *FlagParser) ParseString(flagName string) (string, error) {
	value, err := p.cmd.Flags().GetString(flagName)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s flag: %w", flagName, err)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", cli.Exitf(cli.ExitUsage, "%s is required", flagName)
	}
	return value, nil
}

// ParseInt extracts a required positive int flag
func (p *FlagParser) ParseInt(flagName string) (int, error) {
	value, err := p.cmd.Flags().GetInt(flagName)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s flag: %w", flagName, err)
	}
	if value <= 0 {
		return 0, cli.Exitf(cli.ExitUsage, "%s must be greater than 0", flagName)
	}
	return value, nil
}

// ParseColor extracts and validates an optional color flag
func (p *FlagParser) ParseColor(flagName string) (string, error) {
	color, err := p.cmd.Flags().GetString(flagName)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s flag: %w", flagName, err)
	}
	if color == "" {
		return "", nil
	}
	if err := cli.ValidateColorHex(color); err != nil {
		return "", cli.Exit(cli.ExitValidation, err)
	}
	return color, nil
}

// OutputFormats extracts JSON and Quiet output flags
func (p *FlagParser) OutputFormats() (jsonOutput bool, quietMode bool, err error) {
	jsonOutput, err = p.cmd.Flags().GetBool("json")
	if err != nil {
		return false, false, fmt.Errorf("failed to parse json flag: %w", err)
	}

	quietMode, err = p.cmd.Flags().GetBool("quiet")
	if err != nil {
		return false, false, fmt.Errorf("failed to parse quiet flag: %w", err)
	}

	return jsonOutput, quietMode, nil
}

// AddOutputFlags registers --json and --quiet
func AddOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (ID only)")
}
