package handler

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/tabla/internal/cli"
	"github.com/thenoetrevino/tabla/internal/types"
)

// createTestCommand creates a mock cobra.Command with output flags
func createTestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use: "test",
		Run: func(cmd *cobra.Command, args []string) {},
	}
	AddOutputFlags(cmd)
	return cmd
}

func TestParseItemID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		flagValue int
		want      types.ItemID
		wantErr   bool
	}{
		{"valid item ID", 42, "42", false},
		{"zero item ID", 0, "", true},
		{"negative item ID", -1, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := createTestCommand()
			cmd.Flags().Int("id", tt.flagValue, "item id")

			got, err := NewFlagParser(cmd).ParseItemID("id")
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseColumnID(t *testing.T) {
	cmd := createTestCommand()
	cmd.Flags().String("column", " Status ", "")

	got, err := NewFlagParser(cmd).ParseColumnID("column")
	require.NoError(t, err)
	assert.Equal(t, types.ColumnID("status"), got)
}

func TestParseString(t *testing.T) {
	cmd := createTestCommand()
	cmd.Flags().String("name", "   ", "")

	_, err := NewFlagParser(cmd).ParseString("name")
	assert.Error(t, err)

	_, err = NewFlagParser(cmd).ParseString("missing")
	assert.Error(t, err)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"", false},
		{"#00C875", false},
		{"green", true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cmd := createTestCommand()
			cmd.Flags().String("color", tt.value, "")

			got, err := NewFlagParser(cmd).ParseColor("color")
			if tt.wantErr {
				assert.Equal(t, cli.ExitValidation, cli.ExitCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestOutputFormats(t *testing.T) {
	cmd := createTestCommand()
	require.NoError(t, cmd.Flags().Set("json", "true"))

	f := NewFlagParser(cmd).Formatter()

	assert.True(t, f.JSON)
	assert.False(t, f.Quiet)
}

func TestParseFlagsToMap(t *testing.T) {
	cmd := createTestCommand()
	cmd.Flags().String("name", "", "")
	cmd.Flags().Int("width", 0, "")
	cmd.Flags().StringArray("set", nil, "")
	require.NoError(t, cmd.Flags().Set("name", "Sprint"))
	require.NoError(t, cmd.Flags().Set("set", "a=1"))

	flags := parseFlagsToMap(cmd)

	args := &Arguments{Flags: flags}
	assert.Equal(t, "Sprint", args.GetString("name", ""))
	assert.Equal(t, 150, args.GetInt("width", 150), "unset flags use the default")
	assert.False(t, args.GetBool("json"))
	assert.Equal(t, []string{"a=1"}, flags["set"])
}
