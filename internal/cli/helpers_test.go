package cli

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/tabla/internal/app"
	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/testutil"
)

func TestValidateColorHex(t *testing.T) {
	assert.NoError(t, ValidateColorHex("#00c875"))
	assert.Error(t, ValidateColorHex("00c875"))
	assert.Error(t, ValidateColorHex("#abc"))
}

func TestGetBoardRef(t *testing.T) {
	newCmd := func() *cobra.Command {
		cmd := &cobra.Command{Use: "x"}
		cmd.Flags().String("board", "", "")
		return cmd
	}

	t.Run("flag wins over env", func(t *testing.T) {
		t.Setenv(BoardEnv, "7")
		cmd := newCmd()
		require.NoError(t, cmd.Flags().Set("board", "Sprint"))

		ref, err := GetBoardRef(cmd)
		require.NoError(t, err)
		assert.Equal(t, "Sprint", ref)
	})

	t.Run("env fallback", func(t *testing.T) {
		t.Setenv(BoardEnv, "7")
		ref, err := GetBoardRef(newCmd())
		require.NoError(t, err)
		assert.Equal(t, "7", ref)
	})

	t.Run("missing", func(t *testing.T) {
		t.Setenv(BoardEnv, "")
		_, err := GetBoardRef(newCmd())
		assert.Equal(t, ExitUsage, ExitCode(err))
	})
}

func TestParseCellValue(t *testing.T) {
	assert.Nil(t, ParseCellValue(""))
	assert.Nil(t, ParseCellValue("null"))
	assert.Equal(t, true, ParseCellValue("true"))
	assert.Equal(t, "12", ParseCellValue("12"), "numbers stay text for column coercion")
	assert.Equal(t, []any{"a", "b"}, ParseCellValue(`["a","b"]`))
	assert.Equal(t, map[string]any{"label": "Done"}, ParseCellValue(`{"label":"Done"}`))
	assert.Equal(t, "[not json", ParseCellValue("[not json"))
}

func TestParseAssignments(t *testing.T) {
	data, err := ParseAssignments([]string{"status=Open", "done=true", "notes= spaced "})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"status": "Open", "done": true, "notes": " spaced "}, data)

	_, err = ParseAssignments([]string{"novalue"})
	assert.Equal(t, ExitUsage, ExitCode(err))
}

func TestColumnIDs(t *testing.T) {
	assert.Equal(t, "name, status", ColumnIDs([]models.Column{{ID: "name"}, {ID: "status"}}))
}

func TestResolveGroup(t *testing.T) {
	repo := testutil.SetupTestRepo(t)
	fixture := testutil.SeedTestBoard(t, repo)
	c := &CLI{App: app.New(repo)}
	ctx := context.Background()

	byName, err := c.ResolveGroup(ctx, fixture.Board.ID, "doing")
	require.NoError(t, err)
	assert.Equal(t, fixture.Groups[1].ID, byName.ID)

	byID, err := c.ResolveGroup(ctx, fixture.Board.ID, string(fixture.Groups[0].ID))
	require.NoError(t, err)
	assert.Equal(t, "Backlog", byID.Name)

	_, err = c.ResolveGroup(ctx, fixture.Board.ID, "Someday")
	assert.ErrorIs(t, err, models.ErrGroupNotFound)
}
