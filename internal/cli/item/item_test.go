package item

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/tabla/internal/cli"
	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/testutil"
	clitest "github.com/thenoetrevino/tabla/internal/testutil/cli"
	"github.com/thenoetrevino/tabla/internal/types"
)

func itemByID(t *testing.T, items []models.Item, id types.ItemID) models.Item {
	t.Helper()
	for _, it := range items {
		if it.ID == id {
			return it
		}
	}
	t.Fatalf("item %s not found", id)
	return models.Item{}
}

func TestAddItem(t *testing.T) {
	app, publisher := clitest.SetupCLITest(t)
	fixture := testutil.SeedTestBoard(t, app.Repo())
	ctx := context.Background()

	output, err := clitest.ExecuteCLICommand(t, app, AddCmd(), []string{
		"--board", "Sprint", "--group", "doing", "--name", "Ship it",
		"--set", "status=Open", "--set", "owner=bo", "--quiet",
	})
	require.NoError(t, err)
	id := types.ItemID(strings.TrimSpace(output))

	snap, err := app.BoardService.LoadBoard(ctx, fixture.Board.ID)
	require.NoError(t, err)
	it := itemByID(t, snap.Items, id)
	assert.Equal(t, "Ship it", it.Name)
	assert.Equal(t, fixture.Groups[1].ID, it.GroupID)
	assert.Equal(t, "Open", it.Data["status"])
	assert.Equal(t, "bo", it.Data["owner"])
	assert.NotEmpty(t, publisher.SentEvents)
}

func TestAddItem_Errors(t *testing.T) {
	app, _ := clitest.SetupCLITest(t)
	testutil.SeedTestBoard(t, app.Repo())

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"bad assignment", []string{"--board", "Sprint", "--name", "x", "--set", "status"}, cli.ExitUsage},
		{"unknown group", []string{"--board", "Sprint", "--name", "x", "--group", "Someday"}, cli.ExitNotFound},
		{"unknown board", []string{"--board", "Nope", "--name", "x"}, cli.ExitNotFound},
		{"no board", []string{"--name", "x"}, cli.ExitUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := clitest.ExecuteCLICommand(t, app, AddCmd(), tt.args)
			require.Error(t, err)
			assert.Equal(t, tt.code, cli.ExitCode(err))
		})
	}
}

func TestSetCell(t *testing.T) {
	app, _ := clitest.SetupCLITest(t)
	fixture := testutil.SeedTestBoard(t, app.Repo())
	ctx := context.Background()
	target := fixture.Items[0]
	id := strconv.Itoa(target.GetID())

	output, err := clitest.ExecuteCLICommand(t, app, SetCmd(),
		[]string{"--id", id, "--column", "Status", "--value", "Closed"})
	require.NoError(t, err)
	assert.Contains(t, output, "status updated")

	_, err = clitest.ExecuteCLICommand(t, app, SetCmd(),
		[]string{"--id", id, "--column", "owner", "--value", ""})
	require.NoError(t, err)

	_, err = clitest.ExecuteCLICommand(t, app, SetCmd(),
		[]string{"--id", id, "--column", "name", "--value", "Write better docs"})
	require.NoError(t, err)

	snap, err := app.BoardService.LoadBoard(ctx, fixture.Board.ID)
	require.NoError(t, err)
	it := itemByID(t, snap.Items, target.ID)
	assert.Equal(t, "Closed", it.Data["status"])
	assert.Nil(t, it.Data["owner"])
	assert.Equal(t, "Write better docs", it.Name)

	t.Run("unknown column", func(t *testing.T) {
		_, err := clitest.ExecuteCLICommand(t, app, SetCmd(),
			[]string{"--id", id, "--column", "nope", "--value", "x"})
		require.Error(t, err)
		assert.Equal(t, cli.ExitNotFound, cli.ExitCode(err))
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := clitest.ExecuteCLICommand(t, app, SetCmd(),
			[]string{"--id", "9999", "--column", "status", "--value", "x"})
		require.Error(t, err)
		assert.Equal(t, cli.ExitNotFound, cli.ExitCode(err))
	})
}

func TestMoveItem(t *testing.T) {
	app, _ := clitest.SetupCLITest(t)
	fixture := testutil.SeedTestBoard(t, app.Repo())
	ctx := context.Background()
	moved := fixture.Items[0]

	output, err := clitest.ExecuteCLICommand(t, app, MoveCmd(),
		[]string{"--id", strconv.Itoa(moved.GetID()), "--group", "Doing"})
	require.NoError(t, err)
	assert.Contains(t, output, "moved to Doing")

	snap, err := app.BoardService.LoadBoard(ctx, fixture.Board.ID)
	require.NoError(t, err)
	it := itemByID(t, snap.Items, moved.ID)
	release := itemByID(t, snap.Items, fixture.Items[2].ID)
	assert.Equal(t, fixture.Groups[1].ID, it.GroupID)
	assert.Greater(t, it.Position, release.Position, "moved item lands at the end")

	t.Run("negative position", func(t *testing.T) {
		_, err := clitest.ExecuteCLICommand(t, app, MoveCmd(),
			[]string{"--id", strconv.Itoa(moved.GetID()), "--group", "Backlog", "--position", "-3"})
		require.Error(t, err)
		assert.Equal(t, cli.ExitValidation, cli.ExitCode(err))
	})
}

func TestDeleteItem(t *testing.T) {
	app, _ := clitest.SetupCLITest(t)
	fixture := testutil.SeedTestBoard(t, app.Repo())
	id := strconv.Itoa(fixture.Items[1].GetID())

	_, err := clitest.ExecuteCLICommand(t, app, DeleteCmd(), []string{"--id", id, "--json"})
	require.NoError(t, err)

	snap, err := app.BoardService.LoadBoard(context.Background(), fixture.Board.ID)
	require.NoError(t, err)
	assert.Len(t, snap.Items, 2)

	_, err = clitest.ExecuteCLICommand(t, app, DeleteCmd(), []string{"--id", id})
	require.Error(t, err)
	assert.Equal(t, cli.ExitCode(err), cli.ExitNotFound)
}
