package core

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/tabla/internal/app"
	"github.com/thenoetrevino/tabla/internal/testutil"
)

func TestApp_StoresUpdatedModel(t *testing.T) {
	repo := testutil.SetupTestRepo(t)
	a := New(context.Background(), app.New(repo), "")

	assert.Equal(t, "Loading...", a.View().Content)
	require.NotNil(t, a.Init())

	model, _ := a.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Same(t, a, model)
	assert.NotEqual(t, "Loading...", a.View().Content)
	assert.Nil(t, a.GetModel().Board())
}
