package daemon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaemonCmd_Flags(t *testing.T) {
	cmd := DaemonCmd()

	ttl, err := cmd.Flags().GetDuration("presence-ttl")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, ttl)

	socket, err := cmd.Flags().GetString("socket")
	require.NoError(t, err)
	assert.Empty(t, socket)

	assert.Error(t, cmd.Args(cmd, []string{"extra"}))
}
