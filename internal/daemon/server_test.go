package daemon

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/tabla/internal/events"
	"github.com/thenoetrevino/tabla/internal/models"
)

// Test helpers live here rather than in testutil to avoid an import cycle

func getTestSocketPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "d.sock")
}

func setupTestDaemon(t *testing.T, opts ...Option) (*Server, string) {
	t.Helper()
	socketPath := getTestSocketPath(t)

	server, err := NewServer(socketPath, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = server.Shutdown() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = server.Start(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(socketPath); err == nil {
			time.Sleep(10 * time.Millisecond)
			return server, socketPath
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("Timeout waiting for daemon socket")
	return nil, ""
}

type rawClient struct {
	conn net.Conn
	enc  *json.Encoder
	dec  *json.Decoder
}

func connectRawClient(t *testing.T, socketPath string) *rawClient {
	t.Helper()
	conn, err := (&net.Dialer{}).DialContext(context.Background(), "unix", socketPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &rawClient{conn: conn, enc: json.NewEncoder(conn), dec: json.NewDecoder(conn)}
}

func (r *rawClient) subscribe(t *testing.T, boardID int) {
	t.Helper()
	require.NoError(t, r.enc.Encode(events.Message{
		Type:      events.MsgSubscribe,
		Subscribe: &events.SubscribeMessage{BoardID: boardID},
	}))
	// let the daemon register the subscription before anything is broadcast
	time.Sleep(30 * time.Millisecond)
}

func (r *rawClient) sendPresence(t *testing.T, p models.Presence) {
	t.Helper()
	require.NoError(t, r.enc.Encode(events.Message{
		Type:  events.MsgPresence,
		Event: &events.Event{Type: events.EventPresence, BoardID: p.BoardID.ToInt(), Presence: []models.Presence{p}},
	}))
}

// next reads messages until an event arrives, skipping pings
func (r *rawClient) next(t *testing.T, timeout time.Duration) (events.Event, bool) {
	t.Helper()
	require.NoError(t, r.conn.SetReadDeadline(time.Now().Add(timeout)))
	for {
		var msg events.Message
		if err := r.dec.Decode(&msg); err != nil {
			return events.Event{}, false
		}
		if msg.Type == events.MsgEvent && msg.Event != nil {
			return *msg.Event, true
		}
	}
}

// ============================================================================
// Server Initialization Tests
// ============================================================================

func TestNewServer_CreatesDirectoryAndReplacesStaleSocket(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "nested", "d.sock")
	require.NoError(t, os.MkdirAll(filepath.Dir(socketPath), 0o700))
	f, err := os.Create(socketPath)
	require.NoError(t, err)
	_ = f.Close()

	server, err := NewServer(socketPath)
	require.NoError(t, err)

	info, err := os.Stat(socketPath)
	require.NoError(t, err)
	assert.Equal(t, os.ModeSocket, info.Mode()&os.ModeSocket)

	require.NoError(t, server.Shutdown())
	_, err = os.Stat(socketPath)
	assert.True(t, os.IsNotExist(err), "shutdown removes the socket")
}

func TestNewServer_EnvBuffers(t *testing.T) {
	t.Setenv(BroadcastBufferEnv, "7")
	t.Setenv(ClientBufferEnv, "3")

	server, err := NewServer(getTestSocketPath(t))
	require.NoError(t, err)
	defer func() { _ = server.Shutdown() }()

	assert.Equal(t, 7, cap(server.broadcast))
	assert.Equal(t, 3, server.clientBufferSize)
}

// ============================================================================
// Event Relay Tests
// ============================================================================

func TestBoardEventReachesOtherClient(t *testing.T) {
	t.Setenv(events.DebounceEnv, "10")
	_, socketPath := setupTestDaemon(t)

	listener := connectRawClient(t, socketPath)
	listener.subscribe(t, 1)

	sender, err := events.NewClient(socketPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sender.Close() })
	require.NoError(t, sender.Connect(context.Background()))
	require.NoError(t, sender.SendEvent(events.Event{Type: events.EventDatabaseChanged, BoardID: 1}))

	evt, ok := listener.next(t, 2*time.Second)
	require.True(t, ok)
	assert.Equal(t, events.EventDatabaseChanged, evt.Type)
	assert.Equal(t, 1, evt.BoardID)
	assert.Greater(t, evt.SequenceID, int64(0))
}

func TestSubscriptionFiltersBoards(t *testing.T) {
	server, socketPath := setupTestDaemon(t)

	other := connectRawClient(t, socketPath)
	other.subscribe(t, 2)
	all := connectRawClient(t, socketPath)
	all.subscribe(t, 0)

	require.NoError(t, server.Broadcast(events.Event{Type: events.EventDatabaseChanged, BoardID: 1}))

	evt, ok := all.next(t, time.Second)
	require.True(t, ok)
	assert.Equal(t, 1, evt.BoardID)

	_, ok = other.next(t, 200*time.Millisecond)
	assert.False(t, ok, "board 2 subscriber must not see board 1 events")
}

// ============================================================================
// Presence Tests
// ============================================================================

func TestPresenceBroadcastAndDisconnect(t *testing.T) {
	_, socketPath := setupTestDaemon(t)

	watcher := connectRawClient(t, socketPath)
	watcher.subscribe(t, 1)
	editor := connectRawClient(t, socketPath)
	editor.subscribe(t, 1)

	editor.sendPresence(t, models.Presence{
		UserID: "u2", UserName: "Bo", BoardID: 1,
		EditingItemID: "7", EditingColumnID: "status", LastSeen: time.Now(),
	})

	evt, ok := watcher.next(t, time.Second)
	require.True(t, ok)
	assert.Equal(t, events.EventPresence, evt.Type)
	require.Len(t, evt.Presence, 1)
	assert.Equal(t, "Bo", evt.Presence[0].UserName)
	assert.True(t, evt.Presence[0].IsEditing())

	require.NoError(t, editor.conn.Close())

	evt, ok = watcher.next(t, time.Second)
	require.True(t, ok)
	assert.Equal(t, events.EventPresence, evt.Type)
	assert.Empty(t, evt.Presence, "a disconnected editor disappears")
}

func TestPresenceSnapshotOnSubscribe(t *testing.T) {
	server, socketPath := setupTestDaemon(t)

	editor := connectRawClient(t, socketPath)
	editor.subscribe(t, 1)
	editor.sendPresence(t, models.Presence{UserID: "u1", UserName: "Ana", BoardID: 1, LastSeen: time.Now()})
	_, ok := editor.next(t, time.Second)
	require.True(t, ok)

	late := connectRawClient(t, socketPath)
	late.subscribe(t, 1)

	evt, ok := late.next(t, time.Second)
	require.True(t, ok)
	require.Len(t, evt.Presence, 1)
	assert.Equal(t, "Ana", evt.Presence[0].UserName)
	assert.Equal(t, int64(1), server.Metrics().PresenceUpdates)
}

func TestPresenceExpires(t *testing.T) {
	_, socketPath := setupTestDaemon(t,
		WithPresenceTTL(50*time.Millisecond),
		WithHealthIntervals(0, 0, 20*time.Millisecond))

	watcher := connectRawClient(t, socketPath)
	watcher.subscribe(t, 1)
	editor := connectRawClient(t, socketPath)
	editor.sendPresence(t, models.Presence{UserID: "u1", UserName: "Ana", BoardID: 1, LastSeen: time.Now()})

	evt, ok := watcher.next(t, time.Second)
	require.True(t, ok)
	require.Len(t, evt.Presence, 1)

	evt, ok = watcher.next(t, time.Second)
	require.True(t, ok)
	assert.Empty(t, evt.Presence)
}

// ============================================================================
// Hub Tests
// ============================================================================

func TestHubKeepsLatestPerUser(t *testing.T) {
	h := newPresenceHub(time.Minute)
	now := time.Now()

	h.update(models.Presence{UserID: "u1", UserName: "Ana", BoardID: 1, LastSeen: now, EditingItemID: "2"})
	changed := h.update(models.Presence{UserID: "u1", UserName: "Ana", BoardID: 1, LastSeen: now.Add(-time.Second), EditingItemID: "1"})

	assert.Empty(t, changed, "stale update is ignored")
	snap := h.snapshot(1)
	require.Len(t, snap, 1)
	assert.Equal(t, "2", string(snap[0].EditingItemID))
}

func TestHubMovesUserBetweenBoards(t *testing.T) {
	h := newPresenceHub(time.Minute)
	now := time.Now()

	h.update(models.Presence{UserID: "u1", BoardID: 1, LastSeen: now})
	changed := h.update(models.Presence{UserID: "u1", BoardID: 2, LastSeen: now.Add(time.Second)})

	assert.ElementsMatch(t, []int{2, 1}, []int{changed[0].ToInt(), changed[1].ToInt()})
	assert.Empty(t, h.snapshot(1))
	assert.Len(t, h.snapshot(2), 1)
}

func TestHubExpireAndOrder(t *testing.T) {
	h := newPresenceHub(30 * time.Second)
	now := time.Now()

	h.update(models.Presence{UserID: "u3", UserName: "Cy", BoardID: 1, LastSeen: now})
	h.update(models.Presence{UserID: "u1", UserName: "Ana", BoardID: 1, LastSeen: now})
	h.update(models.Presence{UserID: "u2", UserName: "Bo", BoardID: 1, LastSeen: now.Add(-time.Minute)})

	snap := h.snapshot(1)
	require.Len(t, snap, 3)
	assert.Equal(t, "Ana", snap[0].UserName)

	changed := h.expire(now)
	require.Len(t, changed, 1)
	snap = h.snapshot(1)
	require.Len(t, snap, 2)
	assert.Equal(t, []string{"Ana", "Cy"}, []string{snap[0].UserName, snap[1].UserName})
}
