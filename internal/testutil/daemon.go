package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/thenoetrevino/tabla/internal/daemon"
	"github.com/thenoetrevino/tabla/internal/events"
)

// GetTestSocketPath returns a socket path inside a per-test temp directory.
// Unix socket paths are length limited, so the file name is short.
func GetTestSocketPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "t.sock")
}

// SetupTestDaemon starts a daemon on a temporary socket and waits for it to
// listen. Shutdown is registered with t.Cleanup.
func SetupTestDaemon(t *testing.T, opts ...daemon.Option) (*daemon.Server, string) {
	t.Helper()

	socketPath := GetTestSocketPath(t)
	server, err := daemon.NewServer(socketPath, opts...)
	if err != nil {
		t.Fatalf("Failed to create test daemon: %v", err)
	}
	t.Cleanup(func() {
		if err := server.Shutdown(); err != nil {
			t.Logf("Warning: daemon shutdown error during cleanup: %v", err)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() {
		if err := server.Start(ctx); err != nil {
			t.Logf("Server error: %v", err)
		}
	}()

	if !WaitForCondition(t, func() bool {
		_, err := os.Stat(socketPath)
		return err == nil
	}, 2*time.Second, "daemon socket") {
		t.Fatal("Timeout waiting for daemon socket to be created")
	}
	time.Sleep(10 * time.Millisecond)
	return server, socketPath
}

// SetupTestClient creates an events client connected to socketPath
func SetupTestClient(t *testing.T, socketPath string) *events.Client {
	t.Helper()

	client, err := events.NewClient(socketPath)
	if err != nil {
		t.Fatalf("Failed to create test client: %v", err)
	}
	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Logf("Warning: client close error during cleanup: %v", err)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Connect(ctx); err != nil {
		t.Fatalf("Failed to connect test client: %v", err)
	}
	return client
}

// WaitForEvent returns the next event or fails the test on timeout
func WaitForEvent(t *testing.T, ch <-chan events.Event, timeout time.Duration) events.Event {
	t.Helper()

	select {
	case event, ok := <-ch:
		if !ok {
			t.Fatal("Event channel closed unexpectedly")
		}
		return event
	case <-time.After(timeout):
		t.Fatalf("Timeout waiting for event after %v", timeout)
		return events.Event{}
	}
}

// WaitForEventType skips events until one of the wanted type arrives
func WaitForEventType(t *testing.T, ch <-chan events.Event, want events.EventType, timeout time.Duration) events.Event {
	t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case event, ok := <-ch:
			if !ok {
				t.Fatal("Event channel closed unexpectedly")
			}
			if event.Type == want {
				return event
			}
		case <-deadline:
			t.Fatalf("Timeout waiting for %s event after %v", want, timeout)
			return events.Event{}
		}
	}
}

// WaitForNoEvent fails the test if any event arrives within timeout
func WaitForNoEvent(t *testing.T, ch <-chan events.Event, timeout time.Duration) {
	t.Helper()

	select {
	case event := <-ch:
		t.Fatalf("Unexpected event received: %+v", event)
	case <-time.After(timeout):
	}
}

// WaitForCondition polls condition every 10ms until it holds or timeout
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration, description string) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Logf("Timeout waiting for condition: %s", description)
	return false
}
