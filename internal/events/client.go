package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/thenoetrevino/tabla/internal/models"
)

// DebounceEnv overrides the batching window in milliseconds
const DebounceEnv = "TABLA_EVENT_DEBOUNCE_MS"

// Client represents a connection to the tabla daemon for live updates.
// It handles event sending, receiving, batching, reconnection, and
// subscriptions.
type Client struct {
	id         string
	socketPath string
	conn       net.Conn
	encoder    *json.Encoder
	decoder    *json.Decoder
	mu         sync.Mutex

	// Batching configuration
	eventQueue  chan Event
	debounce    time.Duration
	closed      bool
	batcherOnce sync.Once
	batcherDone chan struct{}

	// Reconnection configuration
	maxRetries int
	baseDelay  time.Duration

	// Subscription state, replayed on reconnect
	currentBoardID int

	lastSequence int64

	ctx    context.Context
	cancel context.CancelFunc
}

// NewClient creates a new event client but does not connect.
// The socket path should be the full path to the Unix domain socket.
func NewClient(socketPath string) (*Client, error) {
	debounceMs := 100
	if envVal := os.Getenv(DebounceEnv); envVal != "" {
		if parsed, err := strconv.Atoi(envVal); err == nil && parsed > 0 {
			debounceMs = parsed
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		id:          uuid.NewString(),
		socketPath:  socketPath,
		eventQueue:  make(chan Event, 100),
		debounce:    time.Duration(debounceMs) * time.Millisecond,
		batcherDone: make(chan struct{}),
		maxRetries:  5,
		baseDelay:   1 * time.Second,
		ctx:         ctx,
		cancel:      cancel,
	}, nil
}

// ID is a random per-process identifier, used as the presence user id
func (c *Client) ID() string {
	return c.id
}

// Connect dials the daemon socket and (re)sends the current subscription.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errors.New("client closed")
	}

	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("failed to dial daemon socket: %w", err)
	}

	c.conn = conn
	c.encoder = json.NewEncoder(conn)
	c.decoder = json.NewDecoder(conn)
	// The daemon restarts its sequence numbering per connection
	c.lastSequence = 0

	msg := Message{
		Type:      MsgSubscribe,
		Subscribe: &SubscribeMessage{BoardID: c.currentBoardID},
	}
	if err := c.encoder.Encode(msg); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			log.Printf("Error closing connection: %v", closeErr)
		}
		c.conn = nil
		return fmt.Errorf("failed to send subscription: %w", err)
	}

	c.batcherOnce.Do(func() { go c.startBatcher() })

	return nil
}

// SendEvent queues an event to be sent to the daemon.
// Events are batched and sent in bursts within the debounce window.
// Returns ErrQueueFull if the queue is full (non-blocking send).
func (c *Client) SendEvent(event Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("client closed")
	}

	select {
	case c.eventQueue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// SendPresence writes a presence update immediately
func (c *Client) SendPresence(p models.Presence) error {
	if p.LastSeen.IsZero() {
		p.LastSeen = time.Now()
	}
	return c.send(Message{
		Type: MsgPresence,
		Event: &Event{
			Type:      EventPresence,
			BoardID:   p.BoardID.ToInt(),
			Timestamp: p.LastSeen,
			Presence:  []models.Presence{p},
		},
	})
}

// startBatcher collapses queued events into at most one db_changed event
// per debounce window. Events for different boards collapse to board 0.
func (c *Client) startBatcher() {
	defer close(c.batcherDone)

	ticker := time.NewTicker(c.debounce)
	defer ticker.Stop()

	var (
		pending bool
		boardID int
	)

	note := func(evt Event) {
		if !pending {
			pending = true
			boardID = evt.BoardID
			return
		}
		if boardID != evt.BoardID {
			boardID = 0
		}
	}

	flush := func() {
		if !pending {
			return
		}
		pending = false
		err := c.send(Message{Type: MsgEvent, Event: &Event{
			Type:      EventDatabaseChanged,
			BoardID:   boardID,
			Timestamp: time.Now(),
		}})
		if err != nil && !isConnectionError(err) {
			log.Printf("Failed to send batched event: %v", err)
		}
	}

	for {
		select {
		case <-c.ctx.Done():
			flush()
			return

		case event, ok := <-c.eventQueue:
			if !ok {
				flush()
				return
			}
			note(event)

		case <-ticker.C:
			flush()
		}
	}
}

// send encodes one message with a short write deadline
func (c *Client) send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
		return fmt.Errorf("connection error: %w", err)
	}
	return c.encoder.Encode(msg)
}

// Listen starts listening for events from the daemon.
// The returned channel is closed when ctx is done or reconnection fails.
func (c *Client) Listen(ctx context.Context) (<-chan Event, error) {
	eventChan := make(chan Event, 10)
	go c.listenLoop(ctx, eventChan)
	return eventChan, nil
}

func (c *Client) listenLoop(ctx context.Context, eventChan chan Event) {
	defer close(eventChan)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		err := c.readEvents(ctx, eventChan)
		if err == nil || ctx.Err() != nil || c.ctx.Err() != nil {
			return
		}
		log.Printf("Connection lost: %v, reconnecting...", err)

		if !c.reconnect(ctx) {
			log.Printf("Failed to reconnect after %d attempts, giving up", c.maxRetries)
			return
		}
		log.Printf("Reconnected to daemon")
	}
}

// readEvents decodes messages until the connection fails
func (c *Client) readEvents(ctx context.Context, eventChan chan Event) error {
	for {
		c.mu.Lock()
		if c.conn == nil {
			c.mu.Unlock()
			return ErrNotConnected
		}
		// A silent daemon still pings; 60s without traffic means a hung socket
		if err := c.conn.SetReadDeadline(time.Now().Add(60 * time.Second)); err != nil {
			c.mu.Unlock()
			return fmt.Errorf("failed to set read deadline: %w", err)
		}
		decoder := c.decoder
		c.mu.Unlock()

		var msg Message
		if err := decoder.Decode(&msg); err != nil {
			return fmt.Errorf("failed to decode message: %w", err)
		}

		switch msg.Type {
		case MsgEvent:
			if msg.Event == nil {
				continue
			}
			c.mu.Lock()
			fresh := msg.Event.SequenceID > c.lastSequence
			if fresh {
				c.lastSequence = msg.Event.SequenceID
			}
			c.mu.Unlock()
			if !fresh {
				continue
			}
			select {
			case eventChan <- *msg.Event:
			case <-ctx.Done():
				return nil
			}

		case MsgPing:
			if err := c.send(Message{Type: MsgPong}); err != nil && !isConnectionError(err) {
				log.Printf("Failed to send pong: %v", err)
			}
		}
	}
}

// isConnectionError checks if an error is a network connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, net.ErrClosed) || errors.Is(err, ErrNotConnected) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "connection reset")
}

// reconnect retries Connect with exponential backoff: 1s, 2s, 4s, ...
func (c *Client) reconnect(ctx context.Context) bool {
	delay := c.baseDelay

	for i := 0; i < c.maxRetries; i++ {
		select {
		case <-ctx.Done():
			return false
		case <-c.ctx.Done():
			return false
		case <-time.After(delay):
		}

		c.mu.Lock()
		if c.conn != nil {
			if err := c.conn.Close(); err != nil && !isConnectionError(err) {
				log.Printf("Error closing connection during reconnect: %v", err)
			}
			c.conn = nil
		}
		c.mu.Unlock()

		if err := c.Connect(ctx); err == nil {
			log.Printf("Reconnected to daemon (attempt %d/%d)", i+1, c.maxRetries)
			return true
		}

		log.Printf("Reconnection attempt %d/%d failed, retrying in %v", i+1, c.maxRetries, delay)
		delay *= 2
	}

	return false
}

// Subscribe changes the subscription to a specific board.
// BoardID 0 means subscribe to all boards.
func (c *Client) Subscribe(boardID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.currentBoardID = boardID

	if c.conn == nil {
		return ErrNotConnected
	}
	return c.encoder.Encode(Message{
		Type:      MsgSubscribe,
		Subscribe: &SubscribeMessage{BoardID: boardID},
	})
}

// Close closes the connection to the daemon and stops all goroutines.
// Pending batched events are flushed first.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.eventQueue)
	c.mu.Unlock()

	started := true
	c.batcherOnce.Do(func() {
		started = false
		close(c.batcherDone)
	})
	if started {
		<-c.batcherDone
	}
	c.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}
