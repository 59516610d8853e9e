// Package daemon relays board change and presence events between tabla
// processes over a Unix domain socket.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/thenoetrevino/tabla/internal/events"
	"github.com/thenoetrevino/tabla/internal/types"
)

// Environment knobs for buffer sizes
const (
	BroadcastBufferEnv = "TABLA_DAEMON_BROADCAST_BUFFER"
	ClientBufferEnv    = "TABLA_DAEMON_CLIENT_BUFFER"
)

// client represents a connected client to the daemon
type client struct {
	conn         net.Conn
	send         chan events.Message
	subscription events.SubscribeMessage
	users        map[types.UserID]bool // presence entries this connection reported
	lastPong     time.Time
	mu           sync.Mutex // Protects subscription, users and lastPong
	closeOnce    sync.Once  // Ensures send channel is closed only once
}

func (c *client) subscribed(boardID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return boardID == 0 || c.subscription.BoardID == 0 || c.subscription.BoardID == boardID
}

// Server represents the tabla event daemon
type Server struct {
	socketPath       string
	listener         net.Listener
	clients          map[*client]bool
	mu               sync.RWMutex
	ctx              context.Context
	cancel           context.CancelFunc
	broadcast        chan events.Event
	metrics          *Metrics
	presence         *presenceHub
	sequenceCounter  atomic.Int64
	clientBufferSize int

	pingInterval  time.Duration
	staleAfter    time.Duration
	presenceSweep time.Duration

	shutdownOnce sync.Once
}

// Option configures a Server
type Option func(*Server)

// WithPresenceTTL sets how long a silent collaborator stays visible
func WithPresenceTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.presence = newPresenceHub(ttl)
	}
}

// WithHealthIntervals overrides the ping, stale-client and presence sweep
// periods. Zero keeps the default.
func WithHealthIntervals(ping, stale, sweep time.Duration) Option {
	return func(s *Server) {
		if ping > 0 {
			s.pingInterval = ping
		}
		if stale > 0 {
			s.staleAfter = stale
		}
		if sweep > 0 {
			s.presenceSweep = sweep
		}
	}
}

// getEnvInt reads a positive integer from an environment variable
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultVal
}

// NewServer creates the socket listener. A stale socket file is replaced.
func NewServer(socketPath string, opts ...Option) (*Server, error) {
	if dir := filepath.Dir(socketPath); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create socket directory: %w", err)
		}
	}

	if _, err := os.Stat(socketPath); err == nil {
		if err := os.Remove(socketPath); err != nil {
			return nil, fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}

	lc := net.ListenConfig{}
	listener, err := lc.Listen(context.Background(), "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create socket listener: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		socketPath:       socketPath,
		listener:         listener,
		clients:          make(map[*client]bool),
		ctx:              ctx,
		cancel:           cancel,
		broadcast:        make(chan events.Event, getEnvInt(BroadcastBufferEnv, 100)),
		metrics:          NewMetrics(),
		presence:         newPresenceHub(DefaultPresenceTTL),
		clientBufferSize: getEnvInt(ClientBufferEnv, 10),
		pingInterval:     30 * time.Second,
		staleAfter:       90 * time.Second,
		presenceSweep:    5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Metrics returns a snapshot of the daemon counters
func (s *Server) Metrics() MetricsSnapshot {
	return s.metrics.Snapshot()
}

// Start runs the accept, broadcast and health loops until ctx is done or
// Shutdown is called
func (s *Server) Start(ctx context.Context) error {
	log.Printf("Daemon starting, listening on %s", s.socketPath)

	combinedCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-s.ctx.Done():
			cancel()
		case <-combinedCtx.Done():
		}
	}()

	acceptErr := make(chan error, 1)
	go func() {
		acceptErr <- s.acceptLoop(combinedCtx)
	}()

	go s.broadcastLoop(combinedCtx)
	go s.monitorHealth(combinedCtx)

	select {
	case <-combinedCtx.Done():
		log.Println("Daemon context cancelled, shutting down")
	case err := <-acceptErr:
		if err != nil {
			log.Printf("Accept loop error: %v", err)
		}
	}

	return s.Shutdown()
}

// acceptLoop accepts incoming client connections
func (s *Server) acceptLoop(ctx context.Context) error {
	ul, _ := s.listener.(*net.UnixListener)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		// A deadline lets the loop notice cancellation
		if ul != nil {
			if err := ul.SetDeadline(time.Now().Add(1 * time.Second)); err != nil {
				log.Printf("Error setting listener deadline: %v", err)
			}
		}

		conn, err := s.listener.Accept()
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept error: %w", err)
		}

		c := &client{
			conn:     conn,
			send:     make(chan events.Message, s.clientBufferSize),
			users:    make(map[types.UserID]bool),
			lastPong: time.Now(),
		}

		s.mu.Lock()
		s.clients[c] = true
		s.mu.Unlock()
		s.updateClientCount()

		log.Printf("Client connected, total clients: %d", s.getClientCount())

		go s.handleClient(c)
		go s.clientWriter(c)
	}
}

// broadcastLoop stamps sequence numbers and fans events out to subscribers
func (s *Server) broadcastLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event := <-s.broadcast:
			event.SequenceID = s.sequenceCounter.Add(1)
			s.metrics.Broadcasts.Add(1)

			s.mu.RLock()
			for c := range s.clients {
				if !c.subscribed(event.BoardID) {
					continue
				}
				// presence for a specific board never goes to "all boards" listeners
				if event.Type == events.EventPresence && !c.watching(event.BoardID) {
					continue
				}
				evt := event
				if !s.sendToClient(c, events.Message{Type: events.MsgEvent, Event: &evt}) {
					log.Printf("Client send queue full, event dropped")
				}
			}
			s.mu.RUnlock()
		}
	}
}

func (c *client) watching(boardID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subscription.BoardID == boardID
}

// handleClient reads messages from a connected client
func (s *Server) handleClient(c *client) {
	defer func() {
		s.removeClient(c)
		log.Printf("Client disconnected, total clients: %d", s.getClientCount())
	}()

	decoder := json.NewDecoder(c.conn)

	for {
		var msg events.Message
		if err := decoder.Decode(&msg); err != nil {
			return
		}

		switch msg.Type {
		case events.MsgEvent:
			if msg.Event == nil {
				continue
			}
			s.metrics.EventsReceived.Add(1)
			if err := s.Broadcast(*msg.Event); err != nil {
				log.Printf("Broadcast failed: %v", err)
			}

		case events.MsgPresence:
			if msg.Event == nil {
				continue
			}
			s.handlePresence(c, msg.Event)

		case events.MsgSubscribe:
			if msg.Subscribe == nil {
				continue
			}
			c.mu.Lock()
			c.subscription = *msg.Subscribe
			c.mu.Unlock()
			log.Printf("Client subscribed to board %d", msg.Subscribe.BoardID)
			if msg.Subscribe.BoardID != 0 {
				s.sendPresenceTo(c, msg.Subscribe.BoardID)
			}

		case events.MsgPong:
			c.mu.Lock()
			c.lastPong = time.Now()
			c.mu.Unlock()
		}
	}
}

func (s *Server) handlePresence(c *client, evt *events.Event) {
	for _, p := range evt.Presence {
		if p.UserID == "" || p.BoardID <= 0 {
			continue
		}
		if p.LastSeen.IsZero() {
			p.LastSeen = time.Now()
		}
		s.metrics.PresenceUpdates.Add(1)

		c.mu.Lock()
		c.users[p.UserID] = true
		c.mu.Unlock()

		s.publishPresence(s.presence.update(p))
	}
}

// publishPresence broadcasts the current set for each board
func (s *Server) publishPresence(boards []types.BoardID) {
	for _, b := range boards {
		err := s.Broadcast(events.Event{
			Type:      events.EventPresence,
			BoardID:   b.ToInt(),
			Timestamp: time.Now(),
			Presence:  s.presence.snapshot(b),
		})
		if err != nil {
			log.Printf("Presence broadcast failed for board %d: %v", b, err)
		}
	}
}

// sendPresenceTo gives a newly subscribed client the board's current set
func (s *Server) sendPresenceTo(c *client, boardID int) {
	snap := s.presence.snapshot(types.BoardID(boardID))
	if len(snap) == 0 {
		return
	}
	s.sendToClient(c, events.Message{
		Type: events.MsgEvent,
		Event: &events.Event{
			Type:       events.EventPresence,
			BoardID:    boardID,
			Timestamp:  time.Now(),
			SequenceID: s.sequenceCounter.Add(1),
			Presence:   snap,
		},
	})
}

// clientWriter sends messages to a client
func (s *Server) clientWriter(c *client) {
	encoder := json.NewEncoder(c.conn)

	for msg := range c.send {
		if err := encoder.Encode(msg); err != nil {
			return
		}
	}
}

// monitorHealth pings clients, drops stale ones and expires presence
func (s *Server) monitorHealth(ctx context.Context) {
	pingTicker := time.NewTicker(s.pingInterval)
	defer pingTicker.Stop()

	healthTicker := time.NewTicker(s.staleAfter / 2)
	defer healthTicker.Stop()

	sweepTicker := time.NewTicker(s.presenceSweep)
	defer sweepTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-pingTicker.C:
			ping := events.Message{Type: events.MsgPing}
			for _, c := range s.snapshotClients() {
				if !s.sendToClient(c, ping) {
					log.Printf("Failed to send ping to client (queue full)")
				}
			}

		case <-healthTicker.C:
			// Collect first, then remove outside the server lock
			now := time.Now()
			for _, c := range s.snapshotClients() {
				c.mu.Lock()
				lastPong := c.lastPong
				c.mu.Unlock()
				if now.Sub(lastPong) > s.staleAfter {
					log.Printf("Removing stale client (last pong: %v ago)", now.Sub(lastPong))
					s.removeClient(c)
				}
			}

		case now := <-sweepTicker.C:
			s.publishPresence(s.presence.expire(now))
		}
	}
}

// Broadcast queues an event for all subscribers (non-blocking)
func (s *Server) Broadcast(event events.Event) error {
	select {
	case <-s.ctx.Done():
		return errors.New("daemon shutting down")
	default:
	}
	select {
	case s.broadcast <- event:
		return nil
	default:
		s.metrics.EventsDropped.Add(1)
		return errors.New("broadcast channel full")
	}
}

// Shutdown closes every connection and removes the socket file
func (s *Server) Shutdown() error {
	s.shutdownOnce.Do(func() {
		log.Println("Shutting down daemon...")

		s.cancel()

		if s.listener != nil {
			if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
				log.Printf("Error closing listener: %v", err)
			}
		}

		s.mu.Lock()
		for c := range s.clients {
			_ = c.conn.Close()
			c.closeOnce.Do(func() {
				close(c.send)
			})
		}
		s.clients = make(map[*client]bool)
		s.mu.Unlock()

		if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
			log.Printf("Warning: failed to remove socket file: %v", err)
		}

		if b, err := json.Marshal(s.metrics.Snapshot()); err == nil {
			log.Printf("Daemon metrics: %s", b)
		}
	})

	return nil
}

func (s *Server) snapshotClients() []*client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		out = append(out, c)
	}
	return out
}

func (s *Server) getClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) updateClientCount() {
	s.metrics.ConnectedClients.Store(int32(s.getClientCount()))
}

// removeClient drops a client and any presence it reported
func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	_, known := s.clients[c]
	delete(s.clients, c)
	s.mu.Unlock()

	_ = c.conn.Close()
	c.closeOnce.Do(func() {
		close(c.send)
	})
	s.updateClientCount()

	if !known {
		return
	}
	c.mu.Lock()
	users := make([]types.UserID, 0, len(c.users))
	for u := range c.users {
		users = append(users, u)
	}
	c.mu.Unlock()
	for _, u := range users {
		s.publishPresence(s.presence.remove(u))
	}
}

// sendToClient attempts a non-blocking send; false means the queue is full
// or the client is gone
func (s *Server) sendToClient(c *client, msg events.Message) (ok bool) {
	defer func() {
		// send on a channel closed by removeClient
		if recover() != nil {
			ok = false
		}
	}()
	select {
	case c.send <- msg:
		s.metrics.EventsSent.Add(1)
		return true
	default:
		s.metrics.EventsDropped.Add(1)
		return false
	}
}
