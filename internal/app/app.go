package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/thenoetrevino/tabla/internal/config"
	"github.com/thenoetrevino/tabla/internal/database"
	"github.com/thenoetrevino/tabla/internal/events"
	boardservice "github.com/thenoetrevino/tabla/internal/services/board"
)

// SocketName is the daemon socket file inside the data directory
const SocketName = "tabla.sock"

// App holds all application services and provides dependency injection.
// This is the main application container that manages service lifecycles.
type App struct {
	// Repository layer (direct database access)
	repo database.DataStore

	// Event system for live updates, nil when the daemon is not running
	eventClient events.EventPublisher

	config *config.Config
	logger *slog.Logger

	// Service layer (business logic)
	BoardService boardservice.Service
}

// New creates a new App with all services initialized.
// This is the single entry point for creating the application container.
func New(repo database.DataStore, opts ...Option) *App {
	cfg := appConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.config == nil {
		cfg.config = config.Default()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	return &App{
		repo:         repo,
		eventClient:  cfg.eventClient,
		config:       cfg.config,
		logger:       cfg.logger,
		BoardService: boardservice.NewService(repo, cfg.eventClient),
	}
}

// Repo returns the underlying repository for direct database access.
func (a *App) Repo() database.DataStore {
	return a.repo
}

// Events returns the daemon connection, or nil when running standalone
func (a *App) Events() events.EventPublisher {
	return a.eventClient
}

// Config returns the loaded user configuration
func (a *App) Config() *config.Config {
	return a.config
}

// Logger returns the application logger
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Close releases the daemon connection
func (a *App) Close() error {
	if a.eventClient == nil {
		return nil
	}
	return a.eventClient.Close()
}

// SocketPath returns the daemon socket location in the data directory
func SocketPath() (string, error) {
	dir, err := database.DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SocketName), nil
}

// ConnectDaemon tries to reach the daemon. A missing daemon is not an
// error: the caller runs without live updates and gets nil.
func ConnectDaemon(ctx context.Context, socketPath string) *events.Client {
	client, err := events.NewClient(socketPath)
	if err != nil {
		return nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	if err := client.Connect(dialCtx); err != nil {
		derr := events.ClassifyDaemonError(err)
		slog.Debug("daemon unavailable", "error", derr.Message, "hint", derr.Hint)
		_ = client.Close()
		return nil
	}
	return client
}
