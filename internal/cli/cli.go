package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/thenoetrevino/tabla/internal/app"
	"github.com/thenoetrevino/tabla/internal/config"
	"github.com/thenoetrevino/tabla/internal/database"
)

type contextKey string

// appKey carries an injected *app.App, used by tests and by the root command
const appKey contextKey = "tabla.app"

// WithApp returns a context that makes GetCLIFromContext reuse a
func WithApp(ctx context.Context, a *app.App) context.Context {
	return context.WithValue(ctx, appKey, a)
}

// CLI represents the CLI application context
type CLI struct {
	App *app.App // Application container with services

	db    *sql.DB // Owned only when NewCLI opened it
	owned bool
}

// NewCLI initializes the CLI with database and optional daemon connection
func NewCLI(ctx context.Context) (*CLI, error) {
	db, err := database.InitDB(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Error loading config, using defaults: %v", err)
		cfg = config.Default()
	}

	opts := []app.Option{app.WithConfig(cfg)}

	// Try to connect to daemon (optional - silent fallback)
	if socketPath, err := app.SocketPath(); err == nil {
		if client := app.ConnectDaemon(ctx, socketPath); client != nil {
			opts = append(opts, app.WithEventPublisher(client))
		}
	}

	return &CLI{
		App:   app.New(database.NewRepository(db), opts...),
		db:    db,
		owned: true,
	}, nil
}

// GetCLIFromContext returns a CLI around the injected app, or opens the
// default database when none is injected
func GetCLIFromContext(ctx context.Context) (*CLI, error) {
	if a, ok := ctx.Value(appKey).(*app.App); ok && a != nil {
		return &CLI{App: a}, nil
	}
	return NewCLI(ctx)
}

// Close cleans up CLI resources. An injected app is left open for its owner.
func (c *CLI) Close() error {
	if !c.owned {
		return nil
	}
	if err := c.App.Close(); err != nil {
		log.Printf("Error closing event client: %v", err)
	}
	return c.db.Close()
}
