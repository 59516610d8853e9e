package launcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/thenoetrevino/tabla/internal/app"
	"github.com/thenoetrevino/tabla/internal/config"
	"github.com/thenoetrevino/tabla/internal/database"
	"github.com/thenoetrevino/tabla/internal/logging"
	"github.com/thenoetrevino/tabla/internal/tui/core"
	"github.com/thenoetrevino/tabla/internal/tui/theme"
)

// Launch starts the TUI on boardRef, or on the first board when empty
func Launch(boardRef string) error {
	// Initialize logging to file before anything else
	logFile, err := logging.Init("")
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	// Create root context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	theme.Init(cfg.ColorScheme)

	opts := []app.Option{app.WithConfig(cfg), app.WithLogger(logging.Logger)}

	// Connect to daemon for live updates (optional - daemon may not be running)
	if socketPath, err := app.SocketPath(); err == nil {
		if client := app.ConnectDaemon(ctx, socketPath); client != nil {
			opts = append(opts, app.WithEventPublisher(client))
		} else {
			slog.Info("continuing without live updates", "socket_path", socketPath)
		}
	}

	db, err := database.InitDB(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	application := app.New(database.NewRepository(db), opts...)

	// Cleanup daemon connection and database on exit
	defer func() {
		if err := application.Close(); err != nil {
			slog.Error("error closing event client", "error", err)
		}
		if err := db.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
	}()

	p := tea.NewProgram(core.New(ctx, application, boardRef), tea.WithContext(ctx))

	// goroutine to monitor cancellation
	errChan := make(chan error, 1)
	go func() {
		_, err := p.Run()
		errChan <- err
	}()

	// Wait for program completion or cancellation
	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("error running program: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received, cleaning up")
		// Let in-flight saves finish before the database closes
		select {
		case <-errChan:
		case <-time.After(2 * time.Second):
		}
	}

	return nil
}
