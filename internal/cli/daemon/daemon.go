// Package daemon implements `tabla daemon`, the live update relay
package daemon

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tabla/internal/app"
	"github.com/thenoetrevino/tabla/internal/daemon"
	"github.com/thenoetrevino/tabla/internal/logging"
)

// DaemonCmd returns the daemon command
func DaemonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the live update daemon",
		Long: `Runs the daemon that relays board changes and editing presence between
open tabla sessions. Sessions work without it but only see other sessions'
changes on refresh.`,
		Args: cobra.NoArgs,
		RunE: runDaemon,
	}

	cmd.Flags().String("socket", "", "Socket path (defaults to ~/.tabla/tabla.sock)")
	cmd.Flags().Duration("presence-ttl", 30*time.Second, "How long a silent collaborator stays visible")
	cmd.Flags().Bool("verbose", false, "Log at debug level to stderr")

	return cmd
}

func runDaemon(cmd *cobra.Command, args []string) error {
	// Set up signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(
		cmd.Context(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancel()

	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	logging.Setup(cmd.ErrOrStderr(), level)

	socketPath, _ := cmd.Flags().GetString("socket")
	if socketPath == "" {
		var err error
		if socketPath, err = app.SocketPath(); err != nil {
			return fmt.Errorf("failed to resolve socket path: %w", err)
		}
	}

	// Ensure the socket directory exists with secure permissions
	if err := os.MkdirAll(filepath.Dir(socketPath), 0o700); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	ttl, _ := cmd.Flags().GetDuration("presence-ttl")
	server, err := daemon.NewServer(socketPath, daemon.WithPresenceTTL(ttl))
	if err != nil {
		return fmt.Errorf("failed to create daemon: %w", err)
	}

	slog.Info("tabla daemon starting", "socket_path", socketPath, "pid", os.Getpid())

	// Start the daemon (blocks until shutdown)
	if err := server.Start(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("daemon error: %w", err)
	}

	slog.Info("tabla daemon shutting down gracefully")
	return nil
}
