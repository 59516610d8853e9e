// Package cli holds helpers for running cobra commands against an
// in-memory app
package cli

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tabla/internal/app"
	tablacli "github.com/thenoetrevino/tabla/internal/cli"
	"github.com/thenoetrevino/tabla/internal/testutil"
)

// SetupCLITest creates an app over an in-memory database with a mock event
// publisher
func SetupCLITest(t *testing.T) (*app.App, *testutil.MockEventPublisher) {
	t.Helper()

	t.Setenv(tablacli.BoardEnv, "")
	publisher := testutil.NewMockEventPublisher()
	return app.New(testutil.SetupTestRepo(t), app.WithEventPublisher(publisher)), publisher
}

// ExecuteCLICommand executes a CLI command with a test app instance and
// returns what it printed to stdout
func ExecuteCLICommand(t *testing.T, testApp *app.App, cmd *cobra.Command, args []string) (string, error) {
	t.Helper()
	return ExecuteCLICommandWithContext(t, context.Background(), testApp, cmd, args)
}

// ExecuteCLICommandWithContext executes a CLI command with a specific context and test app
func ExecuteCLICommandWithContext(t *testing.T, ctx context.Context, testApp *app.App, cmd *cobra.Command, args []string) (string, error) {
	t.Helper()

	if testApp == nil {
		t.Fatal("testApp cannot be nil - SetupCLITest must be called first")
	}

	ctxWithApp := tablacli.WithApp(ctx, testApp)
	cmd.SetArgs(args)
	cmd.SetContext(ctxWithApp)

	// Disable usage output on error for cleaner test output
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	var executeErr error
	output := testutil.CaptureOutput(t, func() {
		executeErr = cmd.ExecuteContext(ctxWithApp)
	})
	return output, executeErr
}
