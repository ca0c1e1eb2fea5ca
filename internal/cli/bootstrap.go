// Package cli provides CLI commands for the flux application.
package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/flux/internal/core/caldate"
	"github.com/example/flux/internal/ctxutil"
	"github.com/example/flux/internal/wire"
)

// NewContext creates a context.Background() with the CLI actor embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() context.Context {
	return ctxutil.WithActorID(context.Background(), ctxutil.ActorCLI)
}

// dateArg returns args[0] when given, otherwise today's local date.
func dateArg(args []string) (string, error) {
	if len(args) == 0 {
		return caldate.Today(time.Now()), nil
	}
	if err := validateDate(args[0]); err != nil {
		return "", err
	}
	return args[0], nil
}

// configPath is the --config flag shared by every command.
var configPath string

// RegisterGlobalFlags adds the persistent flags every flux command accepts
// and hands them to the wiring layer before any command runs.
func RegisterGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.flux/config.yaml)")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		wire.SetConfigPath(configPath)
	}
}
