package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/flux/internal/adapters/httpapi"
	"github.com/example/flux/internal/logger"
	"github.com/example/flux/internal/wire"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	var (
		addr     string
		inMemory bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the flux HTTP API",
		Long: `Serve the ledger, logs, status and import/export over HTTP.

The listen address defaults to http.addr from the config. With --memory the
server runs against an empty in-memory store, which is useful for trying the
API without touching the database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if inMemory {
				wire.UseMemoryStore()
			}
			if addr == "" {
				addr = wire.Config().HTTP.Addr
			}
			defer wire.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return httpapi.Serve(ctx, addr, wire.HTTPHandler().Routes(), logger.Get().WithField("component", "http"))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides http.addr)")
	cmd.Flags().BoolVar(&inMemory, "memory", false, "Use a throwaway in-memory store")
	return cmd
}
