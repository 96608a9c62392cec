package ui

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/coursegrid/coursegrid/internal/server"
)

func (a *App) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the course API over HTTP",
		Long: `Start the HTTP API used by web clients.

The server stops on SIGINT or SIGTERM and waits for in-flight requests
up to the configured shutdown timeout.`,
		Example: `  coursegrid serve
  coursegrid serve --addr=:8080`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to server.addr)")
	return cmd
}

func (a *App) serve(ctx context.Context, addr string) error {
	if err := a.ensureService(ctx); err != nil {
		return err
	}
	cfg := a.config.Server
	if addr != "" {
		cfg.Addr = addr
	}
	return server.New(a.svc, a.cache, cfg, a.log).Run(ctx)
}
