package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/social-hub/internal/app/socialhub"
)

func newServeCommand(load configLoader) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server.

The server applies pending migrations, connects to PostgreSQL, Redis and
(optionally) RabbitMQ, and shuts down gracefully on SIGINT/SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.AddressHTTP = addr
			}

			logger.Info("starting social-hub", slog.String("env", cfg.Env))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := socialhub.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}

			logger.Info("social-hub stopped gracefully")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides http_server.addresshttp")
	return cmd
}
