package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/social-hub/internal/config"
)

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "social-hub",
		Short: "Social Hub event platform server",
		Long: `Social Hub event platform server.

Configuration is read from the YAML file given by --config or CONFIG_PATH.
Environment variables override file values.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config (default: $CONFIG_PATH)")

	load := func() (*config.Config, *slog.Logger, error) {
		path := configPath
		if path == "" {
			path = os.Getenv("CONFIG_PATH")
		}
		if path == "" {
			return nil, nil, errors.New("config path is not set: use --config or CONFIG_PATH")
		}
		cfg, err := config.Load(path)
		if err != nil {
			return nil, nil, err
		}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
		return cfg, logger, nil
	}

	root.AddCommand(
		newServeCommand(load),
		newMigrateCommand(load),
		newCreateAdminCommand(load),
	)
	return root
}

type configLoader func() (*config.Config, *slog.Logger, error)
