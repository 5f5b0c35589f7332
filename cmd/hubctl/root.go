package main

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/social-hub/internal/client"
	"github.com/magabrotheeeer/social-hub/internal/config"
)

type globalOptions struct {
	configPath string
	baseURL    string
	token      string
	verbose    bool
}

func (o *globalOptions) clientConfig() (*config.Client, error) {
	cfg, err := config.LoadClient(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}
	return cfg, nil
}

func (o *globalOptions) newClient(needToken bool) (*client.Client, *config.Client, error) {
	cfg, err := o.clientConfig()
	if err != nil {
		return nil, nil, err
	}
	token := o.token
	if token == "" {
		token = os.Getenv("HUB_TOKEN")
	}
	if needToken && token == "" {
		return nil, nil, errors.New("token is required: use --token or HUB_TOKEN")
	}
	return client.New(cfg.BaseURL, client.WithToken(token), client.WithTimeout(cfg.RequestTimeout)), cfg, nil
}

func (o *globalOptions) logger(cmd *cobra.Command) *slog.Logger {
	if !o.verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "hubctl",
		Short: "Command line client for the Social Hub API",
		Long: `Command line client for the Social Hub API.

Public event listing needs no authentication. Profile and organizer
commands need a JWT passed with --token or HUB_TOKEN.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to YAML config with a client section")
	root.PersistentFlags().StringVar(&opts.baseURL, "server", "", "API base URL (default: "+client.DefaultBaseURL+")")
	root.PersistentFlags().StringVar(&opts.token, "token", "", "JWT (default: $HUB_TOKEN)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(
		newEventsCommand(opts),
		newProfileCommand(opts),
		newOrganizerCommand(opts),
	)
	return root
}
