package main

import (
	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/social-hub/internal/migrations"
	"github.com/magabrotheeeer/social-hub/internal/storage/repository"
)

func newMigrateCommand(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			db, err := repository.New(cfg.StorageConnectionString)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
				return err
			}
			logger.Info("migrations applied")
			cmd.Println("migrations applied")
			return nil
		},
	}
}
