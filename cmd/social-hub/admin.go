package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/social-hub/internal/lib/jwt"
	"github.com/magabrotheeeer/social-hub/internal/lib/sl"
	authservice "github.com/magabrotheeeer/social-hub/internal/services/auth"
	"github.com/magabrotheeeer/social-hub/internal/storage/repository"
)

func newCreateAdminCommand(load configLoader) *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Long: `Create an administrator account.

The password is read from ADMIN_PASSWORD so it does not end up in shell history.

Example:
  ADMIN_PASSWORD=... social-hub create-admin --name Root --email root@example.com`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pass := os.Getenv("ADMIN_PASSWORD")
			if email == "" || pass == "" {
				return errors.New("--email and ADMIN_PASSWORD are required")
			}
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			db, err := repository.New(cfg.StorageConnectionString)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			svc := authservice.NewAuthService(db, jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL))
			uid, err := svc.CreateAdmin(cmd.Context(), name, email, pass)
			if err != nil {
				logger.Error("failed to create admin", sl.Err(err))
				return err
			}
			cmd.Printf("admin created: %s\n", uid)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "Admin", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login e-mail")
	return cmd
}
