package main

import (
	"fmt"

	"tasklists/internal/service"

	"github.com/spf13/cobra"
)

func createUserCmd() *cobra.Command {
	var (
		email    string
		password string
		name     string
	)

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an account (or sign in to an existing one) and print a token",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			cfg, backend, err := openBackend(ctx, true, false)
			if err != nil {
				return err
			}
			defer backend.Close()

			jwt, err := service.NewJWTManager(cfg.JWTSecret, service.DefaultTokenTTL)
			if err != nil {
				return err
			}
			auth := service.NewAuthService(backend.Store, jwt, nil)

			sess, err := auth.CreateAccount(ctx, email, password, password, name)
			if err != nil {
				// try to find existing user
				existing, signInErr := auth.SignIn(ctx, email, password)
				if signInErr != nil {
					return err
				}
				fmt.Printf("user already exists id=%s\n", existing.Account.ID)
				sess = existing
			} else {
				fmt.Printf("user created id=%s\n", sess.Account.ID)
			}

			fmt.Printf("token=%s\n", sess.Token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "tester@example.com", "account email")
	cmd.Flags().StringVar(&password, "password", "tester123", "account password")
	cmd.Flags().StringVar(&name, "name", "Tester", "display name")
	return cmd
}
