package main

import (
	"fmt"

	"tasklists/internal/config"
	"tasklists/internal/db"
	"tasklists/internal/migrations"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the PostgreSQL schema",
		Long: `Apply the embedded PostgreSQL migrations in file-name order.

Every statement is idempotent, so the command is safe to re-run.

Examples:
  tasksctl migrate
  tasksctl migrate --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := migrations.Names()
			if err != nil {
				return err
			}
			if dryRun {
				for _, name := range names {
					fmt.Println(name)
				}
				return nil
			}

			cfg, err := loadConfig(false)
			if err != nil {
				return err
			}
			if cfg.StoreBackend != config.BackendPostgres {
				return fmt.Errorf("migrate needs STORE_BACKEND=postgres, got %s", cfg.StoreBackend)
			}

			ctx, cancel := commandContext()
			defer cancel()

			pool, err := db.Connect(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := migrations.Apply(ctx, pool); err != nil {
				return err
			}
			for _, name := range names {
				fmt.Printf("applied %s\n", name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list migrations without applying them")
	return cmd
}
