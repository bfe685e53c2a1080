package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"tasklists/internal/bootstrap"
	"tasklists/internal/config"
	"tasklists/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "tasksctl",
		Short:         "Admin tool for the tasklists service",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level, _ := cmd.Flags().GetString("log-level")
			logger.InitWriter(os.Stderr, level, false)
		},
	}
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createUserCmd())
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(auditCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the environment like the server does. Problems that do
// not affect the command (a missing JWT secret for a migration) are
// ignored unless needJWT is set.
func loadConfig(needJWT bool) (*config.Config, error) {
	_ = godotenv.Load()
	cfg, problems := config.FromEnv(os.Getenv)

	var relevant []string
	for _, p := range problems {
		if !needJWT && strings.HasPrefix(p, "JWT_SECRET") {
			continue
		}
		relevant = append(relevant, p)
	}
	if len(relevant) > 0 {
		return nil, errors.New(strings.Join(relevant, "; "))
	}
	return cfg, nil
}

func openBackend(ctx context.Context, needJWT, migrate bool) (*config.Config, *bootstrap.Backend, error) {
	cfg, err := loadConfig(needJWT)
	if err != nil {
		return nil, nil, err
	}
	backend, err := bootstrap.Open(ctx, cfg, migrate)
	if err != nil {
		return nil, nil, err
	}
	return cfg, backend, nil
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Minute)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
