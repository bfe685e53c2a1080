package main

import (
	"errors"
	"fmt"

	"tasklists/internal/domain"
	"tasklists/internal/service"

	"github.com/spf13/cobra"
)

var errNeedPostgres = errors.New("this command needs STORE_BACKEND=postgres")

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show account, list and task totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			_, backend, err := openBackend(ctx, false, false)
			if err != nil {
				return err
			}
			defer backend.Close()
			if backend.Pool == nil {
				return errNeedPostgres
			}

			stats, err := service.NewAdminService(backend.Pool).GetStats(ctx)
			if err != nil {
				return err
			}

			fmt.Println("Tasklists Status")
			fmt.Println("================")
			fmt.Printf("Accounts:        %d (%d new today)\n", stats.TotalAccounts, stats.SignupsToday)
			fmt.Printf("Active today:    %d\n", stats.ActiveUsersToday)
			fmt.Printf("Active 7 days:   %d\n", stats.ActiveUsersWeek)
			fmt.Printf("Lists:           %d\n", stats.TotalLists)
			fmt.Printf("Open tasks:      %d\n", stats.OpenTasks)
			fmt.Printf("Completed tasks: %d\n", stats.CompletedTasks)
			return nil
		},
	}
}

func auditCmd() *cobra.Command {
	var (
		email    string
		category string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent audit log entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			_, backend, err := openBackend(ctx, false, false)
			if err != nil {
				return err
			}
			defer backend.Close()
			if backend.AuditRepo == nil {
				return errNeedPostgres
			}

			q := domain.AuditQuery{Category: category, Limit: limit}
			if email != "" {
				acct, err := backend.Store.GetAccountByEmail(ctx, email)
				if err != nil {
					return fmt.Errorf("account %s: %w", email, err)
				}
				q.UserID = acct.ID
			}
			logs, err := backend.AuditRepo.Find(ctx, q)
			if err != nil {
				return err
			}
			return printJSON(logs)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "only entries for this account")
	cmd.Flags().StringVar(&category, "category", "", "only entries of this category (auth, list)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries")
	return cmd
}
