package main

import (
	"fmt"
	"time"

	"tasklists/internal/categorize"
	"tasklists/internal/domain"
	"tasklists/internal/service"

	"github.com/spf13/cobra"
)

func dashboardCmd() *cobra.Command {
	var (
		email  string
		tz     string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print a user's today and upcoming tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			cfg, backend, err := openBackend(ctx, false, false)
			if err != nil {
				return err
			}
			defer backend.Close()

			loc, err := categorize.LoadLocation(tz, cfg.DefaultTimezone)
			if err != nil {
				return err
			}

			acct, err := backend.Store.GetAccountByEmail(ctx, email)
			if err != nil {
				return fmt.Errorf("account %s: %w", email, err)
			}

			tasks := service.NewTaskService(backend.Store, nil, nil)
			now := time.Now().In(loc)
			view, err := tasks.Dashboard(ctx, acct.ID, now)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(view)
			}

			fmt.Printf("Hello, %s (%s)\n\n", acct.DisplayName, now.Format("Mon Jan 2 2006 15:04 MST"))
			printBucket("Today", view.Today, loc)
			printBucket("Upcoming", view.Upcoming, loc)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&tz, "tz", "", "IANA time zone (default DEFAULT_TIMEZONE)")
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "output as JSON")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func printBucket(title string, tasks []domain.Task, loc *time.Location) {
	fmt.Printf("%s (%d)\n", title, len(tasks))
	for _, t := range tasks {
		fmt.Printf("  %s %-40s %s\n", t.Emoji, t.Title, t.DueAt(loc).Format("Jan 2 15:04"))
	}
	fmt.Println()
}
