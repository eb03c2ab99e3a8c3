// Package cli implements the timekeeper command-line tool. It reads a
// database file directly, without the HTTP server.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/warp/timekeeper/api"
	"github.com/warp/timekeeper/config"
	"github.com/warp/timekeeper/core"
	"github.com/warp/timekeeper/leave"
	"github.com/warp/timekeeper/payroll"
)

// OpenFunc opens the store at path. The returned func releases it.
type OpenFunc func(path string) (core.Store, func() error, error)

// App holds what every command needs.
type App struct {
	Config *config.Config
	Open   OpenFunc
	Now    func() time.Time
}

// NewRootCmd creates the top-level "timekeeper" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var dbPath string

	root := &cobra.Command{
		Use:           "timekeeper",
		Short:         "Time tracking, leave and payroll preview tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dbPath, "db", app.Config.DB.Path, "SQLite database path")

	root.AddCommand(
		newPreviewCmd(app, &dbPath),
		newSeedCmd(app, &dbPath),
		newUsersCmd(app, &dbPath),
		newBalanceCmd(app, &dbPath),
	)

	return root
}

// withStore opens the database for the duration of fn.
func (app *App) withStore(path string, fn func(core.Store) error) error {
	store, closeFn, err := app.Open(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer closeFn()
	return fn(store)
}

func (app *App) now() time.Time {
	if app.Now == nil {
		return time.Now()
	}
	return app.Now()
}

func newPreviewCmd(app *App, dbPath *string) *cobra.Command {
	var month, timezone string
	var concurrency int

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the payroll preview for a month as JSON",
		Example: `  timekeeper preview --month 2024-03
  timekeeper preview --db ./data/timekeeper.db --timezone UTC`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(*dbPath, func(store core.Store) error {
				svc := payroll.NewPreviewService(store, timezone, concurrency)
				svc.Now = app.now
				res, err := svc.Preview(context.Background(), month)
				if err != nil {
					return err
				}

				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(api.ToPayrollPreviewResponse(res))
			})
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Month as YYYY-MM (default: current month)")
	cmd.Flags().StringVar(&timezone, "timezone", app.Config.Payroll.Timezone, "Timezone label for month boundaries")
	cmd.Flags().IntVar(&concurrency, "concurrency", app.Config.Payroll.Concurrency, "Employees loaded in parallel")

	return cmd
}

func newSeedCmd(app *App, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create or refresh the demo admin, manager and employee users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(*dbPath, func(store core.Store) error {
				users, err := api.SeedDemoUsers(context.Background(), store, app.now())
				if err != nil {
					return err
				}
				for _, u := range users {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", u.ID, u.Email, u.Role)
				}
				return nil
			})
		},
	}
}

func newUsersCmd(app *App, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List users by email",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(*dbPath, func(store core.Store) error {
				users, err := store.ListUsers(context.Background())
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tEMAIL\tROLE\tNAME")
				for _, u := range users {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Role, u.DisplayName())
				}
				return w.Flush()
			})
		},
	}
}

func newBalanceCmd(app *App, dbPath *string) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:     "balance <user-id>",
		Short:   "Show a user's paid leave balance for a year",
		Args:    cobra.ExactArgs(1),
		Example: `  timekeeper balance user-employee --year 2024`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(*dbPath, func(store core.Store) error {
				svc := leave.NewService(store)
				svc.Now = app.now
				svc.AnnualEntitlement = app.Config.Leave.AnnualDays
				b, err := svc.Balance(context.Background(), args[0], year)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintf(w, "Year\t%d\n", b.Year)
				fmt.Fprintf(w, "Entitlement\t%s\n", b.Entitlement.Value)
				fmt.Fprintf(w, "Used\t%s\n", b.Used.Value)
				fmt.Fprintf(w, "Pending\t%s\n", b.Pending.Value)
				fmt.Fprintf(w, "Remaining\t%s\n", b.Remaining().Value)
				fmt.Fprintf(w, "Available\t%s\n", b.Available().Value)
				return w.Flush()
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Calendar year (default: current year)")
	return cmd
}
