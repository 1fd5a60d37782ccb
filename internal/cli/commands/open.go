package commands

import (
	"github.com/spf13/cobra"

	"github.com/gymfeetrack/gymfeetrack/internal/cli/guard"
)

// NewOpenCmd creates the open command, which shows any client route
func NewOpenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "open [path]",
		Short: "Open a page such as /plans, /dashboard or /admin",
		Long: `Open a page by its route path.

Protected pages redirect the same way the web client does: anonymous users
are sent to /login and members opening /admin are sent to /dashboard.

Examples:
  $ gymctl open            # same as /
  $ gymctl open /plans
  $ gymctl open /admin`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := guard.RootPath
			if len(args) > 0 {
				path = args[0]
			}
			return app.Navigate(cmd.Context(), path)
		},
	}
}

// NewDashboardCmd creates the dashboard command
func NewDashboardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show your subscriptions and payments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Navigate(cmd.Context(), guard.DashboardPath)
		},
	}
}

// NewAdminCmd creates the admin command
func NewAdminCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "admin",
		Short: "Show the gym-wide admin dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Navigate(cmd.Context(), guard.AdminPath)
		},
	}
}
