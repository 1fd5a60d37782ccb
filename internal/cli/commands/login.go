package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gymfeetrack/gymfeetrack/internal/cli/views"
)

// NewLoginCmd creates the login command
func NewLoginCmd(app *App) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to GymFeeTrack",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, app, username, password)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username (or set GYMFEETRACK_USERNAME)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set GYMFEETRACK_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(cmd *cobra.Command, app *App, username, password string) error {
	// Check for environment variables (useful for scripts)
	if username == "" {
		username = os.Getenv("GYMFEETRACK_USERNAME")
	}
	if password == "" {
		password = os.Getenv("GYMFEETRACK_PASSWORD")
	}

	username, err := app.promptValue("Username", username, "username")
	if err != nil {
		return err
	}
	password, err = app.promptPassword("Password", password, "password")
	if err != nil {
		return err
	}

	transition, err := app.session.Login(cmd.Context(), username, password)
	if err != nil {
		return views.Fail(err, "Login failed. Please check your credentials.", "non_field_errors")
	}

	snap := app.session.Snapshot()
	views.Success(app.out, "Logged in as %s", snap.User.Username)
	return app.Navigate(cmd.Context(), transition.Navigate)
}

// NewLogoutCmd creates the logout command
func NewLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			transition := app.session.Logout()
			views.Success(app.out, "Logged out")
			return app.Navigate(cmd.Context(), transition.Navigate)
		},
	}
}

// NewStatusCmd creates the status command
func NewStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show who is logged in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			views.Status(app.out, app.session.Snapshot(), app.api.BaseURL())
			return nil
		},
	}
}
