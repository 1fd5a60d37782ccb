package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gymfeetrack/gymfeetrack/internal/cli/commands"
	"github.com/gymfeetrack/gymfeetrack/internal/cli/views"
)

var version = "dev" // Will be set during build

// NewRootCmd builds the gymctl command tree around a fresh App
func NewRootCmd(opts ...commands.Option) *cobra.Command {
	app := commands.NewApp(opts...)

	rootCmd := &cobra.Command{
		Use:   "gymctl",
		Short: "GymFeeTrack - Gym membership and fee tracking",
		Long: `gymctl is the command line client for GymFeeTrack.

Members can browse plans and check their subscriptions and payments.
Gym admins can manage plans, subscriptions and payments for every member.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if commands.SkipsInit(cmd) {
				return nil
			}
			return app.Init(cmd.Context())
		},
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:         "version",
		Short:       "Print the version number",
		Annotations: commands.SkipInit(),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gymctl version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewLoginCmd(app))
	rootCmd.AddCommand(commands.NewLogoutCmd(app))
	rootCmd.AddCommand(commands.NewRegisterCmd(app))
	rootCmd.AddCommand(commands.NewStatusCmd(app))
	rootCmd.AddCommand(commands.NewOpenCmd(app))
	rootCmd.AddCommand(commands.NewDashboardCmd(app))
	rootCmd.AddCommand(commands.NewAdminCmd(app))
	rootCmd.AddCommand(commands.NewPlansCmd(app))
	rootCmd.AddCommand(commands.NewSubscriptionsCmd(app))
	rootCmd.AddCommand(commands.NewPaymentsCmd(app))
	rootCmd.AddCommand(commands.NewProfileCmd(app))
	rootCmd.AddCommand(commands.NewConfigCmd(app))

	return rootCmd
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		if views.IsUserError(err) {
			views.Error(os.Stderr, err.Error())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return err
	}
	return nil
}
