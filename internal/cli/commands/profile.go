package commands

import (
	"github.com/spf13/cobra"

	"github.com/gymfeetrack/gymfeetrack/internal/cli/client"
	"github.com/gymfeetrack/gymfeetrack/internal/cli/views"
)

// NewProfileCmd creates the profile command
func NewProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your member profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireLogin(); err != nil {
				return err
			}
			profile, err := app.api.Me(cmd.Context())
			if err != nil {
				return app.fail(err, "Failed to load your profile.", "detail")
			}
			views.Profile(app.out, *profile)
			return nil
		},
	}

	cmd.AddCommand(newProfileSetCmd(app))

	return cmd
}

func newProfileSetCmd(app *App) *cobra.Command {
	var phone, address string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update your phone number or address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireLogin(); err != nil {
				return err
			}
			current, err := app.api.Me(cmd.Context())
			if err != nil {
				return app.fail(err, "Failed to load your profile.", "detail")
			}

			update := client.ProfileUpdate{PhoneNumber: current.PhoneNumber, Address: current.Address}
			if cmd.Flags().Changed("phone") {
				update.PhoneNumber = phone
			}
			if cmd.Flags().Changed("address") {
				update.Address = address
			}

			profile, err := app.api.UpdateProfile(cmd.Context(), current.ID, update)
			if err != nil {
				return app.fail(err, "Failed to update your profile.", "phone_number", "address", "detail")
			}

			views.Success(app.out, "Profile updated")
			views.Profile(app.out, *profile)
			return nil
		},
	}

	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&address, "address", "", "Postal address")

	return cmd
}
