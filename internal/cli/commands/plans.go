package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gymfeetrack/gymfeetrack/internal/cli/client"
	"github.com/gymfeetrack/gymfeetrack/internal/cli/guard"
	"github.com/gymfeetrack/gymfeetrack/internal/cli/views"
)

// planFlags holds the plan form as typed by the user
type planFlags struct {
	name        string
	price       string
	duration    string
	description string
}

func (f *planFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Plan name")
	cmd.Flags().StringVar(&f.price, "price", "", "Price, e.g. 499.00")
	cmd.Flags().StringVar(&f.duration, "duration", "", "Duration in days")
	cmd.Flags().StringVar(&f.description, "description", "", "Optional description")
}

// input checks the form the same way the plans page does
func (f *planFlags) input() (client.PlanInput, error) {
	if f.name == "" || f.price == "" || f.duration == "" {
		return client.PlanInput{}, &views.UserError{Msg: "All fields are required."}
	}

	if !client.ValidAmount(f.price) || !client.ValidDays(f.duration) {
		return client.PlanInput{}, &views.UserError{Msg: "Price and duration must be numbers."}
	}
	days, err := strconv.Atoi(strings.TrimSpace(f.duration))
	if err != nil {
		return client.PlanInput{}, &views.UserError{Msg: "Price and duration must be numbers.", Err: err}
	}

	return client.PlanInput{
		Name:         f.name,
		Price:        f.price,
		DurationDays: days,
		Description:  f.description,
	}, nil
}

// NewPlansCmd creates the plans command group
func NewPlansCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "plans",
		Aliases: []string{"plan"},
		Short:   "List and manage membership plans",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Navigate(cmd.Context(), guard.PlansPath)
		},
	}

	cmd.AddCommand(newPlansAddCmd(app))
	cmd.AddCommand(newPlansEditCmd(app))
	cmd.AddCommand(newPlansRmCmd(app))

	return cmd
}

func newPlansAddCmd(app *App) *cobra.Command {
	var flags planFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a membership plan (admin only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAdmin(); err != nil {
				return err
			}
			input, err := flags.input()
			if err != nil {
				return err
			}

			plan, err := app.api.CreatePlan(cmd.Context(), input)
			if err != nil {
				return app.fail(err, "Failed to add plan. Check the data and try again.", "name", "price", "duration_days", "detail")
			}

			views.Success(app.out, "Plan %q added (ID %d)", plan.Name, plan.ID)
			return app.Navigate(cmd.Context(), guard.PlansPath)
		},
	}
	flags.register(cmd)

	return cmd
}

func newPlansEditCmd(app *App) *cobra.Command {
	var flags planFlags

	cmd := &cobra.Command{
		Use:   "edit <plan-id>",
		Short: "Update a membership plan (admin only)",
		Long: `Update a membership plan. Fields not given keep their current value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAdmin(); err != nil {
				return err
			}
			id, err := parseID("plan", args[0])
			if err != nil {
				return err
			}

			current, err := app.api.GetPlan(cmd.Context(), id)
			if err != nil {
				return app.fail(err, fmt.Sprintf("Plan %d not found.", id), "detail")
			}
			if flags.name == "" {
				flags.name = current.Name
			}
			if flags.price == "" {
				flags.price = current.Price
			}
			if flags.duration == "" {
				flags.duration = strconv.Itoa(current.DurationDays)
			}
			if !cmd.Flags().Changed("description") {
				flags.description = current.Description
			}

			input, err := flags.input()
			if err != nil {
				return err
			}
			plan, err := app.api.UpdatePlan(cmd.Context(), id, input)
			if err != nil {
				return app.fail(err, "Failed to update plan. Check the data and try again.", "name", "price", "duration_days", "detail")
			}

			views.Success(app.out, "Plan %q updated", plan.Name)
			return app.Navigate(cmd.Context(), guard.PlansPath)
		},
	}
	flags.register(cmd)

	return cmd
}

func newPlansRmCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <plan-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a membership plan (admin only)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAdmin(); err != nil {
				return err
			}
			id, err := parseID("plan", args[0])
			if err != nil {
				return err
			}
			if err := app.confirm("Are you sure you want to delete this plan", yes); err != nil {
				return err
			}

			if err := app.api.DeletePlan(cmd.Context(), id); err != nil {
				return app.fail(err, "Failed to delete plan. It might be in use.", "detail")
			}

			views.Success(app.out, "Plan %d deleted", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func parseID(kind, arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID %q", kind, arg)
	}
	return id, nil
}
