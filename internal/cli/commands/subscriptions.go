package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gymfeetrack/gymfeetrack/internal/cli/client"
	"github.com/gymfeetrack/gymfeetrack/internal/cli/views"
)

const dateLayout = "2006-01-02"

// NewSubscriptionsCmd creates the subscriptions command group
func NewSubscriptionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscriptions",
		Aliases: []string{"subs"},
		Short:   "List and manage subscriptions",
	}

	cmd.AddCommand(newSubscriptionsLsCmd(app))
	cmd.AddCommand(newSubscriptionsAddCmd(app))
	cmd.AddCommand(newSubscriptionsRmCmd(app))

	return cmd
}

func newSubscriptionsLsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List your subscriptions (all subscriptions for admins)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireLogin(); err != nil {
				return err
			}
			subs, err := app.api.ListSubscriptions(cmd.Context())
			if err != nil {
				return app.fail(err, "Failed to load subscriptions.", "detail")
			}
			views.Subscriptions(app.out, subs, app.session.Snapshot().IsAdmin)
			return nil
		},
	}
}

func newSubscriptionsAddCmd(app *App) *cobra.Command {
	var (
		planID    int
		memberID  int
		startDate string
		endDate   string
		status    string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Subscribe to a membership plan",
		Long: `Subscribe to a membership plan.

The end date defaults to the start date plus the plan's duration. Admins may
subscribe another member with --member <profile-id>.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireLogin(); err != nil {
				return err
			}
			if planID <= 0 {
				return fmt.Errorf("--plan is required")
			}
			if memberID != 0 && !app.session.Snapshot().IsAdmin {
				return fmt.Errorf("only gym admins can subscribe other members")
			}

			start := time.Now()
			if startDate != "" {
				parsed, err := time.Parse(dateLayout, startDate)
				if err != nil {
					return fmt.Errorf("invalid --start %q (expected YYYY-MM-DD)", startDate)
				}
				start = parsed
			}

			if endDate == "" {
				plan, err := findPlan(cmd, app, planID)
				if err != nil {
					return err
				}
				endDate = start.AddDate(0, 0, plan.DurationDays).Format(dateLayout)
			} else if _, err := time.Parse(dateLayout, endDate); err != nil {
				return fmt.Errorf("invalid --end %q (expected YYYY-MM-DD)", endDate)
			}

			sub, err := app.api.CreateSubscription(cmd.Context(), client.SubscriptionInput{
				UserProfileID: memberID,
				PlanID:        planID,
				StartDate:     start.Format(dateLayout),
				EndDate:       endDate,
				Status:        status,
			})
			if err != nil {
				return app.fail(err, "Failed to create subscription.", "plan_id", "end_date", "status", "detail", "non_field_errors")
			}

			views.Success(app.out, "Subscription %d created (%s until %s)", sub.ID, sub.Status, sub.EndDate)
			return nil
		},
	}

	cmd.Flags().IntVar(&planID, "plan", 0, "Plan ID")
	cmd.Flags().IntVar(&memberID, "member", 0, "Member profile ID (admin only)")
	cmd.Flags().StringVar(&startDate, "start", "", "Start date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date YYYY-MM-DD (default start + plan duration)")
	cmd.Flags().StringVar(&status, "status", "", "Active, Expired, Pending or Cancelled (default Active)")

	return cmd
}

func newSubscriptionsRmCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <subscription-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a subscription",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireLogin(); err != nil {
				return err
			}
			id, err := parseID("subscription", args[0])
			if err != nil {
				return err
			}
			if err := app.confirm("Are you sure you want to delete this subscription", yes); err != nil {
				return err
			}

			if err := app.api.DeleteSubscription(cmd.Context(), id); err != nil {
				return app.fail(err, "Failed to delete subscription.", "detail")
			}

			views.Success(app.out, "Subscription %d deleted", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// findPlan looks a plan up through the public listing, which members can read
func findPlan(cmd *cobra.Command, app *App, planID int) (*client.Plan, error) {
	plans, err := app.api.ListPlans(cmd.Context())
	if err != nil {
		return nil, app.fail(err, "Failed to load membership plans.", "detail")
	}
	for i := range plans {
		if plans[i].ID == planID {
			return &plans[i], nil
		}
	}
	return nil, fmt.Errorf("plan %d not found", planID)
}
