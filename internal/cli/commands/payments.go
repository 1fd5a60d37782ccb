package commands

import (

	"github.com/spf13/cobra"

	"github.com/gymfeetrack/gymfeetrack/internal/cli/client"
	"github.com/gymfeetrack/gymfeetrack/internal/cli/views"
)

// NewPaymentsCmd creates the payments command group
func NewPaymentsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "payments",
		Aliases: []string{"payment"},
		Short:   "List and record payments",
	}

	cmd.AddCommand(newPaymentsLsCmd(app))
	cmd.AddCommand(newPaymentsAddCmd(app))

	return cmd
}

func newPaymentsLsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List your payments (all payments for admins)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireLogin(); err != nil {
				return err
			}
			payments, err := app.api.ListPayments(cmd.Context())
			if err != nil {
				return app.fail(err, "Failed to load payments.", "detail")
			}
			views.Payments(app.out, payments, app.session.Snapshot().IsAdmin)
			return nil
		},
	}
}

func newPaymentsAddCmd(app *App) *cobra.Command {
	var input client.PaymentInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a payment against a subscription (admin only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireLogin(); err != nil {
				return err
			}
			if input.MemberSubscriptionID <= 0 || input.Amount == "" {
				return &views.UserError{Msg: "Subscription and amount are required."}
			}
			if !client.ValidAmount(input.Amount) {
				return &views.UserError{Msg: "Amount must be a number."}
			}

			// Members are refused by the API with a readable detail message
			payment, err := app.api.CreatePayment(cmd.Context(), input)
			if err != nil {
				return app.fail(err, "Failed to record payment.", "detail", "amount", "member_subscription_id", "payment_method", "non_field_errors")
			}

			views.Success(app.out, "Payment %d recorded: %s via %s", payment.ID, views.Price(payment.Amount), payment.PaymentMethod)
			return nil
		},
	}

	cmd.Flags().IntVar(&input.MemberSubscriptionID, "subscription", 0, "Subscription ID")
	cmd.Flags().StringVar(&input.Amount, "amount", "", "Amount, e.g. 499.00")
	cmd.Flags().StringVar(&input.PaymentMethod, "method", "Cash", "Cash, Online or Card")
	cmd.Flags().StringVar(&input.TransactionID, "transaction-id", "", "Transaction reference")
	cmd.Flags().StringVar(&input.Status, "status", "Completed", "Completed, Pending or Failed")

	return cmd
}
