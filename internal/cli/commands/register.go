package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/gymfeetrack/gymfeetrack/internal/cli/views"
)

var validate = validator.New()

type registerForm struct {
	Username        string `validate:"required"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required"`
}

// NewRegisterCmd creates the register command
func NewRegisterCmd(app *App) *cobra.Command {
	var form registerForm

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a member account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(cmd, app, form)
		},
	}

	cmd.Flags().StringVar(&form.Username, "username", "", "Username")
	cmd.Flags().StringVar(&form.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&form.Password, "password", "", "Password (or set GYMFEETRACK_PASSWORD, will prompt if not provided)")
	cmd.Flags().StringVar(&form.ConfirmPassword, "confirm-password", "", "Password again (defaults to --password when that came from a flag or env)")

	return cmd
}

func runRegister(cmd *cobra.Command, app *App, form registerForm) error {
	var err error
	if form.Password == "" {
		form.Password = os.Getenv("GYMFEETRACK_PASSWORD")
	}
	if form.ConfirmPassword == "" && form.Password != "" {
		form.ConfirmPassword = form.Password
	}

	if form.Username, err = app.promptValue("Username", form.Username, "username"); err != nil {
		return err
	}
	if form.Email, err = app.promptValue("Email", form.Email, "email"); err != nil {
		return err
	}
	if form.Password == "" {
		if form.Password, err = app.promptPassword("Password", "", "password"); err != nil {
			return err
		}
		if form.ConfirmPassword, err = app.promptPassword("Confirm Password", "", "confirm-password"); err != nil {
			return err
		}
	}

	if err := checkRegisterForm(form); err != nil {
		return err
	}

	transition, err := app.session.Register(cmd.Context(), form.Username, form.Email, form.Password)
	if err != nil {
		return views.Fail(err, "Registration failed. Please try again.", "username", "email", "password", "non_field_errors")
	}

	views.Success(app.out, "Registration successful! Please log in.")
	return app.Navigate(cmd.Context(), transition.Navigate)
}

// checkRegisterForm runs the same checks as the registration page before
// anything is sent
func checkRegisterForm(form registerForm) error {
	if form.Password != form.ConfirmPassword {
		return &views.UserError{Msg: "Passwords do not match."}
	}

	if err := validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			if fe.Tag() == "email" {
				return &views.UserError{Msg: "Email: Enter a valid email address.", Err: err}
			}
			return &views.UserError{Msg: fmt.Sprintf("%s: This field may not be blank.", fe.Field()), Err: err}
		}
		return err
	}
	return nil
}
