package views

import (
	"errors"

	"github.com/gymfeetrack/gymfeetrack/internal/cli/client"
)

// fieldLabels prefixes messages for fields the user typed in
var fieldLabels = map[string]string{
	"username":      "Username",
	"email":         "Email",
	"password":      "Password",
	"name":          "Name",
	"price":         "Price",
	"duration_days": "Duration",
	"amount":        "Amount",
	"plan_id":       "Plan",
}

// ErrorMessage turns an API failure into a single user-facing line. The
// first of fields present in the error body wins; when none is, fallback
// is returned. Network failures always get a connection message.
func ErrorMessage(err error, fallback string, fields ...string) string {
	reqErr, ok := client.AsRequestError(err)
	if !ok {
		return fallback
	}
	if reqErr.Kind() == client.NetworkFailure {
		return "Could not reach the GymFeeTrack API. Check api_url and your connection."
	}

	body := reqErr.FieldErrors()
	for _, field := range fields {
		msgs := body[field]
		if len(msgs) == 0 {
			continue
		}
		if label, ok := fieldLabels[field]; ok {
			return label + ": " + msgs[0]
		}
		return msgs[0]
	}
	return fallback
}

// UserError is an error whose message is already fit for the terminal
type UserError struct {
	Msg string
	Err error
}

func (e *UserError) Error() string {
	return e.Msg
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// Fail wraps err with the message ErrorMessage picks for it
func Fail(err error, fallback string, fields ...string) error {
	return &UserError{Msg: ErrorMessage(err, fallback, fields...), Err: err}
}

// IsUserError reports whether err carries a terminal-ready message
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}
