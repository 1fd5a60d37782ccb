package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/gymfeetrack/gymfeetrack/internal/models"
)

// Response bodies follow the Django REST framework shapes the clients
// already understand: {"detail": "..."} for request-level failures and
// {"field": ["..."]} for validation failures.
const (
	msgNotAuthenticated = "Authentication credentials were not provided."
	msgInvalidToken     = "Invalid token."
	msgPermissionDenied = "You do not have permission to perform this action."
	msgNotFound         = "Not found."
	msgBadCredentials   = "Unable to log in with provided credentials."
	msgMemberPayment    = "Members can only view payments. Please contact admin for payment."
	msgInternal         = "A server error occurred."
	nonFieldErrors      = "non_field_errors"
)

// FieldErrors maps a JSON field name to its messages
type FieldErrors map[string][]string

// Add appends a message for field
func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func respondDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

func respondFieldErrors(c *gin.Context, errs FieldErrors) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errs)
}

func (s *Server) respondInternal(c *gin.Context, err error, message string) {
	s.logger.Error().Err(err).Str("request_id", requestID(c)).Msg(message)
	respondDetail(c, http.StatusInternalServerError, msgInternal)
}

// newValidator returns a validator that reports JSON field names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// bind decodes the JSON body into req and validates it. On failure the
// response has been written and false is returned.
func (s *Server) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			respondFieldErrors(c, FieldErrors{typeErr.Field: {"Incorrect type."}})
			return false
		}
		respondDetail(c, http.StatusBadRequest, fmt.Sprintf("JSON parse error - %v", err))
		return false
	}

	if err := s.validator.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			s.respondInternal(c, err, "Validation failed unexpectedly")
			return false
		}
		errs := FieldErrors{}
		for _, fe := range verrs {
			errs.Add(fe.Field(), validationMessage(fe))
		}
		respondFieldErrors(c, errs)
		return false
	}
	return true
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "gt":
		return fmt.Sprintf("Ensure this value is greater than %s.", fe.Param())
	case "gte", "min":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(fe.Value()))
	case "datetime":
		return "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	default:
		return fmt.Sprintf("Failed %q check.", fe.Tag())
	}
}

// FlexString accepts a JSON string or number. Form clients send numbers
// as strings and scripts send them as numbers.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// moneyMessage maps a models.ParseMoney error onto the DRF decimal messages
func moneyMessage(err error) string {
	if errors.Is(err, models.ErrMoneyTooLarge) {
		return "Ensure that there are no more than 8 digits in total."
	}
	return "A valid number is required."
}
