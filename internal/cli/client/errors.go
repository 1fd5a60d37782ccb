package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failed request
type Kind int

const (
	// NetworkFailure means no response was received
	NetworkFailure Kind = iota + 1
	// AuthFailure is a 401 response
	AuthFailure
	// ValidationFailure is any other 4xx response, usually with field errors
	ValidationFailure
	// ServerFailure is a 5xx response
	ServerFailure
	// UnexpectedStatus covers non-2xx statuses outside the classes above
	UnexpectedStatus
)

func (k Kind) String() string {
	switch k {
	case NetworkFailure:
		return "network failure"
	case AuthFailure:
		return "auth failure"
	case ValidationFailure:
		return "validation failure"
	case ServerFailure:
		return "server failure"
	default:
		return "unexpected status"
	}
}

// RequestError is returned for every failed request. StatusCode is 0 when
// no response arrived, in which case Err holds the transport error.
type RequestError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: failed to send request: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s failed (status %d): %s", e.Method, e.Path, e.StatusCode, strings.TrimSpace(string(e.Body)))
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Kind reports which failure class the error belongs to
func (e *RequestError) Kind() Kind {
	switch {
	case e.StatusCode == 0:
		return NetworkFailure
	case e.StatusCode == http.StatusUnauthorized:
		return AuthFailure
	case e.StatusCode >= 400 && e.StatusCode < 500:
		return ValidationFailure
	case e.StatusCode >= 500:
		return ServerFailure
	default:
		return UnexpectedStatus
	}
}

// FieldErrors decodes a field-keyed error body such as
// {"username": ["A user with that username already exists."]} or
// {"detail": "Invalid token."}. Bodies that are not JSON objects yield nil.
func (e *RequestError) FieldErrors() map[string][]string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(e.Body, &raw); err != nil {
		return nil
	}

	fields := make(map[string][]string, len(raw))
	for name, value := range raw {
		var list []string
		if err := json.Unmarshal(value, &list); err == nil {
			fields[name] = list
			continue
		}
		var single string
		if err := json.Unmarshal(value, &single); err == nil {
			fields[name] = []string{single}
		}
	}
	return fields
}

// AsRequestError unwraps err into a *RequestError
func AsRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}
	return nil, false
}

// IsKind reports whether err is a RequestError of the given kind
func IsKind(err error, kind Kind) bool {
	reqErr, ok := AsRequestError(err)
	return ok && reqErr.Kind() == kind
}
