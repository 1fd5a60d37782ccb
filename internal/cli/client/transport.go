package client

import (
	"errors"
	"net/http"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/gymfeetrack/gymfeetrack/internal/cli/auth"
)

const requestIDHeader = "X-Request-ID"

// authTransport attaches the stored credential to every outgoing request and
// forgets it when the API answers 401. The original response is always
// handed back to the caller.
type authTransport struct {
	base   http.RoundTripper
	tokens auth.TokenStore
	logger zerolog.Logger
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	token, err := t.tokens.LoadToken()
	switch {
	case err == nil:
		req.Header.Set("Authorization", "Token "+token)
	case !errors.Is(err, auth.ErrNotAuthenticated):
		t.logger.Warn().Err(err).Msg("Failed to read credential token, sending request without it")
	}

	if req.Header.Get(requestIDHeader) == "" {
		req.Header.Set(requestIDHeader, ulid.Make().String())
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if err := t.tokens.DeleteToken(); err != nil {
			t.logger.Warn().Err(err).Msg("Failed to delete rejected credential token")
		} else {
			t.logger.Debug().Str("path", req.URL.Path).Msg("Credential token rejected, removed from storage")
		}
	}

	return resp, nil
}
