package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymfeetrack/gymfeetrack/internal/cli/auth"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, tokens auth.TokenStore) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/api", tokens)
	require.NoError(t, err)
	return c, srv
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New("ftp://example.com/api/", auth.NewMemoryStore(""))
	assert.Error(t, err)

	_, err = New("://nope", auth.NewMemoryStore(""))
	assert.Error(t, err)
}

func TestClient_AttachesTokenHeader(t *testing.T) {
	var gotAuth, gotRequestID string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`[]`))
	}, auth.NewMemoryStore("abc123"))

	_, err := c.ListPlans(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Token abc123", gotAuth)
	assert.Len(t, gotRequestID, 26)
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var sawHeader bool
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, sawHeader = r.Header["Authorization"]
		w.Write([]byte(`[]`))
	}, auth.NewMemoryStore(""))

	_, err := c.ListPlans(context.Background())
	require.NoError(t, err)
	assert.False(t, sawHeader)
}

func TestClient_ResolvesRelativePaths(t *testing.T) {
	var gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}, auth.NewMemoryStore("t"))

	require.NoError(t, c.DeletePlan(context.Background(), 7))
	assert.Equal(t, "/api/plans/7/", gotPath)

	require.NoError(t, c.Delete(context.Background(), "/subscriptions/2/"))
	assert.Equal(t, "/api/subscriptions/2/", gotPath)
}

func TestClient_401RemovesTokenForAnyEndpoint(t *testing.T) {
	for _, path := range []string{"me/", "plans/", "payments/", "subscriptions/9/"} {
		t.Run(path, func(t *testing.T) {
			tokens := auth.NewMemoryStore("stale")
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"detail":"Invalid token."}`))
			}, tokens)

			err := c.Get(context.Background(), path, nil)
			require.Error(t, err)

			reqErr, ok := AsRequestError(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusUnauthorized, reqErr.StatusCode)
			assert.Equal(t, AuthFailure, reqErr.Kind())
			assert.Equal(t, []string{"Invalid token."}, reqErr.FieldErrors()["detail"])

			_, err = tokens.LoadToken()
			assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
		})
	}
}

func TestClient_Non401KeepsToken(t *testing.T) {
	tokens := auth.NewMemoryStore("good")
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail":"You do not have permission to perform this action."}`))
	}, tokens)

	err := c.DeletePlan(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, IsKind(err, ValidationFailure))

	token, err := tokens.LoadToken()
	require.NoError(t, err)
	assert.Equal(t, "good", token)
}

func TestClient_ValidationErrorBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"non_field_errors":["Unable to log in with provided credentials."]}`))
	}, auth.NewMemoryStore(""))

	_, err := c.ObtainToken(context.Background(), "alice", "wrong")
	require.Error(t, err)

	reqErr, ok := AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, ValidationFailure, reqErr.Kind())
	assert.Contains(t, string(reqErr.Body), "non_field_errors")
	assert.Contains(t, err.Error(), "status 400")
}

func TestClient_ServerFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, auth.NewMemoryStore(""))

	_, err := c.ListPlans(context.Background())
	assert.True(t, IsKind(err, ServerFailure))
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url+"/api/", auth.NewMemoryStore("t"))
	require.NoError(t, err)

	_, err = c.Me(context.Background())
	require.Error(t, err)

	reqErr, ok := AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, 0, reqErr.StatusCode)
	assert.Equal(t, NetworkFailure, reqErr.Kind())
	assert.NotNil(t, reqErr.Unwrap())
}

func TestClient_PostSendsJSON(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in PlanInput
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Gold", in.Name)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Plan{ID: 3, Name: in.Name, Price: in.Price, DurationDays: in.DurationDays})
	}, auth.NewMemoryStore("admin"))

	plan, err := c.CreatePlan(context.Background(), PlanInput{Name: "Gold", Price: "999.00", DurationDays: 30})
	require.NoError(t, err)
	assert.Equal(t, 3, plan.ID)
	assert.Equal(t, "999.00", plan.Price)
}

func TestClient_SetHTTPClientKeepsHooks(t *testing.T) {
	tokens := auth.NewMemoryStore("x")
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Token x", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	}, tokens)

	c.SetHTTPClient(&http.Client{})

	_ = c.Get(context.Background(), "me/", nil)
	_, err := tokens.LoadToken()
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
}

func TestRequestError_FieldErrorsIgnoresNonObject(t *testing.T) {
	err := &RequestError{StatusCode: 400, Body: []byte(`["nope"]`)}
	assert.Nil(t, err.FieldErrors())
}
