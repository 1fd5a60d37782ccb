package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymfeetrack/gymfeetrack/internal/cli/auth"
	"github.com/gymfeetrack/gymfeetrack/internal/cli/client"
	"github.com/gymfeetrack/gymfeetrack/internal/cli/guard"
)

// fakeAPI is a scripted stand-in for the gateway client
type fakeAPI struct {
	mu sync.Mutex

	token    string
	tokenErr error
	profile  *client.Profile
	meErr    error
	regErr   error

	meCalls    int
	tokenCalls int
	regCalls   int
}

func (f *fakeAPI) ObtainToken(ctx context.Context, username, password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenCalls++
	return f.token, f.tokenErr
}

func (f *fakeAPI) Me(ctx context.Context) (*client.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.meCalls++
	if f.meErr != nil {
		return nil, f.meErr
	}
	p := *f.profile
	return &p, nil
}

func (f *fakeAPI) Register(ctx context.Context, username, email, password string) (*client.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regCalls++
	if f.regErr != nil {
		return nil, f.regErr
	}
	return &client.User{ID: 9, Username: username, Email: email}, nil
}

func aliceProfile(admin bool) *client.Profile {
	return &client.Profile{ID: 1, User: client.User{ID: 1, Username: "alice"}, IsGymAdmin: admin}
}

func assertInvariant(t *testing.T, s Session) {
	t.Helper()
	if s.IsAuthenticated {
		assert.NotNil(t, s.User, "authenticated session must carry a user")
	} else {
		assert.Nil(t, s.User, "anonymous session must not carry a user")
		assert.False(t, s.IsAdmin, "anonymous session cannot be admin")
	}
}

func assertAnonymous(t *testing.T, s Session) {
	t.Helper()
	assert.False(t, s.Loading)
	assert.False(t, s.IsAuthenticated)
	assert.Nil(t, s.User)
	assertInvariant(t, s)
}

func TestNew_StartsInitializing(t *testing.T) {
	store := New(&fakeAPI{}, auth.NewMemoryStore(""), zerolog.Nop())
	snap := store.Snapshot()

	assert.True(t, snap.Loading)
	assert.False(t, snap.IsAuthenticated)
	assert.Equal(t, guard.Defer, guard.Decide(snap.State(), []guard.Role{guard.RoleMember}))
}

func TestCheckStatus_NoToken(t *testing.T) {
	api := &fakeAPI{}
	store := New(api, auth.NewMemoryStore(""), zerolog.Nop())

	require.NoError(t, store.CheckStatus(context.Background()))

	assertAnonymous(t, store.Snapshot())
	assert.Equal(t, 0, api.meCalls)
}

func TestCheckStatus_ValidToken(t *testing.T) {
	api := &fakeAPI{profile: aliceProfile(true)}
	store := New(api, auth.NewMemoryStore("t1"), zerolog.Nop())

	require.NoError(t, store.CheckStatus(context.Background()))

	snap := store.Snapshot()
	assert.False(t, snap.Loading)
	assert.True(t, snap.IsAuthenticated)
	assert.True(t, snap.IsAdmin)
	assert.Equal(t, "alice", snap.User.Username)
	assert.Equal(t, 1, snap.ProfileID)
	assertInvariant(t, snap)
}

func TestCheckStatus_RejectedTokenIsRemoved(t *testing.T) {
	tokens := auth.NewMemoryStore("expired")
	api := &fakeAPI{meErr: &client.RequestError{StatusCode: http.StatusUnauthorized}}
	store := New(api, tokens, zerolog.Nop())

	require.NoError(t, store.CheckStatus(context.Background()))

	assertAnonymous(t, store.Snapshot())
	_, err := tokens.LoadToken()
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
}

func TestCheckStatus_NetworkFailureStillResolves(t *testing.T) {
	tokens := auth.NewMemoryStore("t1")
	api := &fakeAPI{meErr: &client.RequestError{Err: errors.New("connection refused")}}
	store := New(api, tokens, zerolog.Nop())

	require.NoError(t, store.CheckStatus(context.Background()))

	assertAnonymous(t, store.Snapshot())
	_, err := tokens.LoadToken()
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
}

type brokenStore struct{ auth.MemoryStore }

func (b *brokenStore) LoadToken() (string, error) {
	return "", errors.New("keyring locked")
}

func TestCheckStatus_StorageFailureResolvesAnonymous(t *testing.T) {
	var logs bytes.Buffer
	api := &fakeAPI{}
	store := New(api, &brokenStore{}, zerolog.New(&logs))

	require.NoError(t, store.CheckStatus(context.Background()))
	assertAnonymous(t, store.Snapshot())
	assert.Zero(t, api.meCalls)
	assert.Contains(t, logs.String(), "keyring locked")
	assert.Contains(t, logs.String(), `"level":"warn"`)
}

type panickingAPI struct{ fakeAPI }

func (p *panickingAPI) Me(ctx context.Context) (*client.Profile, error) {
	panic("boom")
}

func TestCheckStatus_LoadingClearedOnPanic(t *testing.T) {
	store := New(&panickingAPI{}, auth.NewMemoryStore("t1"), zerolog.Nop())

	assert.Panics(t, func() { _ = store.CheckStatus(context.Background()) })
	assert.False(t, store.Snapshot().Loading)
}

func TestLogin_Success(t *testing.T) {
	tokens := auth.NewMemoryStore("")
	api := &fakeAPI{token: "t1", profile: aliceProfile(false)}
	store := New(api, tokens, zerolog.Nop())
	require.NoError(t, store.CheckStatus(context.Background()))

	tr, err := store.Login(context.Background(), "alice", "correct")
	require.NoError(t, err)

	assert.Equal(t, Transition{Navigate: guard.DashboardPath}, tr)

	snap := store.Snapshot()
	assert.False(t, snap.Loading)
	assert.True(t, snap.IsAuthenticated)
	assert.False(t, snap.IsAdmin)
	assert.Equal(t, "alice", snap.User.Username)
	assertInvariant(t, snap)

	token, err := tokens.LoadToken()
	require.NoError(t, err)
	assert.Equal(t, "t1", token)
	assert.Equal(t, 1, api.tokenCalls)
	assert.Equal(t, 1, api.meCalls)
}

func TestLogin_BadCredentials(t *testing.T) {
	tokens := auth.NewMemoryStore("")
	reqErr := &client.RequestError{
		StatusCode: http.StatusBadRequest,
		Body:       []byte(`{"non_field_errors":["Unable to log in."]}`),
	}
	api := &fakeAPI{tokenErr: reqErr}
	store := New(api, tokens, zerolog.Nop())
	require.NoError(t, store.CheckStatus(context.Background()))

	tr, err := store.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.Same(t, reqErr, err)
	assert.Empty(t, tr.Navigate)

	assertAnonymous(t, store.Snapshot())
	assert.Equal(t, 0, api.meCalls)
}

func TestLogin_IdentityFailureRollsBackToken(t *testing.T) {
	tokens := auth.NewMemoryStore("")
	api := &fakeAPI{token: "t1", meErr: &client.RequestError{StatusCode: http.StatusInternalServerError}}
	store := New(api, tokens, zerolog.Nop())
	require.NoError(t, store.CheckStatus(context.Background()))

	_, err := store.Login(context.Background(), "alice", "correct")
	require.Error(t, err)
	assert.True(t, client.IsKind(err, client.ServerFailure))

	assertAnonymous(t, store.Snapshot())
	_, err = tokens.LoadToken()
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
}

func TestRegister(t *testing.T) {
	api := &fakeAPI{}
	tokens := auth.NewMemoryStore("")
	store := New(api, tokens, zerolog.Nop())
	require.NoError(t, store.CheckStatus(context.Background()))

	tr, err := store.Register(context.Background(), "bob", "bob@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, guard.LoginPath, tr.Navigate)

	// registering does not sign in
	assertAnonymous(t, store.Snapshot())
	_, err = tokens.LoadToken()
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
}

func TestRegister_Failure(t *testing.T) {
	regErr := &client.RequestError{StatusCode: 400, Body: []byte(`{"username":["A user with that username already exists."]}`)}
	store := New(&fakeAPI{regErr: regErr}, auth.NewMemoryStore(""), zerolog.Nop())

	tr, err := store.Register(context.Background(), "bob", "bob@example.com", "pw")
	assert.Same(t, regErr, err)
	assert.Empty(t, tr.Navigate)
	assert.False(t, store.Snapshot().Loading)
}

func TestLogout_Idempotent(t *testing.T) {
	tokens := auth.NewMemoryStore("t1")
	api := &fakeAPI{profile: aliceProfile(true)}
	store := New(api, tokens, zerolog.Nop())
	require.NoError(t, store.CheckStatus(context.Background()))
	require.True(t, store.Snapshot().IsAuthenticated)

	first := store.Logout()
	afterFirst := store.Snapshot()
	second := store.Logout()
	afterSecond := store.Snapshot()

	assert.Equal(t, guard.LoginPath, first.Navigate)
	assert.Equal(t, first, second)
	assert.Equal(t, afterFirst, afterSecond)
	assertAnonymous(t, afterSecond)

	_, err := tokens.LoadToken()
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
	assert.Equal(t, 1, api.meCalls, "logout must not call the API")
}

func TestSnapshot_IsACopy(t *testing.T) {
	store := New(&fakeAPI{profile: aliceProfile(false)}, auth.NewMemoryStore("t1"), zerolog.Nop())
	require.NoError(t, store.CheckStatus(context.Background()))

	snap := store.Snapshot()
	snap.User.Username = "mallory"

	assert.Equal(t, "alice", store.Snapshot().User.Username)
}

func TestConcurrentOperationsAreSerialized(t *testing.T) {
	api := &fakeAPI{token: "t1", profile: aliceProfile(false)}
	store := New(api, auth.NewMemoryStore("t0"), zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.CheckStatus(context.Background())
		}()
		go func() {
			defer wg.Done()
			_, _ = store.Login(context.Background(), "alice", "correct")
			_ = store.Snapshot()
		}()
	}
	wg.Wait()

	snap := store.Snapshot()
	assert.False(t, snap.Loading)
	assert.True(t, snap.IsAuthenticated)
	assertInvariant(t, snap)
}

// TestLogin_AgainstHTTPStub drives the real gateway client against a stub
// server returning {token:"t1"} then the identity payload.
func TestLogin_AgainstHTTPStub(t *testing.T) {
	var (
		callsMu sync.Mutex
		calls   []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callsMu.Lock()
		calls = append(calls, r.Method+" "+r.URL.Path)
		callsMu.Unlock()
		switch r.URL.Path {
		case "/api/token/":
			var creds client.Credentials
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			if creds.Password != "correct" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"non_field_errors":["Unable to log in."]}`))
				return
			}
			w.Write([]byte(`{"token":"t1"}`))
		case "/api/me/":
			assert.Equal(t, "Token t1", r.Header.Get("Authorization"))
			w.Write([]byte(`{"id":1,"user":{"id":1,"username":"alice"},"is_gym_admin":false}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	tokens := auth.NewMemoryStore("")
	api, err := client.New(srv.URL+"/api/", tokens)
	require.NoError(t, err)

	store := New(api, tokens, zerolog.Nop())
	require.NoError(t, store.CheckStatus(context.Background()))

	_, err = store.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	reqErr, ok := client.AsRequestError(err)
	require.True(t, ok)
	assert.Contains(t, reqErr.FieldErrors(), "non_field_errors")
	assertAnonymous(t, store.Snapshot())

	tr, err := store.Login(context.Background(), "alice", "correct")
	require.NoError(t, err)
	assert.Equal(t, guard.DashboardPath, tr.Navigate)
	assert.Equal(t, "alice", store.Snapshot().User.Username)
	assert.False(t, store.Snapshot().IsAdmin)

	callsMu.Lock()
	defer callsMu.Unlock()
	assert.Equal(t, []string{"POST /api/token/", "POST /api/token/", "GET /api/me/"}, calls)
}
