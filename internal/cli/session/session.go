package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gymfeetrack/gymfeetrack/internal/cli/auth"
	"github.com/gymfeetrack/gymfeetrack/internal/cli/client"
	"github.com/gymfeetrack/gymfeetrack/internal/cli/guard"
)

// API is the subset of the gateway client the session needs
type API interface {
	ObtainToken(ctx context.Context, username, password string) (string, error)
	Me(ctx context.Context) (*client.Profile, error)
	Register(ctx context.Context, username, email, password string) (*client.User, error)
}

// Session is a point-in-time copy of the session state.
// User is non-nil iff IsAuthenticated.
type Session struct {
	User            *client.User
	ProfileID       int
	IsAuthenticated bool
	IsAdmin         bool
	Loading         bool
}

// State returns the fields the route guard decides on
func (s Session) State() guard.State {
	return guard.State{
		Loading:         s.Loading,
		IsAuthenticated: s.IsAuthenticated,
		IsAdmin:         s.IsAdmin,
	}
}

// Transition names the route to show after an operation. An empty
// Navigate means stay where you are.
type Transition struct {
	Navigate string
}

// Store owns the session. Mutating operations are serialized; Snapshot
// never waits on network I/O.
type Store struct {
	api    API
	tokens auth.TokenStore
	logger zerolog.Logger

	opMu sync.Mutex

	mu    sync.RWMutex
	state Session
}

// New returns a Store in the Initializing phase
func New(api API, tokens auth.TokenStore, logger zerolog.Logger) *Store {
	return &Store{
		api:    api,
		tokens: tokens,
		logger: logger,
		state:  Session{Loading: true},
	}
}

// Snapshot returns a copy of the current session
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.state
	if snap.User != nil {
		u := *snap.User
		snap.User = &u
	}
	return snap
}

func (s *Store) setLoading(loading bool) {
	s.mu.Lock()
	s.state.Loading = loading
	s.mu.Unlock()
}

func (s *Store) authenticate(profile *client.Profile) {
	user := profile.User

	s.mu.Lock()
	s.state.User = &user
	s.state.ProfileID = profile.ID
	s.state.IsAuthenticated = true
	s.state.IsAdmin = profile.IsGymAdmin
	s.mu.Unlock()
}

func (s *Store) clear() {
	s.mu.Lock()
	s.state.User = nil
	s.state.ProfileID = 0
	s.state.IsAuthenticated = false
	s.state.IsAdmin = false
	s.mu.Unlock()
}

// CheckStatus resolves the Initializing phase. Without a stored token the
// session becomes anonymous. With one, the token is verified via GET me/;
// if verification fails for any reason the token is deleted and the
// session becomes anonymous. An unreadable token store is treated as
// having no token. Loading is false when CheckStatus returns, whatever
// happened.
func (s *Store) CheckStatus(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.setLoading(true)
	defer s.setLoading(false)

	if _, err := s.tokens.LoadToken(); err != nil {
		s.clear()
		if errors.Is(err, auth.ErrNotAuthenticated) {
			s.logger.Debug().Msg("No stored credential token")
		} else {
			s.logger.Warn().Err(err).Msg("Failed to read credential token, continuing signed out (try 'gymctl config set token_store file')")
		}
		return nil
	}

	profile, err := s.api.Me(ctx)
	if err != nil {
		s.logger.Info().Err(err).Msg("Auth status check failed, removing token")
		if delErr := s.tokens.DeleteToken(); delErr != nil {
			s.logger.Warn().Err(delErr).Msg("Failed to delete credential token")
		}
		s.clear()
		return nil
	}

	s.authenticate(profile)
	s.logger.Debug().Str("username", profile.User.Username).Bool("is_admin", profile.IsGymAdmin).Msg("Session restored")
	return nil
}

// Login exchanges credentials for a token, persists it, then loads the
// caller's identity. On success it returns a transition to the dashboard.
//
// Errors from either call are returned unchanged. If the identity lookup
// fails after the token was stored, the token is removed again so no
// half-authenticated credential is left behind.
func (s *Store) Login(ctx context.Context, username, password string) (Transition, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.setLoading(true)
	defer s.setLoading(false)

	token, err := s.api.ObtainToken(ctx, username, password)
	if err != nil {
		s.logger.Debug().Err(err).Str("username", username).Msg("Login failed")
		return Transition{}, err
	}

	if err := s.tokens.SaveToken(token); err != nil {
		return Transition{}, fmt.Errorf("failed to save authentication token: %w", err)
	}

	profile, err := s.api.Me(ctx)
	if err != nil {
		if delErr := s.tokens.DeleteToken(); delErr != nil {
			s.logger.Warn().Err(delErr).Msg("Failed to roll back credential token")
		}
		s.clear()
		return Transition{}, err
	}

	s.authenticate(profile)
	s.logger.Info().Str("username", profile.User.Username).Msg("User logged in")

	return Transition{Navigate: guard.DashboardPath}, nil
}

// Register creates an account without signing in. On success it returns a
// transition to the login page.
func (s *Store) Register(ctx context.Context, username, email, password string) (Transition, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.setLoading(true)
	defer s.setLoading(false)

	if _, err := s.api.Register(ctx, username, email, password); err != nil {
		s.logger.Debug().Err(err).Str("username", username).Msg("Registration failed")
		return Transition{}, err
	}

	s.logger.Info().Str("username", username).Msg("Registration successful")
	return Transition{Navigate: guard.LoginPath}, nil
}

// Logout forgets the credential and the identity. It makes no network
// call, never fails and may be called any number of times.
func (s *Store) Logout() Transition {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.tokens.DeleteToken(); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to delete credential token")
	}
	s.clear()
	s.setLoading(false)

	return Transition{Navigate: guard.LoginPath}
}
