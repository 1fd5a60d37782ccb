package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/gymfeetrack/gymfeetrack/internal/cli/auth"
	"github.com/gymfeetrack/gymfeetrack/internal/cli/client"
	"github.com/gymfeetrack/gymfeetrack/internal/cli/config"
	"github.com/gymfeetrack/gymfeetrack/internal/cli/guard"
	"github.com/gymfeetrack/gymfeetrack/internal/cli/session"
	"github.com/gymfeetrack/gymfeetrack/internal/cli/views"
	"github.com/gymfeetrack/gymfeetrack/internal/logger"
)

// maxRedirects bounds guard redirects for a single navigation
const maxRedirects = 5

// App carries the state shared by every gymctl command
type App struct {
	cfg         *config.Config
	tokens      auth.TokenStore
	out         io.Writer
	logOut      io.Writer
	interactive bool

	logger  zerolog.Logger
	api     *client.Client
	session *session.Store
}

// Option configures an App
type Option func(*App)

// WithConfig uses cfg instead of loading the user config file
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.cfg = cfg
	}
}

// WithTokenStore overrides the token store selected by the config
func WithTokenStore(tokens auth.TokenStore) Option {
	return func(a *App) {
		a.tokens = tokens
	}
}

// WithOutput redirects rendered pages
func WithOutput(out io.Writer) Option {
	return func(a *App) {
		a.out = out
	}
}

// WithLogOutput redirects log lines (stderr by default)
func WithLogOutput(out io.Writer) Option {
	return func(a *App) {
		a.logOut = out
	}
}

// WithInteractive forces prompting on or off
func WithInteractive(interactive bool) Option {
	return func(a *App) {
		a.interactive = interactive
	}
}

// NewApp returns an App; nothing is loaded until a command runs
func NewApp(opts ...Option) *App {
	a := &App{
		out:         os.Stdout,
		logOut:      os.Stderr,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init loads the config, builds the API client and resolves the session.
// It is safe to call more than once.
func (a *App) Init(ctx context.Context) error {
	if a.session != nil {
		return nil
	}

	if err := a.loadConfig(); err != nil {
		return err
	}

	logger.Init(a.cfg.LogLevel, a.cfg.LogFormat, a.logOut)
	a.logger = logger.GetLogger()

	if a.tokens == nil {
		tokenPath, err := config.TokenPath()
		if err != nil {
			return err
		}
		tokens, err := auth.NewStore(a.cfg.TokenStore, tokenPath)
		if err != nil {
			return err
		}
		a.tokens = tokens
	}

	opts := []client.Option{client.WithLogger(a.logger)}
	if a.cfg.Timeout > 0 {
		opts = append(opts, client.WithTimeout(a.cfg.Timeout))
	}
	api, err := client.New(a.cfg.APIURL, a.tokens, opts...)
	if err != nil {
		return err
	}
	a.api = api
	a.session = session.New(api, a.tokens, a.logger)

	return a.session.CheckStatus(ctx)
}

func (a *App) loadConfig() error {
	if a.cfg != nil {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w\nRun 'gymctl config path' to locate the config file", err)
	}
	a.cfg = cfg
	return nil
}

// Navigate shows path, following guard redirects
func (a *App) Navigate(ctx context.Context, path string) error {
	for hops := 0; hops < maxRedirects; hops++ {
		snap := a.session.Snapshot()
		outcome := guard.Evaluate(snap.State(), path)

		switch outcome.Verdict {
		case guard.Defer:
			views.Loading(a.out)
			return nil
		case guard.RedirectLogin:
			fmt.Fprintf(a.out, "Please log in to view %s.\n\n", outcome.Route.Path)
			path = outcome.Target
		case guard.RedirectDefault:
			if outcome.Route.RedirectTo == "" {
				fmt.Fprintf(a.out, "You do not have access to %s.\n\n", outcome.Route.Path)
			}
			path = outcome.Target
		case guard.Allow:
			return a.render(ctx, outcome.Route, path, snap)
		}
	}
	return fmt.Errorf("too many redirects while opening %s", path)
}

func (a *App) render(ctx context.Context, route guard.Route, path string, snap session.Session) error {
	switch route.Path {
	case guard.LoginPath:
		views.Login(a.out)
	case guard.RegisterPath:
		views.Register(a.out)
	case guard.PlansPath:
		plans, err := a.api.ListPlans(ctx)
		if err != nil {
			return a.fail(err, "Failed to load membership plans.", "detail")
		}
		views.Plans(a.out, plans, snap.IsAdmin)
	case guard.DashboardPath:
		subs, err := a.api.ListSubscriptions(ctx)
		if err != nil {
			return a.fail(err, "Failed to load your data. Please try again.", "detail")
		}
		payments, err := a.api.ListPayments(ctx)
		if err != nil {
			return a.fail(err, "Failed to load your data. Please try again.", "detail")
		}
		views.MemberDashboard(a.out, snap, subs, payments)
	case guard.AdminPath:
		profiles, err := a.api.ListProfiles(ctx)
		if err != nil {
			return a.fail(err, "Failed to load gym data. Please try again.", "detail")
		}
		subs, err := a.api.ListSubscriptions(ctx)
		if err != nil {
			return a.fail(err, "Failed to load gym data. Please try again.", "detail")
		}
		payments, err := a.api.ListPayments(ctx)
		if err != nil {
			return a.fail(err, "Failed to load gym data. Please try again.", "detail")
		}
		views.AdminDashboard(a.out, snap, profiles, subs, payments)
	default:
		views.NotFound(a.out, path)
	}
	return nil
}

// fail maps err to a terminal message. A rejected credential has already
// been removed by the client, so the user is told to log in again.
func (a *App) fail(err error, fallback string, fields ...string) error {
	if client.IsKind(err, client.AuthFailure) {
		return &views.UserError{Msg: "Your session has expired. Please run 'gymctl login' again.", Err: err}
	}
	return views.Fail(err, fallback, fields...)
}

// requireAdmin rejects members before any admin-only request is sent
func (a *App) requireAdmin() error {
	snap := a.session.Snapshot()
	if !snap.IsAuthenticated {
		return auth.ErrNotAuthenticated
	}
	if !snap.IsAdmin {
		return fmt.Errorf("this action is only available to gym admins")
	}
	return nil
}

// requireLogin rejects anonymous sessions
func (a *App) requireLogin() error {
	if !a.session.Snapshot().IsAuthenticated {
		return auth.ErrNotAuthenticated
	}
	return nil
}
