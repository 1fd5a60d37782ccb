// Package guard decides whether a route may be shown for the current
// session. It holds no state and performs no navigation itself.
package guard

// Role is a coarse privilege tag
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// Verdict is the outcome of an access decision
type Verdict int

const (
	// Defer means the session is still loading; show a neutral loading
	// state and make no navigation decision yet.
	Defer Verdict = iota
	// RedirectLogin sends an anonymous user to the login page
	RedirectLogin
	// RedirectDefault sends an authenticated user without the required
	// privilege to their own landing page
	RedirectDefault
	// Allow renders the route
	Allow
)

func (v Verdict) String() string {
	switch v {
	case Defer:
		return "defer"
	case RedirectLogin:
		return "redirect-login"
	case RedirectDefault:
		return "redirect-default"
	case Allow:
		return "allow"
	default:
		return "unknown"
	}
}

// State is the part of a session the guard looks at
type State struct {
	Loading         bool
	IsAuthenticated bool
	IsAdmin         bool
}

// Decide maps a session state and a route's required roles to a verdict.
// A nil or empty role set still requires authentication; public routes
// never reach Decide.
func Decide(s State, roles []Role) Verdict {
	if s.Loading {
		return Defer
	}
	if !s.IsAuthenticated {
		return RedirectLogin
	}
	if hasRole(roles, RoleAdmin) && !s.IsAdmin {
		return RedirectDefault
	}
	return Allow
}

func hasRole(roles []Role, want Role) bool {
	for _, r := range roles {
		if r == want {
			return true
		}
	}
	return false
}
