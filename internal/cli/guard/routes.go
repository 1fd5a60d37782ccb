package guard

import "strings"

// Client-visible route paths
const (
	RootPath      = "/"
	LoginPath     = "/login"
	RegisterPath  = "/register"
	PlansPath     = "/plans"
	DashboardPath = "/dashboard"
	AdminPath     = "/admin"
	NotFoundPath  = "*"
)

// Route is a static access rule. Public routes skip the guard entirely.
type Route struct {
	Path       string
	Public     bool
	Roles      []Role
	RedirectTo string
}

// Routes is the route table of the client
var Routes = []Route{
	{Path: RootPath, Public: true, RedirectTo: LoginPath},
	{Path: LoginPath, Public: true},
	{Path: RegisterPath, Public: true},
	{Path: PlansPath, Public: true},
	{Path: DashboardPath, Roles: []Role{RoleMember, RoleAdmin}},
	{Path: AdminPath, Roles: []Role{RoleAdmin}},
}

// NotFound is returned by Resolve for unmatched paths
var NotFound = Route{Path: NotFoundPath, Public: true}

// Resolve finds the route for path. Trailing slashes are ignored.
func Resolve(path string) Route {
	if path == "" {
		path = RootPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = RootPath
		}
	}

	for _, r := range Routes {
		if r.Path == path {
			return r
		}
	}
	return NotFound
}

// Outcome is what a navigator should do with a route
type Outcome struct {
	Route   Route
	Verdict Verdict
	// Target is set for redirects
	Target string
}

// Evaluate resolves path and applies Decide when the route is protected.
// Static redirects (such as / to /login) are reported as RedirectDefault
// with their target.
func Evaluate(s State, path string) Outcome {
	r := Resolve(path)

	if r.RedirectTo != "" {
		return Outcome{Route: r, Verdict: RedirectDefault, Target: r.RedirectTo}
	}
	if r.Public {
		return Outcome{Route: r, Verdict: Allow}
	}

	v := Decide(s, r.Roles)
	out := Outcome{Route: r, Verdict: v}
	switch v {
	case RedirectLogin:
		out.Target = LoginPath
	case RedirectDefault:
		out.Target = DashboardPath
	}
	return out
}
