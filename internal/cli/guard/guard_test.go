package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	admin := []Role{RoleAdmin}
	members := []Role{RoleMember, RoleAdmin}

	tests := []struct {
		name  string
		state State
		roles []Role
		want  Verdict
	}{
		{"anonymous admin route", State{}, admin, RedirectLogin},
		{"member on admin route", State{IsAuthenticated: true}, admin, RedirectDefault},
		{"admin on admin route", State{IsAuthenticated: true, IsAdmin: true}, admin, Allow},
		{"member on dashboard", State{IsAuthenticated: true}, members, Allow},
		{"anonymous dashboard", State{}, members, RedirectLogin},
		{"loading admin route", State{Loading: true}, admin, Defer},
		{"loading while authenticated", State{Loading: true, IsAuthenticated: true, IsAdmin: true}, members, Defer},
		{"loading no roles", State{Loading: true}, nil, Defer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.state, tt.roles))
		})
	}
}

func TestResolve(t *testing.T) {
	assert.Equal(t, LoginPath, Resolve("/login").Path)
	assert.Equal(t, DashboardPath, Resolve("dashboard/").Path)
	assert.Equal(t, RootPath, Resolve("").Path)
	assert.Equal(t, RootPath, Resolve("///").Path)
	assert.Equal(t, NotFoundPath, Resolve("/billing").Path)
	assert.Equal(t, []Role{RoleAdmin}, Resolve("/admin").Roles)
}

func TestEvaluate(t *testing.T) {
	member := State{IsAuthenticated: true}

	out := Evaluate(State{}, "/")
	assert.Equal(t, RedirectDefault, out.Verdict)
	assert.Equal(t, LoginPath, out.Target)

	out = Evaluate(State{}, "/plans")
	assert.Equal(t, Allow, out.Verdict)

	out = Evaluate(State{}, "/admin")
	assert.Equal(t, RedirectLogin, out.Verdict)
	assert.Equal(t, LoginPath, out.Target)

	out = Evaluate(member, "/admin")
	assert.Equal(t, RedirectDefault, out.Verdict)
	assert.Equal(t, DashboardPath, out.Target)

	out = Evaluate(State{Loading: true}, "/dashboard")
	assert.Equal(t, Defer, out.Verdict)
	assert.Empty(t, out.Target)

	out = Evaluate(member, "/nowhere")
	assert.Equal(t, Allow, out.Verdict)
	assert.Equal(t, NotFoundPath, out.Route.Path)
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "defer", Defer.String())
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "unknown", Verdict(42).String())
}
