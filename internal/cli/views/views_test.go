package views

import (
	"bytes"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gymfeetrack/gymfeetrack/internal/cli/client"
	"github.com/gymfeetrack/gymfeetrack/internal/cli/session"
)

func member(isAdmin bool) session.Session {
	return session.Session{
		User:            &client.User{ID: 1, Username: "alice", Email: "alice@example.com"},
		ProfileID:       1,
		IsAuthenticated: true,
		IsAdmin:         isAdmin,
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fields   []string
		expected string
	}{
		{
			name:     "non field error",
			err:      &client.RequestError{StatusCode: 400, Body: []byte(`{"non_field_errors":["Unable to log in with provided credentials."]}`)},
			fields:   []string{"non_field_errors"},
			expected: "Unable to log in with provided credentials.",
		},
		{
			name:     "first listed field wins",
			err:      &client.RequestError{StatusCode: 400, Body: []byte(`{"email":["Enter a valid email address."],"username":["A user with that username already exists."]}`)},
			fields:   []string{"username", "email", "password", "non_field_errors"},
			expected: "Username: A user with that username already exists.",
		},
		{
			name:     "string value",
			err:      &client.RequestError{StatusCode: 400, Body: []byte(`{"detail":"Members can only view payments. Please contact admin for payment."}`)},
			fields:   []string{"detail"},
			expected: "Members can only view payments. Please contact admin for payment.",
		},
		{
			name:     "no matching field",
			err:      &client.RequestError{StatusCode: 500, Body: []byte(`<html>oops</html>`)},
			fields:   []string{"detail"},
			expected: "fallback",
		},
		{
			name:     "network failure",
			err:      &client.RequestError{Err: errors.New("connection refused")},
			fields:   []string{"detail"},
			expected: "Could not reach the GymFeeTrack API. Check api_url and your connection.",
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			expected: "fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ErrorMessage(tt.err, "fallback", tt.fields...))
		})
	}
}

func TestFail(t *testing.T) {
	cause := &client.RequestError{StatusCode: http.StatusForbidden, Body: []byte(`{"detail":"nope"}`)}
	err := Fail(cause, "Failed.", "detail")

	assert.True(t, IsUserError(err))
	assert.EqualError(t, err, "nope")
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsUserError(cause))
}

func TestPlans(t *testing.T) {
	plans := []client.Plan{
		{ID: 1, Name: "Monthly", Price: "499.00", DurationDays: 30, Description: "Gym floor access"},
		{ID: 2, Name: "Annual", Price: "4999.00", DurationDays: 365},
	}

	t.Run("member", func(t *testing.T) {
		var buf bytes.Buffer
		Plans(&buf, plans, false)
		out := buf.String()

		assert.Contains(t, out, "Membership Plans")
		assert.Contains(t, out, "Monthly")
		assert.Contains(t, out, "₹499.00")
		assert.Contains(t, out, "365 days")
		assert.NotContains(t, out, "gymctl plans add")
	})

	t.Run("admin", func(t *testing.T) {
		var buf bytes.Buffer
		Plans(&buf, plans, true)
		assert.Contains(t, buf.String(), "gymctl plans add")
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		Plans(&buf, nil, false)
		assert.Contains(t, buf.String(), "No membership plans found.")
	})
}

func TestMemberDashboard(t *testing.T) {
	plan := &client.Plan{ID: 1, Name: "Monthly"}
	subs := []client.Subscription{
		{ID: 4, Plan: plan, StartDate: "2024-01-01", EndDate: "2024-01-31", Status: "Active", IsActive: false},
		{ID: 5, Plan: nil, StartDate: "2024-02-01", EndDate: "2024-02-29", Status: "Expired"},
	}
	payments := []client.Payment{
		{ID: 9, Amount: "499.00", PaymentDate: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), PaymentMethod: "Cash", Status: "Completed"},
	}

	var buf bytes.Buffer
	MemberDashboard(&buf, member(false), subs, payments)
	out := buf.String()

	assert.Contains(t, out, "Welcome to your Dashboard, alice!")
	assert.Contains(t, out, "Active (lapsed)")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "2024-01-01")
	assert.Contains(t, out, "Cash")
	assert.NotContains(t, out, "/admin")
}

func TestMemberDashboard_Empty(t *testing.T) {
	var buf bytes.Buffer
	MemberDashboard(&buf, member(true), nil, nil)
	out := buf.String()

	assert.Contains(t, out, "You have no active subscriptions.")
	assert.Contains(t, out, "No payment history found.")
	assert.Contains(t, out, "gymctl open /admin")
}

func TestAdminDashboard(t *testing.T) {
	bob := &client.Profile{ID: 2, User: client.User{ID: 2, Username: "bob"}, DateOfJoining: "2024-01-01"}
	sub := client.Subscription{ID: 3, UserProfile: bob, Plan: &client.Plan{Name: "Annual"}, Status: "Pending"}
	payments := []client.Payment{{ID: 1, MemberSubscription: &sub, Amount: "4999.00", PaymentMethod: "Online", Status: "Pending"}}

	var buf bytes.Buffer
	AdminDashboard(&buf, member(true), []client.Profile{*bob}, []client.Subscription{sub}, payments)
	out := buf.String()

	assert.Contains(t, out, "Members (1)")
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, "Annual")
	assert.Contains(t, out, "₹4999.00")
	assert.Contains(t, out, "Online")
}

func TestStatus(t *testing.T) {
	var buf bytes.Buffer
	Status(&buf, session.Session{Loading: true}, "http://x/api/")
	assert.Contains(t, buf.String(), "Loading")

	buf.Reset()
	Status(&buf, session.Session{}, "http://x/api/")
	assert.Contains(t, buf.String(), "Not logged in.")

	buf.Reset()
	Status(&buf, member(true), "http://x/api/")
	assert.Contains(t, buf.String(), "Welcome, alice! (Admin)")
	assert.Contains(t, buf.String(), "/admin")

	buf.Reset()
	Status(&buf, member(false), "http://x/api/")
	assert.Contains(t, buf.String(), "(Member)")
	assert.NotContains(t, buf.String(), "/admin")
}

func TestNotFound(t *testing.T) {
	var buf bytes.Buffer
	NotFound(&buf, "/nowhere")
	assert.Contains(t, buf.String(), "404 - Page Not Found")
	assert.Contains(t, buf.String(), "/nowhere")
}

func TestProfile(t *testing.T) {
	var buf bytes.Buffer
	Profile(&buf, client.Profile{User: client.User{Username: "alice"}, PhoneNumber: "555-0100", IsGymAdmin: true})
	out := buf.String()

	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "555-0100")
	assert.Contains(t, out, "Admin")
}

func TestSubscriptionsAndPayments_Empty(t *testing.T) {
	var buf bytes.Buffer
	Subscriptions(&buf, nil, true)
	Payments(&buf, nil, true)
	assert.Contains(t, buf.String(), "No subscriptions found.")
	assert.Contains(t, buf.String(), "No payment history found.")
}
