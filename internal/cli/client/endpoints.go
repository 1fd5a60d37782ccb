package client

import (
	"context"
	"fmt"
)

// ObtainToken exchanges credentials for a credential token
func (c *Client) ObtainToken(ctx context.Context, username, password string) (string, error) {
	var resp TokenResponse
	if err := c.Post(ctx, "token/", Credentials{Username: username, Password: password}, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("token response did not contain a token")
	}
	return resp.Token, nil
}

// Me returns the profile of the authenticated caller
func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.Get(ctx, "me/", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Register creates a new member account. It does not log in.
func (c *Client) Register(ctx context.Context, username, email, password string) (*User, error) {
	var user User
	req := RegisterRequest{Username: username, Email: email, Password: password}
	if err := c.Post(ctx, "register/", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile edits the caller's own profile
func (c *Client) UpdateProfile(ctx context.Context, profileID int, update ProfileUpdate) (*Profile, error) {
	var profile Profile
	if err := c.Put(ctx, fmt.Sprintf("profiles/%d/", profileID), update, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListProfiles returns every member profile (admin only)
func (c *Client) ListProfiles(ctx context.Context) ([]Profile, error) {
	var profiles []Profile
	if err := c.Get(ctx, "admin/profiles/", &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// ListPlans returns all membership plans. No credential is required.
func (c *Client) ListPlans(ctx context.Context) ([]Plan, error) {
	var plans []Plan
	if err := c.Get(ctx, "plans/", &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// GetPlan returns a single plan (admin only)
func (c *Client) GetPlan(ctx context.Context, planID int) (*Plan, error) {
	var plan Plan
	if err := c.Get(ctx, fmt.Sprintf("plans/%d/", planID), &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// CreatePlan adds a membership plan (admin only)
func (c *Client) CreatePlan(ctx context.Context, input PlanInput) (*Plan, error) {
	var plan Plan
	if err := c.Post(ctx, "plans/", input, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// UpdatePlan replaces a membership plan (admin only)
func (c *Client) UpdatePlan(ctx context.Context, planID int, input PlanInput) (*Plan, error) {
	var plan Plan
	if err := c.Put(ctx, fmt.Sprintf("plans/%d/", planID), input, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// DeletePlan removes a membership plan (admin only)
func (c *Client) DeletePlan(ctx context.Context, planID int) error {
	return c.Delete(ctx, fmt.Sprintf("plans/%d/", planID))
}

// ListSubscriptions returns the caller's subscriptions, or all of them for admins
func (c *Client) ListSubscriptions(ctx context.Context) ([]Subscription, error) {
	var subs []Subscription
	if err := c.Get(ctx, "subscriptions/", &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// CreateSubscription subscribes a member to a plan
func (c *Client) CreateSubscription(ctx context.Context, input SubscriptionInput) (*Subscription, error) {
	var sub Subscription
	if err := c.Post(ctx, "subscriptions/", input, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// DeleteSubscription removes a subscription
func (c *Client) DeleteSubscription(ctx context.Context, subscriptionID int) error {
	return c.Delete(ctx, fmt.Sprintf("subscriptions/%d/", subscriptionID))
}

// ListPayments returns the caller's payments, or all of them for admins
func (c *Client) ListPayments(ctx context.Context) ([]Payment, error) {
	var payments []Payment
	if err := c.Get(ctx, "payments/", &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// CreatePayment records a payment (admin only)
func (c *Client) CreatePayment(ctx context.Context, input PaymentInput) (*Payment, error) {
	var payment Payment
	if err := c.Post(ctx, "payments/", input, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}
