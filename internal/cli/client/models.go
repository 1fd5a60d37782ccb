package client

import "time"

// User is the account identity returned by the API
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Profile is a gym member profile. GET me/ returns the caller's profile.
type Profile struct {
	ID            int    `json:"id"`
	User          User   `json:"user"`
	PhoneNumber   string `json:"phone_number"`
	Address       string `json:"address"`
	DateOfJoining string `json:"date_of_joining"`
	IsGymAdmin    bool   `json:"is_gym_admin"`
}

// Plan represents a membership plan. Price is a decimal string such as "499.00".
type Plan struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Price        string `json:"price"`
	DurationDays int    `json:"duration_days"`
	Description  string `json:"description"`
}

// Subscription is a member's subscription to a plan. Plan is nil when the
// plan was deleted after the subscription was created.
type Subscription struct {
	ID          int       `json:"id"`
	UserProfile *Profile  `json:"user_profile"`
	Plan        *Plan     `json:"plan"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	Status      string    `json:"status"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Payment records money received against a subscription
type Payment struct {
	ID                 int           `json:"id"`
	MemberSubscription *Subscription `json:"member_subscription"`
	Amount             string        `json:"amount"`
	PaymentDate        time.Time     `json:"payment_date"`
	PaymentMethod      string        `json:"payment_method"`
	TransactionID      string        `json:"transaction_id"`
	Status             string        `json:"status"`
}

// Credentials is the token request body
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the token endpoint response
type TokenResponse struct {
	Token string `json:"token"`
}

// RegisterRequest is the account creation body
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PlanInput creates or replaces a plan
type PlanInput struct {
	Name         string `json:"name"`
	Price        string `json:"price"`
	DurationDays int    `json:"duration_days"`
	Description  string `json:"description,omitempty"`
}

// SubscriptionInput creates a subscription. UserProfileID is honoured for
// admins only; members always subscribe themselves.
type SubscriptionInput struct {
	UserProfileID int    `json:"user_profile_id,omitempty"`
	PlanID        int    `json:"plan_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Status        string `json:"status,omitempty"`
}

// PaymentInput records a payment (admin only)
type PaymentInput struct {
	MemberSubscriptionID int    `json:"member_subscription_id"`
	Amount               string `json:"amount"`
	PaymentMethod        string `json:"payment_method"`
	TransactionID        string `json:"transaction_id,omitempty"`
	Status               string `json:"status,omitempty"`
}

// ProfileUpdate edits the contact fields of a profile
type ProfileUpdate struct {
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}
