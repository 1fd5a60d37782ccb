package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// DateLayout is the wire and storage format of calendar dates
const DateLayout = "2006-01-02"

// Subscription statuses
const (
	StatusActive    = "Active"
	StatusExpired   = "Expired"
	StatusPending   = "Pending"
	StatusCancelled = "Cancelled"
)

// Payment methods
const (
	MethodCash   = "Cash"
	MethodOnline = "Online"
	MethodCard   = "Card"
)

// Payment statuses
const (
	PaymentCompleted = "Completed"
	PaymentPending   = "Pending"
	PaymentFailed    = "Failed"
)

// Config is the singleton server configuration row
type Config struct {
	ID        uint      `gorm:"primaryKey"`
	JWTSecret string    `gorm:"type:varchar(64);not null"` // Auto-generated on first setup (64 hex chars)
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// User is an account that can log in
type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex;not null"`
	Email        string    `gorm:"type:varchar(254)"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`

	// Set by AfterCreate
	Profile *UserProfile `gorm:"-"`
	// IsGymAdmin is copied onto the profile AfterCreate creates
	IsGymAdmin bool `gorm:"-"`
}

// AfterCreate gives every new user a member profile
func (u *User) AfterCreate(tx *gorm.DB) error {
	profile := &UserProfile{
		UserID:        u.ID,
		IsGymAdmin:    u.IsGymAdmin,
		DateOfJoining: time.Now().Format(DateLayout),
	}
	if err := tx.Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	u.Profile = profile
	return nil
}

// UserProfile holds the gym-specific data of a user
type UserProfile struct {
	ID            uint   `gorm:"primaryKey"`
	UserID        uint   `gorm:"uniqueIndex;not null"`
	User          User   `gorm:"constraint:OnDelete:CASCADE"`
	IsGymAdmin    bool   `gorm:"not null;default:false"`
	PhoneNumber   string `gorm:"type:varchar(10)"`
	Address       string `gorm:"type:text"`
	DateOfJoining string `gorm:"type:varchar(10)"`
}

// MembershipPlan is a purchasable plan. Prices are stored in paise.
type MembershipPlan struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"type:varchar(100);uniqueIndex;not null"`
	PriceCents   int64  `gorm:"not null"`
	DurationDays int    `gorm:"not null"`
	Description  string `gorm:"type:text"`
}

// MemberSubscription ties a profile to a plan for a date range. PlanID is
// cleared when the plan is deleted.
type MemberSubscription struct {
	ID            uint            `gorm:"primaryKey"`
	UserProfileID uint            `gorm:"index;not null"`
	UserProfile   UserProfile     `gorm:"constraint:OnDelete:CASCADE"`
	PlanID        *uint           `gorm:"index"`
	Plan          *MembershipPlan `gorm:"constraint:OnDelete:SET NULL"`
	StartDate     string          `gorm:"type:varchar(10);not null"`
	EndDate       string          `gorm:"type:varchar(10);not null"`
	Status        string          `gorm:"type:varchar(20);not null;default:Active"`
	CreatedAt     time.Time       `gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime"`
}

// IsActive reports whether the subscription is Active and has not ended
// before today
func (s *MemberSubscription) IsActive(now time.Time) bool {
	return s.Status == StatusActive && s.EndDate >= now.Format(DateLayout)
}

// Payment is money received against a subscription
type Payment struct {
	ID                   uint               `gorm:"primaryKey"`
	MemberSubscriptionID uint               `gorm:"index;not null"`
	MemberSubscription   MemberSubscription `gorm:"constraint:OnDelete:CASCADE"`
	AmountCents          int64              `gorm:"not null"`
	PaymentDate          time.Time          `gorm:"autoCreateTime"`
	PaymentMethod        string             `gorm:"type:varchar(50);not null"`
	TransactionID        string             `gorm:"type:varchar(255)"`
	Status               string             `gorm:"type:varchar(20);not null;default:Completed"`
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Config{},
		&User{},
		&UserProfile{},
		&MembershipPlan{},
		&MemberSubscription{},
		&Payment{},
	)
}

// MaxMoneyDigits bounds the whole part of an amount; with two decimal
// places that is eight digits in total.
const MaxMoneyDigits = 6

// ErrMoneyTooLarge is returned for amounts with more than eight digits
var ErrMoneyTooLarge = errors.New("amount has more than 8 digits")

// ParseMoney converts a decimal string such as "499.5" into paise. Only
// ASCII digits and one dot are accepted.
func ParseMoney(s string) (int64, error) {
	s = strings.TrimSpace(s)
	whole, frac, hasFrac := strings.Cut(s, ".")
	if s == "" || !allDigits(whole) || !allDigits(frac) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if hasFrac && (len(frac) == 0 || len(frac) > 2) {
		return 0, fmt.Errorf("invalid amount %q: at most 2 decimal places", s)
	}

	whole = strings.TrimLeft(whole, "0")
	if len(whole) > MaxMoneyDigits {
		return 0, fmt.Errorf("invalid amount %q: %w", s, ErrMoneyTooLarge)
	}
	if whole == "" {
		whole = "0"
	}
	for len(frac) < 2 {
		frac += "0"
	}

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return w*100 + f, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatMoney renders paise as a decimal string with two places
func FormatMoney(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
