package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gymfeetrack/gymfeetrack/internal/models"
)

// UserDetail is the public part of an account
type UserDetail struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ProfileDetail is a member profile with its user nested
type ProfileDetail struct {
	ID            uint       `json:"id"`
	User          UserDetail `json:"user"`
	PhoneNumber   string     `json:"phone_number"`
	Address       string     `json:"address"`
	DateOfJoining string     `json:"date_of_joining"`
	IsGymAdmin    bool       `json:"is_gym_admin"`
}

// PlanDetail is a membership plan; price is a two-place decimal string
type PlanDetail struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Price        string `json:"price"`
	DurationDays int    `json:"duration_days"`
	Description  string `json:"description"`
}

// SubscriptionDetail nests the profile and plan (nil once the plan is deleted)
type SubscriptionDetail struct {
	ID          uint           `json:"id"`
	UserProfile *ProfileDetail `json:"user_profile"`
	Plan        *PlanDetail    `json:"plan"`
	StartDate   string         `json:"start_date"`
	EndDate     string         `json:"end_date"`
	Status      string         `json:"status"`
	IsActive    bool           `json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// PaymentDetail nests the subscription it pays for
type PaymentDetail struct {
	ID                 uint                `json:"id"`
	MemberSubscription *SubscriptionDetail `json:"member_subscription"`
	Amount             string              `json:"amount"`
	PaymentDate        time.Time           `json:"payment_date"`
	PaymentMethod      string              `json:"payment_method"`
	TransactionID      string              `json:"transaction_id"`
	Status             string              `json:"status"`
}

func userDetail(u models.User) UserDetail {
	return UserDetail{ID: u.ID, Username: u.Username, Email: u.Email}
}

func profileDetail(p models.UserProfile) *ProfileDetail {
	return &ProfileDetail{
		ID:            p.ID,
		User:          userDetail(p.User),
		PhoneNumber:   p.PhoneNumber,
		Address:       p.Address,
		DateOfJoining: p.DateOfJoining,
		IsGymAdmin:    p.IsGymAdmin,
	}
}

func planDetail(p models.MembershipPlan) *PlanDetail {
	return &PlanDetail{
		ID:           p.ID,
		Name:         p.Name,
		Price:        models.FormatMoney(p.PriceCents),
		DurationDays: p.DurationDays,
		Description:  p.Description,
	}
}

func (s *Server) subscriptionDetail(sub models.MemberSubscription) *SubscriptionDetail {
	out := &SubscriptionDetail{
		ID:          sub.ID,
		UserProfile: profileDetail(sub.UserProfile),
		StartDate:   sub.StartDate,
		EndDate:     sub.EndDate,
		Status:      sub.Status,
		IsActive:    sub.IsActive(s.now()),
		CreatedAt:   sub.CreatedAt,
		UpdatedAt:   sub.UpdatedAt,
	}
	if sub.Plan != nil {
		out.Plan = planDetail(*sub.Plan)
	}
	return out
}

func (s *Server) paymentDetail(p models.Payment) *PaymentDetail {
	return &PaymentDetail{
		ID:                 p.ID,
		MemberSubscription: s.subscriptionDetail(p.MemberSubscription),
		Amount:             models.FormatMoney(p.AmountCents),
		PaymentDate:        p.PaymentDate,
		PaymentMethod:      p.PaymentMethod,
		TransactionID:      p.TransactionID,
		Status:             p.Status,
	}
}

// paramID parses the :id path parameter; unknown or malformed IDs are 404s
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondDetail(c, http.StatusNotFound, msgNotFound)
		return 0, false
	}
	return uint(id), true
}
