package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gymfeetrack/gymfeetrack/internal/auth"
	"github.com/gymfeetrack/gymfeetrack/internal/models"
)

// SubscriptionRequest creates or edits a subscription. UserProfileID is
// honoured for admins only; members always act on their own profile.
type SubscriptionRequest struct {
	UserProfileID *uint   `json:"user_profile_id"`
	PlanID        *uint   `json:"plan_id"`
	StartDate     *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate       *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Status        *string `json:"status" validate:"omitempty,oneof=Active Expired Pending Cancelled"`
}

func invalidPK(id uint) string {
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
}

// subscriptionScope limits members to their own subscriptions
func (s *Server) subscriptionScope(session *auth.SessionData) *gorm.DB {
	q := s.db.Model(&models.MemberSubscription{}).
		Preload("UserProfile.User").
		Preload("Plan")
	if !session.IsGymAdmin {
		q = q.Where("user_profile_id = ?", session.ProfileID)
	}
	return q
}

func (s *Server) findSubscription(c *gin.Context) (*models.MemberSubscription, bool) {
	id, ok := paramID(c)
	if !ok {
		return nil, false
	}
	session, _ := GetSessionData(c)

	var sub models.MemberSubscription
	if err := s.subscriptionScope(session).First(&sub, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondDetail(c, http.StatusNotFound, msgNotFound)
			return nil, false
		}
		s.respondInternal(c, err, "Failed to load subscription")
		return nil, false
	}
	return &sub, true
}

// apply validates req onto sub. partial allows missing fields.
func (s *Server) applySubscription(req SubscriptionRequest, sub *models.MemberSubscription, session *auth.SessionData, partial bool) (FieldErrors, error) {
	errs := FieldErrors{}

	if req.UserProfileID != nil && session.IsGymAdmin {
		var count int64
		if err := s.db.Model(&models.UserProfile{}).Where("id = ?", *req.UserProfileID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			errs.Add("user_profile_id", invalidPK(*req.UserProfileID))
		} else {
			sub.UserProfileID = *req.UserProfileID
		}
	} else if sub.UserProfileID == 0 {
		sub.UserProfileID = session.ProfileID
	}

	switch {
	case req.PlanID != nil:
		var plan models.MembershipPlan
		err := s.db.First(&plan, *req.PlanID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			errs.Add("plan_id", invalidPK(*req.PlanID))
		case err != nil:
			return nil, err
		default:
			sub.PlanID = &plan.ID
		}
	case !partial:
		errs.Add("plan_id", "This field is required.")
	}

	if req.StartDate != nil {
		sub.StartDate = *req.StartDate
	} else if !partial {
		errs.Add("start_date", "This field is required.")
	}
	if req.EndDate != nil {
		sub.EndDate = *req.EndDate
	} else if !partial {
		errs.Add("end_date", "This field is required.")
	}

	if req.Status != nil {
		sub.Status = *req.Status
	} else if sub.Status == "" {
		sub.Status = models.StatusActive
	}

	if len(errs) == 0 && sub.EndDate < sub.StartDate {
		errs.Add(nonFieldErrors, "End date must not be before start date.")
	}

	if len(errs) == 0 {
		return nil, nil
	}
	return errs, nil
}

// @Summary List subscriptions
// @Description Members see their own; admins see all
// @Tags subscriptions
// @Router /api/subscriptions/ [get]
func (s *Server) listSubscriptions(c *gin.Context) {
	session, _ := GetSessionData(c)

	var subs []models.MemberSubscription
	if err := s.subscriptionScope(session).Order("id").Find(&subs).Error; err != nil {
		s.respondInternal(c, err, "Failed to list subscriptions")
		return
	}

	out := make([]*SubscriptionDetail, 0, len(subs))
	for _, sub := range subs {
		out = append(out, s.subscriptionDetail(sub))
	}
	c.JSON(http.StatusOK, out)
}

// @Summary Create subscription
// @Tags subscriptions
// @Router /api/subscriptions/ [post]
func (s *Server) createSubscription(c *gin.Context) {
	session, _ := GetSessionData(c)

	var req SubscriptionRequest
	if !s.bind(c, &req) {
		return
	}

	var sub models.MemberSubscription
	errs, err := s.applySubscription(req, &sub, session, false)
	if err != nil {
		s.respondInternal(c, err, "Failed to validate subscription")
		return
	}
	if errs != nil {
		respondFieldErrors(c, errs)
		return
	}

	s.saveSubscription(c, &sub, http.StatusCreated)
}

func (s *Server) getSubscription(c *gin.Context) {
	sub, ok := s.findSubscription(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.subscriptionDetail(*sub))
}

func (s *Server) updateSubscription(c *gin.Context) {
	sub, ok := s.findSubscription(c)
	if !ok {
		return
	}
	session, _ := GetSessionData(c)

	var req SubscriptionRequest
	if !s.bind(c, &req) {
		return
	}

	errs, err := s.applySubscription(req, sub, session, c.Request.Method == http.MethodPatch)
	if err != nil {
		s.respondInternal(c, err, "Failed to validate subscription")
		return
	}
	if errs != nil {
		respondFieldErrors(c, errs)
		return
	}

	s.saveSubscription(c, sub, http.StatusOK)
}

func (s *Server) saveSubscription(c *gin.Context, sub *models.MemberSubscription, status int) {
	if err := s.db.Omit(clause.Associations).Save(sub).Error; err != nil {
		s.respondInternal(c, err, "Failed to save subscription")
		return
	}

	var saved models.MemberSubscription
	if err := s.db.Preload("UserProfile.User").Preload("Plan").First(&saved, sub.ID).Error; err != nil {
		s.respondInternal(c, err, "Failed to reload subscription")
		return
	}

	s.logger.Info().Uint("subscription_id", saved.ID).Uint("profile_id", saved.UserProfileID).Str("status", saved.Status).Msg("Subscription saved")
	c.JSON(status, s.subscriptionDetail(saved))
}

func (s *Server) deleteSubscription(c *gin.Context) {
	sub, ok := s.findSubscription(c)
	if !ok {
		return
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("member_subscription_id = ?", sub.ID).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.MemberSubscription{}, sub.ID).Error
	})
	if err != nil {
		s.respondInternal(c, err, "Failed to delete subscription")
		return
	}

	s.logger.Info().Uint("subscription_id", sub.ID).Msg("Subscription deleted")
	c.Status(http.StatusNoContent)
}
