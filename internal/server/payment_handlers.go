package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gymfeetrack/gymfeetrack/internal/auth"
	"github.com/gymfeetrack/gymfeetrack/internal/models"
)

// PaymentRequest records or edits a payment (admin only)
type PaymentRequest struct {
	MemberSubscriptionID *uint       `json:"member_subscription_id"`
	Amount               *FlexString `json:"amount"`
	PaymentMethod        *string     `json:"payment_method" validate:"omitempty,oneof=Cash Online Card"`
	TransactionID        *string     `json:"transaction_id" validate:"omitempty,max=255"`
	Status               *string     `json:"status" validate:"omitempty,oneof=Completed Pending Failed"`
}

func (s *Server) applyPayment(req PaymentRequest, payment *models.Payment, partial bool) (FieldErrors, error) {
	errs := FieldErrors{}

	switch {
	case req.MemberSubscriptionID != nil:
		var count int64
		if err := s.db.Model(&models.MemberSubscription{}).Where("id = ?", *req.MemberSubscriptionID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			errs.Add("member_subscription_id", invalidPK(*req.MemberSubscriptionID))
		} else {
			payment.MemberSubscriptionID = *req.MemberSubscriptionID
		}
	case !partial:
		errs.Add("member_subscription_id", "This field is required.")
	}

	switch {
	case req.Amount != nil:
		cents, err := models.ParseMoney(string(*req.Amount))
		if err != nil {
			errs.Add("amount", moneyMessage(err))
		} else {
			payment.AmountCents = cents
		}
	case !partial:
		errs.Add("amount", "This field is required.")
	}

	switch {
	case req.PaymentMethod != nil && *req.PaymentMethod != "":
		payment.PaymentMethod = *req.PaymentMethod
	case !partial:
		errs.Add("payment_method", "This field is required.")
	}

	if req.TransactionID != nil {
		payment.TransactionID = *req.TransactionID
	}
	if req.Status != nil && *req.Status != "" {
		payment.Status = *req.Status
	} else if payment.Status == "" {
		payment.Status = models.PaymentCompleted
	}

	if len(errs) == 0 {
		return nil, nil
	}
	return errs, nil
}

// paymentScope limits members to payments on their own subscriptions
func (s *Server) paymentScope(session *auth.SessionData) *gorm.DB {
	q := s.db.Model(&models.Payment{}).
		Preload("MemberSubscription.UserProfile.User").
		Preload("MemberSubscription.Plan")
	if !session.IsGymAdmin {
		q = q.Where("member_subscription_id IN (?)",
			s.db.Model(&models.MemberSubscription{}).Select("id").Where("user_profile_id = ?", session.ProfileID))
	}
	return q
}

func (s *Server) findPayment(c *gin.Context) (*models.Payment, bool) {
	id, ok := paramID(c)
	if !ok {
		return nil, false
	}
	session, _ := GetSessionData(c)

	var payment models.Payment
	if err := s.paymentScope(session).First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondDetail(c, http.StatusNotFound, msgNotFound)
			return nil, false
		}
		s.respondInternal(c, err, "Failed to load payment")
		return nil, false
	}
	return &payment, true
}

// @Summary List payments
// @Description Members see payments on their own subscriptions; admins see all
// @Tags payments
// @Router /api/payments/ [get]
func (s *Server) listPayments(c *gin.Context) {
	session, _ := GetSessionData(c)

	var payments []models.Payment
	if err := s.paymentScope(session).Order("payment_date DESC, id DESC").Find(&payments).Error; err != nil {
		s.respondInternal(c, err, "Failed to list payments")
		return
	}

	out := make([]*PaymentDetail, 0, len(payments))
	for _, p := range payments {
		out = append(out, s.paymentDetail(p))
	}
	c.JSON(http.StatusOK, out)
}

// @Summary Record payment
// @Description Admin only; members are refused with a readable message
// @Tags payments
// @Router /api/payments/ [post]
func (s *Server) createPayment(c *gin.Context) {
	session, _ := GetSessionData(c)

	var req PaymentRequest
	if !s.bind(c, &req) {
		return
	}

	var payment models.Payment
	errs, err := s.applyPayment(req, &payment, false)
	if err != nil {
		s.respondInternal(c, err, "Failed to validate payment")
		return
	}
	if errs != nil {
		respondFieldErrors(c, errs)
		return
	}

	if !session.IsGymAdmin {
		respondDetail(c, http.StatusForbidden, msgMemberPayment)
		return
	}

	s.savePayment(c, &payment, http.StatusCreated)
}

func (s *Server) getPayment(c *gin.Context) {
	payment, ok := s.findPayment(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.paymentDetail(*payment))
}

func (s *Server) updatePayment(c *gin.Context) {
	payment, ok := s.findPayment(c)
	if !ok {
		return
	}

	var req PaymentRequest
	if !s.bind(c, &req) {
		return
	}

	errs, err := s.applyPayment(req, payment, c.Request.Method == http.MethodPatch)
	if err != nil {
		s.respondInternal(c, err, "Failed to validate payment")
		return
	}
	if errs != nil {
		respondFieldErrors(c, errs)
		return
	}

	s.savePayment(c, payment, http.StatusOK)
}

func (s *Server) savePayment(c *gin.Context, payment *models.Payment, status int) {
	if err := s.db.Omit(clause.Associations).Save(payment).Error; err != nil {
		s.respondInternal(c, err, "Failed to save payment")
		return
	}

	var saved models.Payment
	err := s.db.Preload("MemberSubscription.UserProfile.User").
		Preload("MemberSubscription.Plan").
		First(&saved, payment.ID).Error
	if err != nil {
		s.respondInternal(c, err, "Failed to reload payment")
		return
	}

	s.logger.Info().
		Uint("payment_id", saved.ID).
		Uint("subscription_id", saved.MemberSubscriptionID).
		Str("amount", models.FormatMoney(saved.AmountCents)).
		Msg("Payment saved")
	c.JSON(status, s.paymentDetail(saved))
}

func (s *Server) deletePayment(c *gin.Context) {
	payment, ok := s.findPayment(c)
	if !ok {
		return
	}

	if err := s.db.Delete(&models.Payment{}, payment.ID).Error; err != nil {
		s.respondInternal(c, err, "Failed to delete payment")
		return
	}

	s.logger.Info().Uint("payment_id", payment.ID).Msg("Payment deleted")
	c.Status(http.StatusNoContent)
}
