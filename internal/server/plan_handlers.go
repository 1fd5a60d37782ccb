package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gymfeetrack/gymfeetrack/internal/models"
)

// PlanRequest creates or replaces a plan. PATCH may omit fields.
type PlanRequest struct {
	Name         *string     `json:"name" validate:"omitempty,max=100"`
	Price        *FlexString `json:"price"`
	DurationDays *FlexString `json:"duration_days"`
	Description  *string     `json:"description"`
}

// apply validates req onto plan. partial allows missing fields.
func (req PlanRequest) apply(plan *models.MembershipPlan, partial bool) FieldErrors {
	errs := FieldErrors{}

	if req.Name != nil && *req.Name == "" {
		errs.Add("name", "This field may not be blank.")
	} else if req.Name != nil {
		plan.Name = *req.Name
	} else if !partial {
		errs.Add("name", "This field is required.")
	}

	switch {
	case req.Price != nil:
		cents, err := models.ParseMoney(string(*req.Price))
		if err != nil {
			errs.Add("price", moneyMessage(err))
		} else {
			plan.PriceCents = cents
		}
	case !partial:
		errs.Add("price", "This field is required.")
	}

	switch {
	case req.DurationDays != nil:
		days, err := strconv.Atoi(string(*req.DurationDays))
		if err != nil {
			errs.Add("duration_days", "A valid integer is required.")
		} else if days <= 0 {
			errs.Add("duration_days", "Ensure this value is greater than 0.")
		} else {
			plan.DurationDays = days
		}
	case !partial:
		errs.Add("duration_days", "This field is required.")
	}

	if req.Description != nil {
		plan.Description = *req.Description
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (s *Server) findPlan(c *gin.Context) (*models.MembershipPlan, bool) {
	id, ok := paramID(c)
	if !ok {
		return nil, false
	}

	var plan models.MembershipPlan
	if err := s.db.First(&plan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondDetail(c, http.StatusNotFound, msgNotFound)
			return nil, false
		}
		s.respondInternal(c, err, "Failed to load plan")
		return nil, false
	}
	return &plan, true
}

// planNameTaken reports whether another plan already uses name
func (s *Server) planNameTaken(name string, exceptID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.MembershipPlan{}).Where("name = ? AND id <> ?", name, exceptID).Count(&count).Error
	return count > 0, err
}

// @Summary List membership plans
// @Description Public; no credential required
// @Tags plans
// @Router /api/plans/ [get]
func (s *Server) listPlans(c *gin.Context) {
	var plans []models.MembershipPlan
	if err := s.db.Order("id").Find(&plans).Error; err != nil {
		s.respondInternal(c, err, "Failed to list plans")
		return
	}

	out := make([]*PlanDetail, 0, len(plans))
	for _, p := range plans {
		out = append(out, planDetail(p))
	}
	c.JSON(http.StatusOK, out)
}

// @Summary Create membership plan
// @Tags plans
// @Router /api/plans/ [post]
func (s *Server) createPlan(c *gin.Context) {
	var req PlanRequest
	if !s.bind(c, &req) {
		return
	}

	var plan models.MembershipPlan
	if errs := req.apply(&plan, false); errs != nil {
		respondFieldErrors(c, errs)
		return
	}
	s.savePlan(c, &plan, http.StatusCreated)
}

func (s *Server) getPlan(c *gin.Context) {
	plan, ok := s.findPlan(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, planDetail(*plan))
}

func (s *Server) updatePlan(c *gin.Context) {
	plan, ok := s.findPlan(c)
	if !ok {
		return
	}

	var req PlanRequest
	if !s.bind(c, &req) {
		return
	}
	if errs := req.apply(plan, c.Request.Method == http.MethodPatch); errs != nil {
		respondFieldErrors(c, errs)
		return
	}
	s.savePlan(c, plan, http.StatusOK)
}

func (s *Server) savePlan(c *gin.Context, plan *models.MembershipPlan, status int) {
	taken, err := s.planNameTaken(plan.Name, plan.ID)
	if err != nil {
		s.respondInternal(c, err, "Failed to check plan name")
		return
	}
	if taken {
		respondFieldErrors(c, FieldErrors{"name": {"membership plan with this name already exists."}})
		return
	}

	if err := s.db.Save(plan).Error; err != nil {
		s.respondInternal(c, err, "Failed to save plan")
		return
	}

	s.logger.Info().Uint("plan_id", plan.ID).Str("name", plan.Name).Msg("Plan saved")
	c.JSON(status, planDetail(*plan))
}

// deletePlan keeps subscriptions to the plan; they lose their plan reference
func (s *Server) deletePlan(c *gin.Context) {
	plan, ok := s.findPlan(c)
	if !ok {
		return
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.MemberSubscription{}).Where("plan_id = ?", plan.ID).Update("plan_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(plan).Error
	})
	if err != nil {
		s.respondInternal(c, err, "Failed to delete plan")
		return
	}

	s.logger.Info().Uint("plan_id", plan.ID).Str("name", plan.Name).Msg("Plan deleted")
	c.Status(http.StatusNoContent)
}
