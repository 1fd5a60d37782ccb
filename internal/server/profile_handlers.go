package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gymfeetrack/gymfeetrack/internal/models"
)

// ProfileUpdateRequest edits contact fields; omitted fields are unchanged
type ProfileUpdateRequest struct {
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=10"`
	Address     *string `json:"address"`
}

// AdminProfileUpdateRequest also lets admins grant or revoke admin rights
type AdminProfileUpdateRequest struct {
	ProfileUpdateRequest
	IsGymAdmin *bool `json:"is_gym_admin"`
}

func (s *Server) findProfile(c *gin.Context, id uint) (*models.UserProfile, bool) {
	var profile models.UserProfile
	if err := s.db.Preload("User").First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondDetail(c, http.StatusNotFound, msgNotFound)
			return nil, false
		}
		s.respondInternal(c, err, "Failed to load profile")
		return nil, false
	}
	return &profile, true
}

func (s *Server) saveProfile(c *gin.Context, profile *models.UserProfile, req ProfileUpdateRequest, isGymAdmin *bool) {
	updates := map[string]any{}
	if req.PhoneNumber != nil {
		updates["phone_number"] = *req.PhoneNumber
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if isGymAdmin != nil {
		updates["is_gym_admin"] = *isGymAdmin
	}

	if len(updates) > 0 {
		if err := s.db.Model(profile).Updates(updates).Error; err != nil {
			s.respondInternal(c, err, "Failed to update profile")
			return
		}
	}

	updated, ok := s.findProfile(c, profile.ID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, profileDetail(*updated))
}

// getOwnProfile serves profiles/:id/. Whatever the ID, callers only ever
// see their own profile.
func (s *Server) getOwnProfile(c *gin.Context) {
	if _, ok := paramID(c); !ok {
		return
	}
	s.getCurrentProfile(c)
}

func (s *Server) updateOwnProfile(c *gin.Context) {
	if _, ok := paramID(c); !ok {
		return
	}
	session, _ := GetSessionData(c)

	var req ProfileUpdateRequest
	if !s.bind(c, &req) {
		return
	}
	profile, ok := s.findProfile(c, session.ProfileID)
	if !ok {
		return
	}
	s.saveProfile(c, profile, req, nil)
}

// @Summary List member profiles
// @Tags admin
// @Router /api/admin/profiles/ [get]
func (s *Server) listProfiles(c *gin.Context) {
	var profiles []models.UserProfile
	if err := s.db.Preload("User").Order("id").Find(&profiles).Error; err != nil {
		s.respondInternal(c, err, "Failed to list profiles")
		return
	}

	out := make([]*ProfileDetail, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, profileDetail(p))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getProfile(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	profile, ok := s.findProfile(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, profileDetail(*profile))
}

func (s *Server) updateProfile(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req AdminProfileUpdateRequest
	if !s.bind(c, &req) {
		return
	}
	profile, ok := s.findProfile(c, id)
	if !ok {
		return
	}
	s.saveProfile(c, profile, req.ProfileUpdateRequest, req.IsGymAdmin)
}

// deleteProfile removes the member's account along with everything it owns
func (s *Server) deleteProfile(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	profile, ok := s.findProfile(c, id)
	if !ok {
		return
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		subIDs := tx.Model(&models.MemberSubscription{}).Select("id").Where("user_profile_id = ?", profile.ID)
		if err := tx.Where("member_subscription_id IN (?)", subIDs).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_profile_id = ?", profile.ID).Delete(&models.MemberSubscription{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.UserProfile{}, profile.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, profile.UserID).Error
	})
	if err != nil {
		s.respondInternal(c, err, "Failed to delete profile")
		return
	}

	s.logger.Info().Uint("profile_id", profile.ID).Str("username", profile.User.Username).Msg("Member deleted")
	c.Status(http.StatusNoContent)
}
