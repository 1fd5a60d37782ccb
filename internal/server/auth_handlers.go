package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gymfeetrack/gymfeetrack/internal/auth"
	"github.com/gymfeetrack/gymfeetrack/internal/models"
)

// SetupRequest represents the first-run setup request
type SetupRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

// TokenRequest exchanges credentials for a token
type TokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries the credential token
type TokenResponse struct {
	Token string `json:"token"`
}

// RegisterRequest creates a member account
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

// @Summary First-run setup
// @Description Creates the first gym admin (only works while no user exists)
// @Tags auth
// @Router /api/setup/ [post]
func (s *Server) setupFirstAdmin(c *gin.Context) {
	var req SetupRequest
	if !s.bind(c, &req) {
		return
	}

	var count int64
	if err := s.db.Model(&models.User{}).Count(&count).Error; err != nil {
		s.respondInternal(c, err, "Failed to count users")
		return
	}
	if count > 0 {
		respondDetail(c, http.StatusConflict, "Setup already completed.")
		return
	}

	user, ok := s.createUser(c, req.Username, req.Email, req.Password, true)
	if !ok {
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Username)
	if err != nil {
		s.respondInternal(c, err, "Failed to generate token")
		return
	}

	s.logger.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("First gym admin created")
	c.JSON(http.StatusCreated, TokenResponse{Token: token})
}

// @Summary Obtain token
// @Description Authenticate with username and password
// @Tags auth
// @Router /api/token/ [post]
func (s *Server) obtainToken(c *gin.Context) {
	var req TokenRequest
	if !s.bind(c, &req) {
		return
	}

	var user models.User
	if err := s.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.respondInternal(c, err, "Failed to find user")
			return
		}
		s.metrics.LoginsTotal.WithLabelValues("failure").Inc()
		respondFieldErrors(c, FieldErrors{nonFieldErrors: {msgBadCredentials}})
		return
	}

	if err := auth.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		s.metrics.LoginsTotal.WithLabelValues("failure").Inc()
		respondFieldErrors(c, FieldErrors{nonFieldErrors: {msgBadCredentials}})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Username)
	if err != nil {
		s.respondInternal(c, err, "Failed to generate token")
		return
	}

	s.metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("User logged in")
	c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// @Summary Register
// @Description Creates a member account. Does not log in.
// @Tags auth
// @Router /api/register/ [post]
func (s *Server) register(c *gin.Context) {
	var req RegisterRequest
	if !s.bind(c, &req) {
		return
	}

	user, ok := s.createUser(c, req.Username, req.Email, req.Password, false)
	if !ok {
		return
	}

	s.logger.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("Member registered")
	c.JSON(http.StatusCreated, userDetail(*user))
}

// createUser stores a user; its profile is created by the model hook
func (s *Server) createUser(c *gin.Context, username, email, password string, isAdmin bool) (*models.User, bool) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		s.respondInternal(c, err, "Failed to check username")
		return nil, false
	}
	if count > 0 {
		respondFieldErrors(c, FieldErrors{"username": {"A user with that username already exists."}})
		return nil, false
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		s.respondInternal(c, err, "Failed to hash password")
		return nil, false
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsGymAdmin:   isAdmin,
	}
	if err := s.db.Create(user).Error; err != nil {
		s.respondInternal(c, err, "Failed to create user")
		return nil, false
	}
	return user, true
}

// @Summary Current profile
// @Tags auth
// @Router /api/me/ [get]
func (s *Server) getCurrentProfile(c *gin.Context) {
	session, _ := GetSessionData(c)

	profile, ok := s.findProfile(c, session.ProfileID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, profileDetail(*profile))
}
