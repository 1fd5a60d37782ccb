package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/gymfeetrack/gymfeetrack/internal/auth"
	"github.com/gymfeetrack/gymfeetrack/internal/metrics"
	"github.com/gymfeetrack/gymfeetrack/internal/models"
)

const (
	tokenPrefix     = "Token "
	requestIDHeader = "X-Request-ID"
)

var (
	ErrInvalidAuthFormat = errors.New("invalid authorization header format")
	ErrEmptyToken        = errors.New("empty token")
)

func setSession(c *gin.Context, sessionData *auth.SessionData) {
	c.Set("session", sessionData)
}

// GetSessionData returns the caller's session; false for anonymous requests
func GetSessionData(c *gin.Context) (*auth.SessionData, bool) {
	session, exists := c.Get("session")
	if !exists {
		return nil, false
	}

	sessionData, ok := session.(*auth.SessionData)
	return sessionData, ok
}

func requestID(c *gin.Context) string {
	return c.GetString("request_id")
}

// extractToken returns "" with no error when no credential was sent
func extractToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", nil
	}

	if !strings.HasPrefix(authHeader, tokenPrefix) {
		return "", ErrInvalidAuthFormat
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, tokenPrefix))
	if token == "" {
		return "", ErrEmptyToken
	}

	return token, nil
}

// RequestIDMiddleware propagates the caller's X-Request-ID or assigns one
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = ulid.Make().String()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// MetricsMiddleware records request counts and latency by route
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// TokenAuthMiddleware resolves "Authorization: Token <jwt>" into a session.
// Requests without the header continue anonymously; a header that does not
// resolve to a user is rejected with 401 on every endpoint.
func TokenAuthMiddleware(db *gorm.DB, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractToken(c.GetHeader("Authorization"))
		if err != nil {
			log.Debug().Err(err).Str("request_id", requestID(c)).Msg("Rejected authorization header")
			respondDetail(c, http.StatusUnauthorized, msgInvalidToken)
			return
		}
		if token == "" {
			c.Next()
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			log.Debug().Err(err).Str("request_id", requestID(c)).Msg("Failed to validate token")
			respondDetail(c, http.StatusUnauthorized, msgInvalidToken)
			return
		}

		// Verify the user still exists
		var profile models.UserProfile
		if err := db.Preload("User").Where("user_id = ?", claims.UserID).First(&profile).Error; err != nil {
			log.Debug().Err(err).Uint("user_id", claims.UserID).Msg("Token user not found")
			respondDetail(c, http.StatusUnauthorized, msgInvalidToken)
			return
		}

		setSession(c, &auth.SessionData{
			UserID:     profile.UserID,
			ProfileID:  profile.ID,
			Username:   profile.User.Username,
			IsGymAdmin: profile.IsGymAdmin,
		})

		c.Next()
	}
}

// AuthenticatedMiddleware rejects anonymous requests
func AuthenticatedMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetSessionData(c); !ok {
			respondDetail(c, http.StatusUnauthorized, msgNotAuthenticated)
			return
		}
		c.Next()
	}
}

// AdminOnlyMiddleware ensures the authenticated user is a gym admin
func AdminOnlyMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionData, exists := GetSessionData(c)
		if !exists {
			respondDetail(c, http.StatusUnauthorized, msgNotAuthenticated)
			return
		}

		if !sessionData.IsGymAdmin {
			log.Info().Str("username", sessionData.Username).Str("path", c.FullPath()).Msg("Admin access denied")
			respondDetail(c, http.StatusForbidden, msgPermissionDenied)
			return
		}

		c.Next()
	}
}
