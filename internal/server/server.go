// Package server implements the GymFeeTrack REST API consumed by gymctl.
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gymfeetrack/gymfeetrack/internal/auth"
	"github.com/gymfeetrack/gymfeetrack/internal/config"
	"github.com/gymfeetrack/gymfeetrack/internal/metrics"
	"github.com/gymfeetrack/gymfeetrack/internal/models"
	"github.com/gymfeetrack/gymfeetrack/internal/workers"
)

// Server represents the HTTP server
type Server struct {
	router    *gin.Engine
	db        *gorm.DB
	config    *config.Config
	logger    zerolog.Logger
	validator *validator.Validate
	metrics   *metrics.Metrics
	expiry    *workers.ExpiryScheduler
	version   string
	now       func() time.Time
}

// New creates a new server instance
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	// Initialize database with production settings
	db, err := initDatabase(cfg, zlog)
	if err != nil {
		return nil, err
	}

	// Run database migrations
	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := initJWT(db, cfg, zlog); err != nil {
		return nil, err
	}

	m := metrics.New()

	server := &Server{
		db:        db,
		config:    cfg,
		logger:    zlog,
		validator: newValidator(),
		metrics:   m,
		expiry:    workers.NewExpiryScheduler(db, m, zlog),
		version:   version,
		now:       time.Now,
	}

	// Setup router
	server.setupRouter()

	return server, nil
}

// initDatabase opens sqlite by default, or MySQL for mysql:// URLs
func initDatabase(cfg *config.Config, zlog zerolog.Logger) (*gorm.DB, error) {
	const (
		maxOpenConns    = 8
		maxIdleConns    = 4
		connMaxLifetime = 5 * time.Minute
	)

	gormConfig := &gorm.Config{
		Logger: logger.New(
			&zerologWriter{logger: zlog},
			logger.Config{
				LogLevel:                  logger.Error,
				IgnoreRecordNotFoundError: true,
				SlowThreshold:             200 * time.Millisecond,
			},
		),
	}

	var (
		db       *gorm.DB
		err      error
		isSQLite bool
	)
	if dsn, ok := strings.CutPrefix(cfg.Database.URL, "mysql://"); ok {
		if !strings.Contains(dsn, "parseTime=") {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + "parseTime=true"
		}
		db, err = gorm.Open(mysql.Open(dsn), gormConfig)
	} else {
		isSQLite = true
		db, err = gorm.Open(sqlite.Open(cfg.Database.URL), gormConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Get underlying sql.DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if isSQLite {
		// WAL mode must be set first for optimal concurrency
		pragmas := []string{
			"PRAGMA journal_mode=WAL",
			"PRAGMA synchronous=NORMAL",
			"PRAGMA busy_timeout=5000",
			"PRAGMA foreign_keys=1",
		}
		for _, pragma := range pragmas {
			if err := db.Exec(pragma).Error; err != nil {
				zlog.Warn().Str("pragma", pragma).Err(err).Msg("Failed to apply pragma")
			}
		}
	}

	return db, nil
}

// initJWT loads the token signing secret: JWT_SECRET wins, then the
// persisted secret, otherwise a new one is generated and persisted.
func initJWT(db *gorm.DB, cfg *config.Config, zlog zerolog.Logger) error {
	if cfg.Auth.JWTSecret != "" {
		auth.InitializeJWT(cfg.Auth.JWTSecret)
		return nil
	}

	var row models.Config
	err := db.First(&row).Error
	if err == nil {
		auth.InitializeJWT(row.JWTSecret)
		zlog.Debug().Msg("Loaded JWT secret from database")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 64 hex characters = 32 bytes of randomness
	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return fmt.Errorf("failed to generate JWT secret: %w", err)
	}
	row.JWTSecret = hex.EncodeToString(secretBytes)
	if err := db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to persist JWT secret: %w", err)
	}

	auth.InitializeJWT(row.JWTSecret)
	zlog.Info().Msg("Generated new JWT secret")
	return nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	// Add middleware
	s.router.Use(gin.Recovery())
	s.router.Use(RequestIDMiddleware())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(MetricsMiddleware(s.metrics))

	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{"Content-Length", requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Operational endpoints (no auth required)
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := s.router.Group("/api")
	api.Use(TokenAuthMiddleware(s.db, s.logger))
	{
		// Public endpoints
		api.POST("/setup/", s.setupFirstAdmin)
		api.POST("/token/", s.obtainToken)
		api.POST("/register/", s.register)
		api.GET("/plans/", s.listPlans)

		authenticated := api.Group("")
		authenticated.Use(AuthenticatedMiddleware())
		{
			authenticated.GET("/me/", s.getCurrentProfile)
			authenticated.GET("/profiles/:id/", s.getOwnProfile)
			authenticated.PUT("/profiles/:id/", s.updateOwnProfile)
			authenticated.PATCH("/profiles/:id/", s.updateOwnProfile)

			authenticated.GET("/subscriptions/", s.listSubscriptions)
			authenticated.POST("/subscriptions/", s.createSubscription)
			authenticated.GET("/subscriptions/:id/", s.getSubscription)
			authenticated.PUT("/subscriptions/:id/", s.updateSubscription)
			authenticated.PATCH("/subscriptions/:id/", s.updateSubscription)
			authenticated.DELETE("/subscriptions/:id/", s.deleteSubscription)

			authenticated.GET("/payments/", s.listPayments)
			authenticated.POST("/payments/", s.createPayment)
		}

		admin := api.Group("")
		admin.Use(AdminOnlyMiddleware(s.logger))
		{
			admin.POST("/plans/", s.createPlan)
			admin.GET("/plans/:id/", s.getPlan)
			admin.PUT("/plans/:id/", s.updatePlan)
			admin.PATCH("/plans/:id/", s.updatePlan)
			admin.DELETE("/plans/:id/", s.deletePlan)

			admin.GET("/admin/profiles/", s.listProfiles)
			admin.GET("/admin/profiles/:id/", s.getProfile)
			admin.PUT("/admin/profiles/:id/", s.updateProfile)
			admin.PATCH("/admin/profiles/:id/", s.updateProfile)
			admin.DELETE("/admin/profiles/:id/", s.deleteProfile)

			admin.GET("/payments/:id/", s.getPayment)
			admin.PUT("/payments/:id/", s.updatePayment)
			admin.PATCH("/payments/:id/", s.updatePayment)
			admin.DELETE("/payments/:id/", s.deletePayment)
		}
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)

		s.logger.Info().
			Str("request_id", requestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "gymfeetrack-api",
		"version":   s.version,
	})
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// GetDB returns the database connection
func (s *Server) GetDB() *gorm.DB {
	return s.db
}

// Start serves HTTP and runs the expiry sweep until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	addr := ":" + s.config.Server.Port

	if err := s.expiry.Start(s.config.Expiry.Schedule); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")
	case err := <-errCh:
		if err != nil {
			s.expiry.Stop()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	s.expiry.Stop()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	s.logger.Info().Msg("Server shutdown complete")
	return s.Close()
}

// Close releases the database connection
func (s *Server) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// zerologWriter routes gorm's logger through zerolog
type zerologWriter struct {
	logger zerolog.Logger
}

func (w *zerologWriter) Printf(format string, args ...interface{}) {
	w.logger.Warn().Str("component", "gorm").Msgf(format, args...)
}
