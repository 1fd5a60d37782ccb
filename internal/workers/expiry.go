package workers

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/gymfeetrack/gymfeetrack/internal/metrics"
	"github.com/gymfeetrack/gymfeetrack/internal/models"
)

// ExpiryScheduler periodically marks lapsed Active subscriptions as Expired
type ExpiryScheduler struct {
	db      *gorm.DB
	metrics *metrics.Metrics
	logger  zerolog.Logger

	mu   sync.Mutex
	cron *cron.Cron
	now  func() time.Time
}

func NewExpiryScheduler(db *gorm.DB, m *metrics.Metrics, logger zerolog.Logger) *ExpiryScheduler {
	return &ExpiryScheduler{
		db:      db,
		metrics: m,
		logger:  logger.With().Str("component", "expiry").Logger(),
		now:     time.Now,
	}
}

// Start runs one sweep immediately and then on every tick of schedule.
// An empty schedule disables the sweep.
func (e *ExpiryScheduler) Start(schedule string) error {
	if schedule == "" {
		e.logger.Info().Msg("Expiry sweep disabled")
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cron != nil {
		return nil
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	c := cron.New(cron.WithParser(parser))
	if _, err := c.AddFunc(schedule, e.run); err != nil {
		return fmt.Errorf("invalid expiry schedule %q: %w", schedule, err)
	}

	e.run()
	c.Start()
	e.cron = c

	e.logger.Info().Str("schedule", schedule).Msg("Expiry sweep scheduled")
	return nil
}

// Stop waits for a running sweep to finish
func (e *ExpiryScheduler) Stop() {
	e.mu.Lock()
	c := e.cron
	e.cron = nil
	e.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}

func (e *ExpiryScheduler) run() {
	if _, err := e.SweepExpired(e.now()); err != nil {
		e.logger.Error().Err(err).Msg("Expiry sweep failed")
	}
}

// SweepExpired flips Active subscriptions whose end date is before now's
// date to Expired and returns how many rows changed.
func (e *ExpiryScheduler) SweepExpired(now time.Time) (int64, error) {
	today := now.Format(models.DateLayout)

	result := e.db.Model(&models.MemberSubscription{}).
		Where("status = ? AND end_date < ?", models.StatusActive, today).
		Updates(map[string]any{"status": models.StatusExpired, "updated_at": now})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to expire subscriptions: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		if e.metrics != nil {
			e.metrics.SubscriptionsExpiredTotal.Add(float64(result.RowsAffected))
		}
		e.logger.Info().
			Int64("expired", result.RowsAffected).
			Str("before", today).
			Msg("Expired lapsed subscriptions")
	} else {
		e.logger.Debug().Msg("No lapsed subscriptions")
	}

	return result.RowsAffected, nil
}
