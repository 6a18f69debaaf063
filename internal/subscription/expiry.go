package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/walleta/backend/internal/models"
	"github.com/walleta/backend/internal/notify"
	"gorm.io/gorm"
)

// Sweeper deactivates subscriptions whose paid period has ended.
type Sweeper struct {
	DB       *gorm.DB
	Notifier notify.Notifier
	Now      func() time.Time
}

// Sweep deactivates all expired subscriptions and returns how many
// users were affected.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	now := s.Now().UTC()

	var users []models.User
	err := s.DB.WithContext(ctx).Where("subscription_active = ? AND subscription_end <= ?", true, now).Find(&users).Error
	if err != nil {
		return 0, err
	}

	count := 0
	for _, user := range users {
		// The subscription may have been renewed since the users were read,
		// so the expiry condition is repeated on the update.
		tx := s.DB.WithContext(ctx).
			Model(&user).
			Where("subscription_active = ? AND subscription_end <= ?", true, now).
			Update("subscription_active", false)
		if tx.Error != nil {
			return count, tx.Error
		}

		if tx.RowsAffected == 0 {
			continue
		}
		count++

		if s.Notifier != nil {
			if err := s.Notifier.SubscriptionExpired(user); err != nil {
				log.Warn().Str("component", "subscription").Str("user", user.ID.String()).Err(err).Msg("Could not send expiry notification")
			}
		}
	}

	return count, nil
}

// Start runs Sweep on the cron schedule until the returned cron is stopped.
func (s *Sweeper) Start(schedule string) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		count, err := s.Sweep(context.Background())
		if err != nil {
			log.Error().Str("component", "subscription").Err(err).Msg("Expiry sweep failed")
			return
		}

		if count > 0 {
			log.Info().Str("component", "subscription").Int("count", count).Msg("Expired subscriptions deactivated")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid expiry schedule %q: %w", schedule, err)
	}

	c.Start()
	return c, nil
}
