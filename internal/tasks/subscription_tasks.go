package tasks

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"sekolahku_echo/internal/models"
)

// ExpireSubscriptionsJobDef lapses subscriptions whose paid period has
// ended. It runs as a recurring job so grants never outlive what was
// paid for by more than one sweep interval.
type ExpireSubscriptionsJobDef struct{}

// JobID returns the unique identifier for this job
func (t *ExpireSubscriptionsJobDef) JobID() string {
	return "expire_subscriptions"
}

// HandleExecution marks every active subscription past its period end.
// Grants flagged cancel_at_period_end become CANCELED, the rest become
// EXPIRED; a later renewal reactivates either through settlement.
func (t *ExpireSubscriptionsJobDef) HandleExecution(ctx context.Context, db *gorm.DB, job models.ScheduledJob) (map[string]interface{}, error) {
	now := time.Now()

	canceled := db.WithContext(ctx).Model(&models.Subscription{}).
		Where("status = ? AND current_period_end < ? AND cancel_at_period_end = ?",
			models.SubscriptionStatusActive, now, true).
		Update("status", models.SubscriptionStatusCanceled)
	if canceled.Error != nil {
		return nil, canceled.Error
	}

	expired := db.WithContext(ctx).Model(&models.Subscription{}).
		Where("status = ? AND current_period_end < ?",
			models.SubscriptionStatusActive, now).
		Update("status", models.SubscriptionStatusExpired)
	if expired.Error != nil {
		return nil, expired.Error
	}

	if canceled.RowsAffected > 0 || expired.RowsAffected > 0 {
		log.Printf("[Job: expire_subscriptions] canceled=%d expired=%d",
			canceled.RowsAffected, expired.RowsAffected)
	}

	return map[string]interface{}{
		"status":   "success",
		"canceled": canceled.RowsAffected,
		"expired":  expired.RowsAffected,
	}, nil
}

// ExpireSubscriptionsJob is the singleton instance of ExpireSubscriptionsJobDef
var ExpireSubscriptionsJob = &ExpireSubscriptionsJobDef{}
