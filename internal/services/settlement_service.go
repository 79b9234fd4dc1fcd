package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sekolahku_echo/internal/models"
)

// JobSendReceipt is the scheduled-job name for receipt/refund notices.
// Settlement and refund enqueue it; the worker executes it.
const JobSendReceipt = "send_receipt"

// SettlementService transitions orders from PENDING to PAID and records the
// platform-fee / school-earning split in the ledger.
type SettlementService struct {
	db *gorm.DB
}

func NewSettlementService(db *gorm.DB) *SettlementService {
	return &SettlementService{db: db}
}

// ConfirmOptions carries provider identifiers delivered with a payment
// confirmation (webhook or manual).
type ConfirmOptions struct {
	Provider          models.PaymentGateway
	ProviderPaymentID string
}

// SplitFee divides an order total into the platform fee and the school's
// net. The fee is rounded to the nearest cent; the net is computed by
// subtraction, never rounded independently, so fee+net always equals the
// total exactly.
func SplitFee(totalCents int64, feePercent float64) (feeCents, netCents int64) {
	feeCents = int64(math.Round(float64(totalCents) * feePercent / 100))
	return feeCents, totalCents - feeCents
}

// ConfirmPaidOrder settles an order: marks it PAID, writes the fee/earning
// ledger lines, and activates or renews subscriptions for recurring items.
// Calling it again on a settled order is a no-op returning the order as-is,
// so duplicate webhook deliveries are safe.
func (s *SettlementService) ConfirmPaidOrder(schoolID, orderID uint, opts *ConfirmOptions) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Preload("Payment").
		Where("school_id = ?", schoolID).
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return nil, err
	}

	if order.Status != models.OrderStatusPending {
		return &order, nil
	}

	cfg, err := LoadAppConfig(s.db)
	if err != nil {
		return nil, err
	}
	feeCents, netCents := SplitFee(order.TotalAmountCents, cfg.PlatformFeePercent)

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Re-read under a row lock; concurrent confirmations of the same
		// order serialize here and the loser short-circuits below.
		var locked models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Items").
			Where("school_id = ?", schoolID).
			First(&locked, order.ID).Error; err != nil {
			return err
		}
		if locked.Status != models.OrderStatusPending {
			order = locked
			return nil
		}

		if err := tx.Model(&models.Order{}).Where("id = ?", locked.ID).Updates(map[string]interface{}{
			"status":  models.OrderStatusPaid,
			"paid_at": &now,
		}).Error; err != nil {
			return err
		}

		paymentUpdates := map[string]interface{}{
			"status": models.PaymentStatusSucceeded,
		}
		if opts != nil {
			if opts.Provider != "" {
				paymentUpdates["provider"] = opts.Provider
			}
			if opts.ProviderPaymentID != "" {
				paymentUpdates["provider_payment_id"] = opts.ProviderPaymentID
			}
		}
		if err := tx.Model(&models.Payment{}).Where("order_id = ?", locked.ID).Updates(paymentUpdates).Error; err != nil {
			return err
		}

		orderID := locked.ID
		entries := []models.LedgerEntry{
			{
				SchoolID:    locked.SchoolID,
				OrderID:     &orderID,
				EntryType:   models.EntryPlatformFee,
				Direction:   models.DirectionCredit,
				AmountCents: feeCents,
			},
			{
				SchoolID:    locked.SchoolID,
				OrderID:     &orderID,
				EntryType:   models.EntrySchoolEarning,
				Direction:   models.DirectionCredit,
				AmountCents: netCents,
			},
		}
		if err := tx.Create(&entries).Error; err != nil {
			return err
		}

		for _, item := range locked.Items {
			if item.Interval == models.IntervalOneTime {
				continue
			}
			if err := upsertSubscription(tx, locked, item, now); err != nil {
				return err
			}
		}

		receipt := models.ScheduledJob{
			JobName: JobSendReceipt,
			Arguments: map[string]interface{}{
				"order_id": locked.ID,
				"kind":     "payment",
			},
			Due:        now,
			Status:     models.ScheduledJobStatusActive,
			JobType:    models.ScheduledJobTypeOneTime,
			MaxAttempt: 3,
		}
		return tx.Create(&receipt).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Items").Preload("Payment").First(&order, order.ID).Error; err != nil {
		return nil, err
	}
	log.Printf("Order %s settled: fee=%d net=%d", order.OrderNumber, feeCents, netCents)
	return &order, nil
}

// upsertSubscription activates or renews the grant keyed by
// (school, buyer, product type, product ref). Renewal anchors the new
// period on max(now, prior period end) so early renewals extend rather
// than shorten the grant.
func upsertSubscription(tx *gorm.DB, order models.Order, item models.OrderItem, now time.Time) error {
	var sub models.Subscription
	err := tx.Where(
		"school_id = ? AND user_id = ? AND product_type = ? AND product_ref_id = ?",
		order.SchoolID, order.BuyerUserID, item.ProductType, item.ProductRefID,
	).First(&sub).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		sub = models.Subscription{
			SchoolID:         order.SchoolID,
			UserID:           order.BuyerUserID,
			ProductType:      item.ProductType,
			ProductRefID:     item.ProductRefID,
			Interval:         item.Interval,
			Status:           models.SubscriptionStatusActive,
			CurrentPeriodEnd: models.NextPeriodEnd(item.Interval, time.Time{}, now),
		}
		return tx.Create(&sub).Error
	}
	if err != nil {
		return err
	}

	return tx.Model(&sub).Updates(map[string]interface{}{
		"status":             models.SubscriptionStatusActive,
		"interval":           item.Interval,
		"current_period_end": models.NextPeriodEnd(item.Interval, sub.CurrentPeriodEnd, now),
	}).Error
}
