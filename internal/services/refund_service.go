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

// RefundService reverses settled orders, in full or in part, by appending
// REFUND ledger lines prorated across the original fee/earning split.
type RefundService struct {
	db       *gorm.DB
	midtrans *MidtransService
}

func NewRefundService(db *gorm.DB, midtrans *MidtransService) *RefundService {
	return &RefundService{db: db, midtrans: midtrans}
}

// RefundSplit prorates a refund across the order's prior ledger history.
// Working from the recorded fee/earning totals rather than the current fee
// percent guarantees an exact reversal even if the percent has changed
// since settlement.
func RefundSplit(feeTotalCents, schoolTotalCents, amountCents, orderTotalCents int64) (feeRefundCents, schoolRefundCents int64) {
	if orderTotalCents <= 0 {
		return 0, 0
	}
	ratio := float64(amountCents) / float64(orderTotalCents)
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	feeRefundCents = int64(math.Round(float64(feeTotalCents) * ratio))
	schoolRefundCents = int64(math.Round(float64(schoolTotalCents) * ratio))
	return feeRefundCents, schoolRefundCents
}

// RefundOrder refunds amountCents of a PAID order; a nil amount means the
// full total. The requested amount is clamped to what has not been
// refunded yet, so repeated partial refunds can never hand back more than
// the order total. The provider refund call happens before any ledger
// mutation; if it fails nothing is written.
func (s *RefundService) RefundOrder(schoolID, orderID uint, amountCents *int64) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Payment").
		Where("school_id = ?", schoolID).
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return nil, err
	}

	if !order.CanRefund() {
		return nil, fmt.Errorf("%w: only paid orders can be refunded", ErrInvalidState)
	}

	amount := order.TotalAmountCents
	if amountCents != nil {
		if *amountCents <= 0 {
			return nil, fmt.Errorf("%w: amount_cents must be positive", ErrValidation)
		}
		amount = *amountCents
		if amount > order.TotalAmountCents {
			amount = order.TotalAmountCents
		}
	}

	var entries []models.LedgerEntry
	if err := s.db.Where("school_id = ? AND order_id = ?", schoolID, order.ID).Find(&entries).Error; err != nil {
		return nil, err
	}

	refundedSoFar := RefundedCents(entries)
	remaining := order.TotalAmountCents - refundedSoFar
	if remaining <= 0 {
		return nil, fmt.Errorf("%w: order is already fully refunded", ErrInvalidState)
	}
	if amount > remaining {
		amount = remaining
	}
	isFull := refundedSoFar+amount >= order.TotalAmountCents

	// External call first. A provider failure aborts the refund before any
	// ledger line exists; manual payments have nothing to call.
	if order.Payment.Provider == models.PaymentGatewayMidtrans && s.midtrans != nil && s.midtrans.Configured() {
		if err := s.midtrans.RefundTransaction(order.OrderNumber, amount, "order refund"); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProvider, err)
		}
	}

	totals := ComputeTotals(entries)
	feeRefund, schoolRefund := RefundSplit(
		totals.ByType[models.EntryPlatformFee],
		totals.ByType[models.EntrySchoolEarning],
		amount, order.TotalAmountCents,
	)

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var locked models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("school_id = ?", schoolID).
			First(&locked, order.ID).Error; err != nil {
			return err
		}
		if !locked.CanRefund() {
			return fmt.Errorf("%w: only paid orders can be refunded", ErrInvalidState)
		}

		orderRef := locked.ID
		var refundEntries []models.LedgerEntry
		if feeRefund > 0 {
			refundEntries = append(refundEntries, models.LedgerEntry{
				SchoolID:     locked.SchoolID,
				OrderID:      &orderRef,
				EntryType:    models.EntryRefund,
				Direction:    models.DirectionDebit,
				AmountCents:  feeRefund,
				RefundTarget: models.RefundTargetPlatformFee,
			})
		}
		if schoolRefund > 0 {
			refundEntries = append(refundEntries, models.LedgerEntry{
				SchoolID:     locked.SchoolID,
				OrderID:      &orderRef,
				EntryType:    models.EntryRefund,
				Direction:    models.DirectionDebit,
				AmountCents:  schoolRefund,
				RefundTarget: models.RefundTargetSchoolEarning,
			})
		}
		if len(refundEntries) > 0 {
			if err := tx.Create(&refundEntries).Error; err != nil {
				return err
			}
		}

		if isFull {
			if err := tx.Model(&models.Order{}).Where("id = ?", locked.ID).
				Update("status", models.OrderStatusRefunded).Error; err != nil {
				return err
			}
			// Partial refunds keep the payment SUCCEEDED; only the order's
			// REFUND entries reflect the partial reversal.
			if err := tx.Model(&models.Payment{}).Where("order_id = ?", locked.ID).
				Update("status", models.PaymentStatusRefunded).Error; err != nil {
				return err
			}
		}

		notice := models.ScheduledJob{
			JobName: JobSendReceipt,
			Arguments: map[string]interface{}{
				"order_id":     locked.ID,
				"kind":         "refund",
				"amount_cents": amount,
			},
			Due:        now,
			Status:     models.ScheduledJobStatusActive,
			JobType:    models.ScheduledJobTypeOneTime,
			MaxAttempt: 3,
		}
		return tx.Create(&notice).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Items").Preload("Payment").First(&order, order.ID).Error; err != nil {
		return nil, err
	}
	log.Printf("Order %s refunded: amount=%d fee_refund=%d school_refund=%d full=%v",
		order.OrderNumber, amount, feeRefund, schoolRefund, isFull)
	return &order, nil
}
