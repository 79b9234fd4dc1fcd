package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sekolahku_echo/internal/models"
)

// OrderService covers order reads and the cancel transition. Settlement
// and refunds own the money-moving transitions.
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// GetOrder fetches one order within a school. A wrong-tenant lookup is a
// plain NotFound so foreign schools cannot probe for existence.
func (s *OrderService) GetOrder(schoolID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Preload("Payment").Preload("Buyer").
		Where("school_id = ?", schoolID).
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return nil, err
	}
	return &order, nil
}

// GetOrderByNumber resolves a provider-facing order number, unscoped.
// Webhooks arrive without tenant context; the order row carries it.
func (s *OrderService) GetOrderByNumber(orderNumber string) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Preload("Payment").
		Where("order_number = ?", orderNumber).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", orderNumber, ErrNotFound)
		}
		return nil, err
	}
	return &order, nil
}

// CancelOrder moves a PENDING order to CANCELED. Every other status is
// terminal for cancellation.
func (s *OrderService) CancelOrder(schoolID, orderID uint) (*models.Order, error) {
	order, err := s.GetOrder(schoolID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.CanCancel() {
		return nil, fmt.Errorf("%w: only pending orders can be canceled", ErrInvalidState)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("status", models.OrderStatusCanceled).Error; err != nil {
			return err
		}
		return tx.Model(&models.Payment{}).Where("order_id = ?", order.ID).
			Update("status", models.PaymentStatusFailed).Error
	})
	if err != nil {
		return nil, err
	}

	order.Status = models.OrderStatusCanceled
	return order, nil
}
