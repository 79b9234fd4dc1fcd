package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusPaid     OrderStatus = "PAID"
	OrderStatusFailed   OrderStatus = "FAILED"
	OrderStatusRefunded OrderStatus = "REFUNDED"
	OrderStatusCanceled OrderStatus = "CANCELED"
)

// PaymentGateway identifies the external provider a payment went through
type PaymentGateway string

const (
	PaymentGatewayMidtrans PaymentGateway = "midtrans"
	PaymentGatewayManual   PaymentGateway = "manual"
)

// PaymentStatus is the provider-side state of an order's payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusSucceeded PaymentStatus = "SUCCEEDED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// Order is one purchase transaction against a school's catalog
type Order struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	OrderNumber      string      `gorm:"type:varchar(64);uniqueIndex" json:"order_number"`
	SchoolID         uint        `gorm:"index" json:"school_id"`
	BuyerUserID      uint        `gorm:"index" json:"buyer_user_id"`
	Status           OrderStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	TotalAmountCents int64       `json:"total_amount_cents"`
	Currency         string      `gorm:"type:varchar(3);default:'IDR'" json:"currency"`
	PaidAt           *time.Time  `json:"paid_at,omitempty"`

	// Relationships
	School  School      `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
	Buyer   User        `gorm:"foreignKey:BuyerUserID" json:"buyer,omitempty"`
	Items   []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Payment Payment     `gorm:"foreignKey:OrderID" json:"payment,omitempty"`
}

// OrderItem is one catalog line inside an order
type OrderItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	OrderID          uint            `gorm:"index" json:"order_id"`
	ProductType      ProductType     `gorm:"type:varchar(30)" json:"product_type"`
	ProductRefID     uint            `json:"product_ref_id"`
	PriceAmountCents int64           `json:"price_amount_cents"`
	Interval         BillingInterval `gorm:"type:varchar(20);default:'ONE_TIME'" json:"interval"`
	Quantity         int             `gorm:"default:1" json:"quantity"`
}

// Payment is the single provider-side record attached to an order
type Payment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	OrderID           uint           `gorm:"uniqueIndex" json:"order_id"`
	Provider          PaymentGateway `gorm:"type:varchar(50);default:'manual'" json:"provider"`
	ProviderPaymentID string         `gorm:"type:varchar(100);index" json:"provider_payment_id"`
	Status            PaymentStatus  `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
}

// ItemsTotalCents sums the order's line amounts. The persisted
// TotalAmountCents must always equal this.
func (o Order) ItemsTotalCents() int64 {
	var total int64
	for _, item := range o.Items {
		qty := item.Quantity
		if qty == 0 {
			qty = 1
		}
		total += item.PriceAmountCents * int64(qty)
	}
	return total
}

// CanCancel reports whether the order may move to CANCELED.
// Only PENDING orders are cancelable; everything else is terminal.
func (o Order) CanCancel() bool {
	return o.Status == OrderStatusPending
}

// CanRefund reports whether a refund may be issued against the order
func (o Order) CanRefund() bool {
	return o.Status == OrderStatusPaid
}
