package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// CheckoutSession tracks an open provider payment page for an order so a
// buyer who navigates away can resume instead of creating a duplicate
// provider transaction.
type CheckoutSession struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	SchoolID         uint            `gorm:"index" json:"school_id"`
	OrderID          uint            `gorm:"index" json:"order_id"`
	Provider         PaymentGateway  `gorm:"type:varchar(50);not null" json:"provider"`
	OrderNumber      string          `gorm:"type:varchar(100);index" json:"order_number"`
	IsActive         bool            `gorm:"default:true" json:"is_active"`
	RequestMetadata  json.RawMessage `gorm:"type:jsonb" json:"request_metadata"`
	ResponseMetadata json.RawMessage `gorm:"type:jsonb" json:"response_metadata"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}
