package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// PaymentGatewayEvent is the append-only log of raw provider callbacks.
// Settlement is driven from the parsed fields; the payload is kept for
// reconciliation and dispute handling.
type PaymentGatewayEvent struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Provider    PaymentGateway  `gorm:"type:varchar(50);not null" json:"provider"`
	OrderNumber string          `gorm:"type:varchar(100);index" json:"order_number"`
	EventType   string          `gorm:"type:varchar(100)" json:"event_type"`
	Payload     json.RawMessage `gorm:"type:jsonb" json:"payload"`
}
