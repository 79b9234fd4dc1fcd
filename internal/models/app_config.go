package models

import "time"

// AppConfigID is the fixed primary key of the singleton config row
const AppConfigID = "config"

// AppConfig is the singleton platform configuration. It is read before
// every fee computation and created with defaults on first access.
type AppConfig struct {
	ID        string    `gorm:"primarykey;type:varchar(20)" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PlatformFeePercent     float64        `gorm:"default:10" json:"platform_fee_percent"`
	DefaultPaymentProvider PaymentGateway `gorm:"type:varchar(50);default:'manual'" json:"default_payment_provider"`
}

// DefaultAppConfig returns the row written on first access
func DefaultAppConfig() AppConfig {
	return AppConfig{
		ID:                     AppConfigID,
		PlatformFeePercent:     10,
		DefaultPaymentProvider: PaymentGatewayManual,
	}
}
