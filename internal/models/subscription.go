package models

import (
	"time"

	"gorm.io/gorm"
)

// SubscriptionStatus is the lifecycle state of a recurring grant
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "ACTIVE"
	SubscriptionStatusExpired  SubscriptionStatus = "EXPIRED"
	SubscriptionStatusCanceled SubscriptionStatus = "CANCELED"
)

// Subscription is a recurring-access grant. One row per
// (school, user, product type, product ref); settlement upserts into it.
type Subscription struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	SchoolID          uint               `gorm:"uniqueIndex:idx_subscription_grant" json:"school_id"`
	UserID            uint               `gorm:"uniqueIndex:idx_subscription_grant" json:"user_id"`
	ProductType       ProductType        `gorm:"type:varchar(30);uniqueIndex:idx_subscription_grant" json:"product_type"`
	ProductRefID      uint               `gorm:"uniqueIndex:idx_subscription_grant" json:"product_ref_id"`
	Interval          BillingInterval    `gorm:"type:varchar(20)" json:"interval"`
	Status            SubscriptionStatus `gorm:"type:varchar(20);default:'ACTIVE'" json:"status"`
	CurrentPeriodEnd  time.Time          `gorm:"index" json:"current_period_end"`
	CancelAtPeriodEnd bool               `gorm:"default:false" json:"cancel_at_period_end"`

	// Relationships
	School School `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// NextPeriodEnd computes the period end a renewal at `now` should set.
// The new period is anchored on whichever is later: now, or the period end
// the subscriber already paid for. Renewing early therefore extends the
// grant instead of shortening it, and renewing late starts from now.
func NextPeriodEnd(interval BillingInterval, priorPeriodEnd, now time.Time) time.Time {
	anchor := now
	if priorPeriodEnd.After(now) {
		anchor = priorPeriodEnd
	}
	switch interval {
	case IntervalYearly:
		return anchor.AddDate(1, 0, 0)
	case IntervalMonthly:
		return anchor.AddDate(0, 1, 0)
	default:
		return anchor
	}
}

// IsExpired reports whether the grant has lapsed as of `now`
func (s Subscription) IsExpired(now time.Time) bool {
	return s.Status == SubscriptionStatusActive && s.CurrentPeriodEnd.Before(now)
}
