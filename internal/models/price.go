package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductType identifies what an order item or subscription grants access to
type ProductType string

const (
	ProductSchoolMembership ProductType = "SCHOOL_MEMBERSHIP"
	ProductSubjectCourse    ProductType = "SUBJECT_COURSE"
)

// BillingInterval is the cadence of a price
type BillingInterval string

const (
	IntervalOneTime BillingInterval = "ONE_TIME"
	IntervalMonthly BillingInterval = "MONTHLY"
	IntervalYearly  BillingInterval = "YEARLY"
)

// Price is one row of a school's catalog. ProductRefID points at the
// academic entity being sold (subject id, membership tier id); the billing
// side never dereferences it.
type Price struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	SchoolID     uint            `gorm:"index" json:"school_id"`
	ProductType  ProductType     `gorm:"type:varchar(30)" json:"product_type"`
	ProductRefID uint            `json:"product_ref_id"`
	AmountCents  int64           `json:"amount_cents"`
	Currency     string          `gorm:"type:varchar(3);default:'IDR'" json:"currency"`
	Interval     BillingInterval `gorm:"type:varchar(20);default:'ONE_TIME'" json:"interval"`
	IsActive     bool            `gorm:"default:true" json:"is_active"`

	// Relationships
	School School `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
}
