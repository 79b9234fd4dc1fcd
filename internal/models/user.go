package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account in the system. Role is per-school via
// SchoolMembership, not a global attribute.
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name        string `gorm:"type:varchar(255)" json:"name"`
	Phone       string `gorm:"type:varchar(50)" json:"phone"`
	Email       string `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	FirebaseUID string `gorm:"type:varchar(128);index" json:"firebase_uid,omitempty"`

	// Relationships
	Memberships   []SchoolMembership `gorm:"foreignKey:UserID" json:"memberships,omitempty"`
	Orders        []Order            `gorm:"foreignKey:BuyerUserID" json:"orders,omitempty"`
	Subscriptions []Subscription     `gorm:"foreignKey:UserID" json:"subscriptions,omitempty"`
}
