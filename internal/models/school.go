package models

import (
	"time"

	"gorm.io/gorm"
)

// MembershipRole represents a user's role within a school
type MembershipRole string

const (
	RoleDirector MembershipRole = "DIRECTOR"
	RoleTeacher  MembershipRole = "TEACHER"
	RoleStudent  MembershipRole = "STUDENT"
)

// School is the tenant boundary; every billing row hangs off one school
type School struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name     string `gorm:"type:varchar(255)" json:"name"`
	Slug     string `gorm:"type:varchar(100);uniqueIndex" json:"slug"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	// Relationships
	Memberships []SchoolMembership `gorm:"foreignKey:SchoolID" json:"memberships,omitempty"`
	Prices      []Price            `gorm:"foreignKey:SchoolID" json:"prices,omitempty"`
}

// SchoolMembership links a user to a school with a role.
// A user holds at most one membership per school.
type SchoolMembership struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	SchoolID uint           `gorm:"uniqueIndex:idx_membership_school_user" json:"school_id"`
	UserID   uint           `gorm:"uniqueIndex:idx_membership_school_user" json:"user_id"`
	Role     MembershipRole `gorm:"type:varchar(20);default:'STUDENT'" json:"role"`

	// Relationships
	School School `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
