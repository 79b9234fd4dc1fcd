package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrLedgerImmutable is returned when code attempts to update a persisted
// ledger line.
var ErrLedgerImmutable = errors.New("ledger entries are append-only")

// LedgerEntryType classifies an accounting line
type LedgerEntryType string

const (
	EntryPlatformFee   LedgerEntryType = "PLATFORM_FEE"
	EntrySchoolEarning LedgerEntryType = "SCHOOL_EARNING"
	EntryRefund        LedgerEntryType = "REFUND"
	EntryAdjustment    LedgerEntryType = "ADJUSTMENT"
)

// LedgerDirection is the sign of an accounting line
type LedgerDirection string

const (
	DirectionCredit LedgerDirection = "CREDIT"
	DirectionDebit  LedgerDirection = "DEBIT"
)

// RefundTarget names which side of a fee/earning split a REFUND line
// reverses. It is a closed enum, not a free-form tag, so the accounting
// engine can branch exhaustively.
type RefundTarget string

const (
	RefundTargetPlatformFee   RefundTarget = "PLATFORM_FEE"
	RefundTargetSchoolEarning RefundTarget = "SCHOOL_EARNING"
)

// LedgerEntry is one immutable accounting line. Entries are append-only;
// a reversal is a new REFUND/DEBIT entry, never a mutation of a prior row.
type LedgerEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SchoolID       uint            `gorm:"index" json:"school_id"`
	OrderID        *uint           `gorm:"index" json:"order_id,omitempty"`
	SubscriptionID *uint           `gorm:"index" json:"subscription_id,omitempty"`
	EntryType      LedgerEntryType `gorm:"type:varchar(20);index" json:"entry_type"`
	Direction      LedgerDirection `gorm:"type:varchar(10)" json:"direction"`
	AmountCents    int64           `json:"amount_cents"`
	RefundTarget   RefundTarget    `gorm:"type:varchar(20)" json:"refund_target,omitempty"`

	// Relationships
	Order        *Order        `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	Subscription *Subscription `gorm:"foreignKey:SubscriptionID" json:"subscription,omitempty"`
}

// BeforeUpdate blocks in-place edits of persisted ledger lines
func (e *LedgerEntry) BeforeUpdate(tx *gorm.DB) error {
	return ErrLedgerImmutable
}
