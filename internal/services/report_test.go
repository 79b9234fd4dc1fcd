package services

import (
	"strings"
	"testing"
	"time"

	"sekolahku_echo/internal/models"
)

func orderWithItems(types ...models.ProductType) *models.Order {
	order := &models.Order{}
	for _, pt := range types {
		order.Items = append(order.Items, models.OrderItem{ProductType: pt})
	}
	return order
}

func TestAttributeProductType(t *testing.T) {
	tests := []struct {
		name  string
		entry models.LedgerEntry
		want  models.ProductType
	}{
		{
			name:  "subscription wins",
			entry: models.LedgerEntry{Subscription: &models.Subscription{ProductType: models.ProductSubjectCourse}},
			want:  models.ProductSubjectCourse,
		},
		{
			name:  "order first item",
			entry: models.LedgerEntry{Order: orderWithItems(models.ProductSchoolMembership, models.ProductSubjectCourse)},
			want:  models.ProductSchoolMembership,
		},
		{
			name:  "no linkage",
			entry: models.LedgerEntry{},
			want:  "",
		},
		{
			name:  "order without items",
			entry: models.LedgerEntry{Order: &models.Order{}},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AttributeProductType(tt.entry); got != tt.want {
				t.Errorf("AttributeProductType() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestGroupByProductType(t *testing.T) {
	courseOrder := orderWithItems(models.ProductSubjectCourse)
	membershipOrder := orderWithItems(models.ProductSchoolMembership)

	entries := []models.LedgerEntry{
		{EntryType: models.EntrySchoolEarning, Direction: models.DirectionCredit, AmountCents: 9000, Order: courseOrder},
		{EntryType: models.EntryPlatformFee, Direction: models.DirectionCredit, AmountCents: 1000, Order: courseOrder},
		{EntryType: models.EntrySchoolEarning, Direction: models.DirectionCredit, AmountCents: 4500, Order: membershipOrder},
		{EntryType: models.EntryPlatformFee, Direction: models.DirectionCredit, AmountCents: 500, Order: membershipOrder},
		{EntryType: models.EntryRefund, Direction: models.DirectionDebit, AmountCents: 2000, RefundTarget: models.RefundTargetSchoolEarning, Order: courseOrder},
	}

	rows := GroupByProductType(entries)
	if len(rows) != 2 {
		t.Fatalf("got %d rows; want 2", len(rows))
	}

	// sorted by product type: SCHOOL_MEMBERSHIP < SUBJECT_COURSE
	if rows[0].ProductType != models.ProductSchoolMembership {
		t.Errorf("rows[0].ProductType = %q; want %q", rows[0].ProductType, models.ProductSchoolMembership)
	}
	if rows[0].EarningCents != 4500 || rows[0].FeeCents != 500 || rows[0].RefundCents != 0 {
		t.Errorf("membership row = %+v", rows[0])
	}
	if rows[1].ProductType != models.ProductSubjectCourse {
		t.Errorf("rows[1].ProductType = %q; want %q", rows[1].ProductType, models.ProductSubjectCourse)
	}
	if rows[1].EarningCents != 9000 || rows[1].FeeCents != 1000 || rows[1].RefundCents != 2000 {
		t.Errorf("course row = %+v", rows[1])
	}
}

func TestLedgerCSV(t *testing.T) {
	createdAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	orderID := uint(42)
	subID := uint(7)

	entries := []models.LedgerEntry{
		{
			ID:          1,
			CreatedAt:   createdAt,
			EntryType:   models.EntryPlatformFee,
			Direction:   models.DirectionCredit,
			AmountCents: 500,
			OrderID:     &orderID,
		},
		{
			ID:             2,
			CreatedAt:      createdAt,
			EntryType:      models.EntryRefund,
			Direction:      models.DirectionDebit,
			AmountCents:    200,
			RefundTarget:   models.RefundTargetPlatformFee,
			OrderID:        &orderID,
			SubscriptionID: &subID,
		},
	}

	got, err := LedgerCSV(entries)
	if err != nil {
		t.Fatalf("LedgerCSV() error = %v", err)
	}

	want := strings.Join([]string{
		"id,created_at,entry_type,direction,amount_cents,refund_target,order_id,subscription_id",
		"1,2026-03-14T09:30:00Z,PLATFORM_FEE,CREDIT,500,,42,",
		"2,2026-03-14T09:30:00Z,REFUND,DEBIT,200,PLATFORM_FEE,42,7",
		"",
	}, "\n")
	if got != want {
		t.Errorf("LedgerCSV() =\n%q\nwant\n%q", got, want)
	}
}

func TestLedgerCSVEmpty(t *testing.T) {
	got, err := LedgerCSV(nil)
	if err != nil {
		t.Fatalf("LedgerCSV(nil) error = %v", err)
	}
	want := "id,created_at,entry_type,direction,amount_cents,refund_target,order_id,subscription_id\n"
	if got != want {
		t.Errorf("LedgerCSV(nil) = %q; want %q", got, want)
	}
}
