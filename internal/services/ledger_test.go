package services

import (
	"testing"

	"sekolahku_echo/internal/models"
)

func entry(t models.LedgerEntryType, d models.LedgerDirection, amount int64, target models.RefundTarget) models.LedgerEntry {
	return models.LedgerEntry{EntryType: t, Direction: d, AmountCents: amount, RefundTarget: target}
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name            string
		entries         []models.LedgerEntry
		wantByType      map[models.LedgerEntryType]int64
		wantAll         int64
		wantSchoolNet   int64
		wantPlatformNet int64
	}{
		{
			name:            "empty ledger",
			entries:         nil,
			wantByType:      map[models.LedgerEntryType]int64{},
			wantAll:         0,
			wantSchoolNet:   0,
			wantPlatformNet: 0,
		},
		{
			name: "settlement only",
			entries: []models.LedgerEntry{
				entry(models.EntrySchoolEarning, models.DirectionCredit, 4500, ""),
				entry(models.EntryPlatformFee, models.DirectionCredit, 500, ""),
			},
			wantByType: map[models.LedgerEntryType]int64{
				models.EntrySchoolEarning: 4500,
				models.EntryPlatformFee:   500,
			},
			wantAll:         5000,
			wantSchoolNet:   4500,
			wantPlatformNet: 500,
		},
		{
			name: "settlement with tagged refunds",
			entries: []models.LedgerEntry{
				entry(models.EntrySchoolEarning, models.DirectionCredit, 9000, ""),
				entry(models.EntryPlatformFee, models.DirectionCredit, 1000, ""),
				entry(models.EntryRefund, models.DirectionDebit, 2000, models.RefundTargetSchoolEarning),
				entry(models.EntryRefund, models.DirectionDebit, 200, models.RefundTargetPlatformFee),
			},
			wantByType: map[models.LedgerEntryType]int64{
				models.EntrySchoolEarning: 9000,
				models.EntryPlatformFee:   1000,
				models.EntryRefund:        2200,
			},
			wantAll:         12200,
			wantSchoolNet:   7000,
			wantPlatformNet: 800,
		},
		{
			name: "untagged refund reduces school side",
			entries: []models.LedgerEntry{
				entry(models.EntrySchoolEarning, models.DirectionCredit, 9000, ""),
				entry(models.EntryPlatformFee, models.DirectionCredit, 1000, ""),
				entry(models.EntryRefund, models.DirectionDebit, 3000, ""),
			},
			wantByType: map[models.LedgerEntryType]int64{
				models.EntrySchoolEarning: 9000,
				models.EntryPlatformFee:   1000,
				models.EntryRefund:        3000,
			},
			wantAll:         13000,
			wantSchoolNet:   6000,
			wantPlatformNet: 1000,
		},
		{
			name: "over-refund clamps nets at zero",
			entries: []models.LedgerEntry{
				entry(models.EntrySchoolEarning, models.DirectionCredit, 4500, ""),
				entry(models.EntryPlatformFee, models.DirectionCredit, 500, ""),
				entry(models.EntryRefund, models.DirectionDebit, 5000, models.RefundTargetSchoolEarning),
				entry(models.EntryRefund, models.DirectionDebit, 900, models.RefundTargetPlatformFee),
			},
			wantByType: map[models.LedgerEntryType]int64{
				models.EntrySchoolEarning: 4500,
				models.EntryPlatformFee:   500,
				models.EntryRefund:        5900,
			},
			wantAll:         10900,
			wantSchoolNet:   0,
			wantPlatformNet: 0,
		},
		{
			name: "debit earnings do not count as credits",
			entries: []models.LedgerEntry{
				entry(models.EntrySchoolEarning, models.DirectionCredit, 4500, ""),
				entry(models.EntrySchoolEarning, models.DirectionDebit, 1000, ""),
				entry(models.EntryAdjustment, models.DirectionCredit, 250, ""),
			},
			wantByType: map[models.LedgerEntryType]int64{
				models.EntrySchoolEarning: 5500,
				models.EntryAdjustment:    250,
			},
			wantAll:         5750,
			wantSchoolNet:   4500,
			wantPlatformNet: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.entries)

			if got.AllCents != tt.wantAll {
				t.Errorf("AllCents = %d; want %d", got.AllCents, tt.wantAll)
			}
			if got.Nets.SchoolNetCents != tt.wantSchoolNet {
				t.Errorf("SchoolNetCents = %d; want %d", got.Nets.SchoolNetCents, tt.wantSchoolNet)
			}
			if got.Nets.PlatformNetCents != tt.wantPlatformNet {
				t.Errorf("PlatformNetCents = %d; want %d", got.Nets.PlatformNetCents, tt.wantPlatformNet)
			}
			if len(got.ByType) != len(tt.wantByType) {
				t.Errorf("ByType has %d keys; want %d", len(got.ByType), len(tt.wantByType))
			}
			for entryType, want := range tt.wantByType {
				if got.ByType[entryType] != want {
					t.Errorf("ByType[%s] = %d; want %d", entryType, got.ByType[entryType], want)
				}
			}
		})
	}
}

func TestComputeTotalsOrderIndependence(t *testing.T) {
	entries := []models.LedgerEntry{
		entry(models.EntrySchoolEarning, models.DirectionCredit, 9000, ""),
		entry(models.EntryPlatformFee, models.DirectionCredit, 1000, ""),
		entry(models.EntryRefund, models.DirectionDebit, 2000, models.RefundTargetSchoolEarning),
		entry(models.EntryRefund, models.DirectionDebit, 200, models.RefundTargetPlatformFee),
	}
	reversed := make([]models.LedgerEntry, len(entries))
	for i, e := range entries {
		reversed[len(entries)-1-i] = e
	}

	got := ComputeTotals(entries)
	gotReversed := ComputeTotals(reversed)

	if got.Nets != gotReversed.Nets || got.AllCents != gotReversed.AllCents {
		t.Errorf("totals depend on entry order: %+v vs %+v", got, gotReversed)
	}
}

func TestRefundedCents(t *testing.T) {
	entries := []models.LedgerEntry{
		entry(models.EntrySchoolEarning, models.DirectionCredit, 9000, ""),
		entry(models.EntryPlatformFee, models.DirectionCredit, 1000, ""),
		entry(models.EntryRefund, models.DirectionDebit, 2000, models.RefundTargetSchoolEarning),
		entry(models.EntryRefund, models.DirectionDebit, 200, models.RefundTargetPlatformFee),
		entry(models.EntryRefund, models.DirectionDebit, 300, ""),
	}
	if got := RefundedCents(entries); got != 2500 {
		t.Errorf("RefundedCents = %d; want 2500", got)
	}
	if got := RefundedCents(nil); got != 0 {
		t.Errorf("RefundedCents(nil) = %d; want 0", got)
	}
}
