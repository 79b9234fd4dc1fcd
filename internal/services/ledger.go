package services

import (
	"sekolahku_echo/internal/models"
)

// LedgerNets is the remaining balance of each side of the split after
// refunds, floored at zero.
type LedgerNets struct {
	SchoolNetCents   int64 `json:"school_net_cents"`
	PlatformNetCents int64 `json:"platform_net_cents"`
}

// LedgerTotals aggregates a set of ledger entries. ByType sums amounts per
// entry type regardless of direction; AllCents sums everything.
type LedgerTotals struct {
	ByType   map[models.LedgerEntryType]int64 `json:"by_type"`
	AllCents int64                            `json:"all_cents"`
	Nets     LedgerNets                       `json:"nets"`
}

// ComputeTotals is the accounting engine: a pure aggregation over ledger
// entries. Sums are commutative, so entry order never matters; the only
// input that steers a refund to one side of the split is its RefundTarget.
// A refund with no target reduces the school side. That is a policy
// decision: the platform keeps its fee unless the refund says otherwise.
func ComputeTotals(entries []models.LedgerEntry) LedgerTotals {
	totals := LedgerTotals{
		ByType: make(map[models.LedgerEntryType]int64),
	}

	var schoolEarnings, platformFees int64
	var refundSchool, refundPlatform int64

	for _, e := range entries {
		totals.ByType[e.EntryType] += e.AmountCents
		totals.AllCents += e.AmountCents

		switch e.EntryType {
		case models.EntrySchoolEarning:
			if e.Direction == models.DirectionCredit {
				schoolEarnings += e.AmountCents
			}
		case models.EntryPlatformFee:
			if e.Direction == models.DirectionCredit {
				platformFees += e.AmountCents
			}
		case models.EntryRefund:
			switch e.RefundTarget {
			case models.RefundTargetPlatformFee:
				refundPlatform += e.AmountCents
			case models.RefundTargetSchoolEarning:
				refundSchool += e.AmountCents
			default:
				// untagged refunds come off the school's earnings
				refundSchool += e.AmountCents
			}
		}
	}

	// Over-refund must not drive a balance negative
	totals.Nets.SchoolNetCents = clampNonNegative(schoolEarnings - refundSchool)
	totals.Nets.PlatformNetCents = clampNonNegative(platformFees - refundPlatform)
	return totals
}

// RefundedCents sums the REFUND entries in a set, regardless of target.
// Against one order's entries this is the amount already handed back.
func RefundedCents(entries []models.LedgerEntry) int64 {
	var total int64
	for _, e := range entries {
		if e.EntryType == models.EntryRefund {
			total += e.AmountCents
		}
	}
	return total
}

func clampNonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
