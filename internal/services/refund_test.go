package services

import "testing"

func TestRefundSplit(t *testing.T) {
	tests := []struct {
		name             string
		feeTotal         int64
		schoolTotal      int64
		amount           int64
		orderTotal       int64
		wantFeeRefund    int64
		wantSchoolRefund int64
	}{
		{
			name:             "half refund prorates both sides",
			feeTotal:         1000,
			schoolTotal:      9000,
			amount:           5000,
			orderTotal:       10000,
			wantFeeRefund:    500,
			wantSchoolRefund: 4500,
		},
		{
			name:             "full refund reverses everything",
			feeTotal:         1000,
			schoolTotal:      9000,
			amount:           10000,
			orderTotal:       10000,
			wantFeeRefund:    1000,
			wantSchoolRefund: 9000,
		},
		{
			name:             "ratio clamps above one",
			feeTotal:         1000,
			schoolTotal:      9000,
			amount:           20000,
			orderTotal:       10000,
			wantFeeRefund:    1000,
			wantSchoolRefund: 9000,
		},
		{
			name:             "negative amount clamps to zero",
			feeTotal:         1000,
			schoolTotal:      9000,
			amount:           -100,
			orderTotal:       10000,
			wantFeeRefund:    0,
			wantSchoolRefund: 0,
		},
		{
			name:             "uneven split rounds per side",
			feeTotal:         333,
			schoolTotal:      2667,
			amount:           1000,
			orderTotal:       3000,
			wantFeeRefund:    111,
			wantSchoolRefund: 889,
		},
		{
			name:             "zero order total refunds nothing",
			feeTotal:         1000,
			schoolTotal:      9000,
			amount:           5000,
			orderTotal:       0,
			wantFeeRefund:    0,
			wantSchoolRefund: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feeRefund, schoolRefund := RefundSplit(tt.feeTotal, tt.schoolTotal, tt.amount, tt.orderTotal)
			if feeRefund != tt.wantFeeRefund || schoolRefund != tt.wantSchoolRefund {
				t.Errorf("RefundSplit(%d, %d, %d, %d) = (%d, %d); want (%d, %d)",
					tt.feeTotal, tt.schoolTotal, tt.amount, tt.orderTotal,
					feeRefund, schoolRefund, tt.wantFeeRefund, tt.wantSchoolRefund)
			}
		})
	}
}

// Two partial refunds and the retained remainder must account for the
// original split exactly; the proration may not leak or mint cents beyond
// the two independent roundings.
func TestRefundSplitSequence(t *testing.T) {
	const feeTotal, schoolTotal, orderTotal = 1000, 9000, 10000

	fee1, school1 := RefundSplit(feeTotal, schoolTotal, 3000, orderTotal)
	fee2, school2 := RefundSplit(feeTotal, schoolTotal, 7000, orderTotal)

	if fee1+fee2 != feeTotal {
		t.Errorf("fee refunds %d + %d != %d", fee1, fee2, feeTotal)
	}
	if school1+school2 != schoolTotal {
		t.Errorf("school refunds %d + %d != %d", school1, school2, schoolTotal)
	}
	if fee1+school1 != 3000 || fee2+school2 != 7000 {
		t.Errorf("per-call refund sums drifted: %d and %d", fee1+school1, fee2+school2)
	}
}
