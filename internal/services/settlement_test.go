package services

import "testing"

func TestSplitFee(t *testing.T) {
	tests := []struct {
		name       string
		totalCents int64
		feePercent float64
		wantFee    int64
		wantNet    int64
	}{
		{
			name:       "ten percent of round total",
			totalCents: 10000,
			feePercent: 10,
			wantFee:    1000,
			wantNet:    9000,
		},
		{
			name:       "ten percent of 5000",
			totalCents: 5000,
			feePercent: 10,
			wantFee:    500,
			wantNet:    4500,
		},
		{
			name:       "fee rounds to nearest cent",
			totalCents: 9999,
			feePercent: 10,
			wantFee:    1000,
			wantNet:    8999,
		},
		{
			name:       "fractional percent",
			totalCents: 101,
			feePercent: 2.5,
			wantFee:    3,
			wantNet:    98,
		},
		{
			name:       "zero percent",
			totalCents: 5000,
			feePercent: 0,
			wantFee:    0,
			wantNet:    5000,
		},
		{
			name:       "hundred percent",
			totalCents: 5000,
			feePercent: 100,
			wantFee:    5000,
			wantNet:    0,
		},
		{
			name:       "zero total",
			totalCents: 0,
			feePercent: 10,
			wantFee:    0,
			wantNet:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, net := SplitFee(tt.totalCents, tt.feePercent)
			if fee != tt.wantFee || net != tt.wantNet {
				t.Errorf("SplitFee(%d, %v) = (%d, %d); want (%d, %d)",
					tt.totalCents, tt.feePercent, fee, net, tt.wantFee, tt.wantNet)
			}
		})
	}
}

// The net is derived by subtraction, so the split must re-add to the total
// for any percent.
func TestSplitFeeBalances(t *testing.T) {
	totals := []int64{1, 99, 100, 101, 9999, 10000, 123457, 999999999}
	percents := []float64{0, 0.5, 2.5, 7.77, 10, 33.33, 50, 99.9, 100}

	for _, total := range totals {
		for _, pct := range percents {
			fee, net := SplitFee(total, pct)
			if fee+net != total {
				t.Errorf("SplitFee(%d, %v): fee %d + net %d != total", total, pct, fee, net)
			}
			if fee < 0 || net < 0 {
				t.Errorf("SplitFee(%d, %v): negative component (%d, %d)", total, pct, fee, net)
			}
		}
	}
}
