package models

import (
	"testing"
	"time"
)

func TestNextPeriodEnd(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		interval BillingInterval
		prior    time.Time
		want     time.Time
	}{
		{
			name:     "first monthly activation",
			interval: IntervalMonthly,
			prior:    time.Time{},
			want:     time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC),
		},
		{
			name:     "first yearly activation",
			interval: IntervalYearly,
			prior:    time.Time{},
			want:     time.Date(2027, 6, 15, 12, 0, 0, 0, time.UTC),
		},
		{
			name:     "early renewal extends the paid-for period",
			interval: IntervalMonthly,
			prior:    time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC),
			want:     time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "late renewal anchors on now",
			interval: IntervalMonthly,
			prior:    time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
			want:     time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC),
		},
		{
			name:     "one-time interval grants nothing recurring",
			interval: IntervalOneTime,
			prior:    time.Time{},
			want:     now,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextPeriodEnd(tt.interval, tt.prior, now); !got.Equal(tt.want) {
				t.Errorf("NextPeriodEnd(%s, %v, now) = %v; want %v", tt.interval, tt.prior, got, tt.want)
			}
		})
	}
}

func TestSubscriptionIsExpired(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		sub  Subscription
		want bool
	}{
		{
			name: "active and in period",
			sub:  Subscription{Status: SubscriptionStatusActive, CurrentPeriodEnd: now.AddDate(0, 0, 10)},
			want: false,
		},
		{
			name: "active but lapsed",
			sub:  Subscription{Status: SubscriptionStatusActive, CurrentPeriodEnd: now.AddDate(0, 0, -1)},
			want: true,
		},
		{
			name: "already expired status is not re-flagged",
			sub:  Subscription{Status: SubscriptionStatusExpired, CurrentPeriodEnd: now.AddDate(0, 0, -30)},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sub.IsExpired(now); got != tt.want {
				t.Errorf("IsExpired() = %v; want %v", got, tt.want)
			}
		})
	}
}
