package models

import "testing"

func TestOrderItemsTotalCents(t *testing.T) {
	tests := []struct {
		name  string
		items []OrderItem
		want  int64
	}{
		{
			name: "no items",
			want: 0,
		},
		{
			name: "single item",
			items: []OrderItem{
				{PriceAmountCents: 5000, Quantity: 1},
			},
			want: 5000,
		},
		{
			name: "quantity multiplies",
			items: []OrderItem{
				{PriceAmountCents: 2500, Quantity: 3},
			},
			want: 7500,
		},
		{
			name: "zero quantity counts as one",
			items: []OrderItem{
				{PriceAmountCents: 2500},
			},
			want: 2500,
		},
		{
			name: "mixed lines",
			items: []OrderItem{
				{PriceAmountCents: 10000, Quantity: 1},
				{PriceAmountCents: 1500, Quantity: 2},
			},
			want: 13000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := Order{Items: tt.items}
			if got := order.ItemsTotalCents(); got != tt.want {
				t.Errorf("ItemsTotalCents() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestOrderTransitions(t *testing.T) {
	tests := []struct {
		status    OrderStatus
		canCancel bool
		canRefund bool
	}{
		{OrderStatusPending, true, false},
		{OrderStatusPaid, false, true},
		{OrderStatusFailed, false, false},
		{OrderStatusRefunded, false, false},
		{OrderStatusCanceled, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			order := Order{Status: tt.status}
			if got := order.CanCancel(); got != tt.canCancel {
				t.Errorf("CanCancel() = %v; want %v", got, tt.canCancel)
			}
			if got := order.CanRefund(); got != tt.canRefund {
				t.Errorf("CanRefund() = %v; want %v", got, tt.canRefund)
			}
		})
	}
}
