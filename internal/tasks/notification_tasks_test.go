package tasks

import (
	"strings"
	"testing"

	"sekolahku_echo/internal/models"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name     string
		cents    int64
		currency string
		want     string
	}{
		{"whole amount", 150000, "IDR", "IDR 1500.00"},
		{"with remainder", 12345, "IDR", "IDR 123.45"},
		{"zero", 0, "USD", "USD 0.00"},
		{"single cent", 1, "IDR", "IDR 0.01"},
		{"negative", -2500, "IDR", "IDR -25.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatAmount(tt.cents, tt.currency)
			if got != tt.want {
				t.Errorf("formatAmount(%d, %q) = %q, want %q", tt.cents, tt.currency, got, tt.want)
			}
		})
	}
}

func TestBuildReceiptMessage(t *testing.T) {
	order := models.Order{
		OrderNumber:      "order-abc",
		TotalAmountCents: 10000,
		Currency:         "IDR",
		Buyer:            models.User{Name: "Siti"},
		School:           models.School{Name: "SMA 1"},
		Items: []models.OrderItem{
			{ProductType: models.ProductSubjectCourse, ProductRefID: 7, PriceAmountCents: 10000, Quantity: 1},
		},
	}

	t.Run("payment receipt", func(t *testing.T) {
		subject, body := buildReceiptMessage(order, SendReceiptArgs{OrderID: 1, Kind: "payment"})
		if !strings.Contains(subject, "order-abc") {
			t.Errorf("subject %q missing order number", subject)
		}
		for _, want := range []string{"Siti", "SMA 1", "IDR 100.00", "SUBJECT_COURSE #7"} {
			if !strings.Contains(body, want) {
				t.Errorf("body missing %q:\n%s", want, body)
			}
		}
	})

	t.Run("refund notice", func(t *testing.T) {
		subject, body := buildReceiptMessage(order, SendReceiptArgs{OrderID: 1, Kind: "refund", AmountCents: 2500})
		if !strings.Contains(subject, "Refund") {
			t.Errorf("subject %q should mention refund", subject)
		}
		if !strings.Contains(body, "IDR 25.00") {
			t.Errorf("body missing refund amount:\n%s", body)
		}
	})
}
