package middleware

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCounterStoreWindow(t *testing.T) {
	store := NewMemoryCounterStore()
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := store.IncrementWindow(ctx, "client-a", time.Minute)
		if err != nil {
			t.Fatalf("IncrementWindow() error = %v", err)
		}
		if got != want {
			t.Errorf("IncrementWindow() = %d; want %d", got, want)
		}
	}

	// independent keys do not share counts
	got, err := store.IncrementWindow(ctx, "client-b", time.Minute)
	if err != nil {
		t.Fatalf("IncrementWindow() error = %v", err)
	}
	if got != 1 {
		t.Errorf("IncrementWindow(new key) = %d; want 1", got)
	}
}

func TestMemoryCounterStoreExpiry(t *testing.T) {
	store := NewMemoryCounterStore()
	ctx := context.Background()

	if _, err := store.IncrementWindow(ctx, "client", time.Nanosecond); err != nil {
		t.Fatalf("IncrementWindow() error = %v", err)
	}
	time.Sleep(2 * time.Millisecond)

	got, err := store.IncrementWindow(ctx, "client", time.Minute)
	if err != nil {
		t.Fatalf("IncrementWindow() error = %v", err)
	}
	if got != 1 {
		t.Errorf("IncrementWindow(after expiry) = %d; want 1", got)
	}
}
