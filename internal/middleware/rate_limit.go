package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// CounterStore is the injected backing for rate-limit counters. Deployments
// with multiple instances use the Redis implementation; tests and single
// binaries can use the in-memory one. No package-level state.
type CounterStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit rejects a client with 429 once it exceeds `limit` requests per
// window. Clients are keyed by IP.
func RateLimit(store CounterStore, limit int64, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "ratelimit:" + c.RealIP()
			count, err := store.IncrementWindow(c.Request().Context(), key, window)
			if err != nil {
				// a broken counter store must not take the API down
				c.Logger().Warnf("rate limit store error: %v", err)
				return next(c)
			}
			if count > limit {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}

// MemoryCounterStore is a CounterStore for single-process deployments
type MemoryCounterStore struct {
	mu     sync.Mutex
	counts map[string]int64
	resets map[string]time.Time
}

func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{
		counts: make(map[string]int64),
		resets: make(map[string]time.Time),
	}
}

func (s *MemoryCounterStore) IncrementWindow(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if reset, ok := s.resets[key]; !ok || now.After(reset) {
		s.counts[key] = 0
		s.resets[key] = now.Add(window)
	}
	s.counts[key]++
	return s.counts[key], nil
}
