package util

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter throttles repeated work behind a token bucket.
type Limiter struct {
	inner *rate.Limiter
}

// NewIntervalLimiter allows one event per interval. A non-positive interval
// never throttles.
func NewIntervalLimiter(interval time.Duration) *Limiter {
	if interval <= 0 {
		return &Limiter{inner: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{inner: rate.NewLimiter(rate.Every(interval), 1)}
}

// Allow reports whether an event may happen now, consuming a token if so.
func (l *Limiter) Allow() bool {
	return l.inner.Allow()
}

// Wait blocks until a token is available or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.inner.Wait(ctx)
}
