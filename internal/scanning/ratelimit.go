package scanning

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// DefaultMinInterval is the minimum spacing between outbound inference calls
const DefaultMinInterval = time.Second

// RateLimiter is a single process-wide gate enforcing a minimum interval between
// acquisitions. Waiters are served in the order they reserved.
type RateLimiter struct {
	limiter *rate.Limiter
	clock   Clock
}

// NewRateLimiter creates a limiter allowing one acquisition per minInterval
func NewRateLimiter(minInterval time.Duration, clock Clock) *RateLimiter {
	if minInterval <= 0 {
		minInterval = DefaultMinInterval
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Every(minInterval), 1),
		clock:   clock,
	}
}

// Acquire blocks until at least the minimum interval has elapsed since the
// previous acquisition
func (r *RateLimiter) Acquire(ctx context.Context) error {
	now := r.clock.Now()
	reservation := r.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return fmt.Errorf("rate limiter refused reservation")
	}

	delay := reservation.DelayFrom(now)
	if delay <= 0 {
		return nil
	}
	if err := r.clock.Sleep(ctx, delay); err != nil {
		reservation.CancelAt(r.clock.Now())
		return fmt.Errorf("waiting for rate limiter: %w", err)
	}
	return nil
}
