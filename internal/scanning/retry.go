package scanning

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"
)

// RetryPolicy controls exponential backoff for throttled calls
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// JitterMin and JitterMax bound the random fraction of the delay added on top
	JitterMin float64
	JitterMax float64
}

// DefaultRetryPolicy returns the backoff used against rate-limited services
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   3 * time.Second,
		MaxDelay:    120 * time.Second,
		JitterMin:   0.1,
		JitterMax:   0.3,
	}
}

// Backoff returns the delay before the retry following the zero-indexed attempt.
// frac is a uniform sample in [0,1).
func (p RetryPolicy) Backoff(attempt int, frac float64) time.Duration {
	delay := p.BaseDelay
	for i := 0; i < attempt && delay < p.MaxDelay; i++ {
		delay *= 2
	}
	if delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	jitter := p.JitterMin + frac*(p.JitterMax-p.JitterMin)
	return delay + time.Duration(float64(delay)*jitter)
}

// Call performs one round trip to the inference service
type Call func(ctx context.Context) (string, error)

// Invoker runs calls through the shared rate limiter, retrying throttled
// failures with backoff and failing fast on everything else
type Invoker struct {
	limiter *RateLimiter
	policy  RetryPolicy
	clock   Clock
	random  func() float64
	logger  *slog.Logger
}

// NewInvoker creates an Invoker. A nil limiter disables spacing between calls.
func NewInvoker(limiter *RateLimiter, policy RetryPolicy, clock Clock, logger *slog.Logger) *Invoker {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Invoker{
		limiter: limiter,
		policy:  policy,
		clock:   clock,
		random:  rand.Float64,
		logger:  logger,
	}
}

// WithRandom replaces the jitter source, for deterministic tests
func (i *Invoker) WithRandom(random func() float64) *Invoker {
	i.random = random
	return i
}

// Invoke runs call until it succeeds, fails fatally, or exhausts MaxAttempts
func (i *Invoker) Invoke(ctx context.Context, call Call) (string, error) {
	var lastErr error
	for attempt := 0; attempt < i.policy.MaxAttempts; attempt++ {
		if i.limiter != nil {
			if err := i.limiter.Acquire(ctx); err != nil {
				return "", err
			}
		}

		resp, err := call(ctx)
		if err == nil {
			return resp, nil
		}
		if !IsRetryable(err) {
			i.logger.Error("Inference call failed", "attempt", attempt+1, "error", err)
			return "", fmt.Errorf("%w: %w", ErrUpstream, err)
		}

		lastErr = err
		if attempt == i.policy.MaxAttempts-1 {
			break
		}

		delay := i.policy.Backoff(attempt, i.random())
		i.logger.Warn("Rate limit reached, backing off",
			"attempt", attempt+1,
			"max_attempts", i.policy.MaxAttempts,
			"delay", delay,
		)
		if err := i.clock.Sleep(ctx, delay); err != nil {
			return "", fmt.Errorf("waiting to retry: %w", err)
		}
	}

	i.logger.Error("Inference retries exhausted", "attempts", i.policy.MaxAttempts, "error", lastErr)
	return "", fmt.Errorf("%w after %d attempts: %w", ErrRetryExhausted, i.policy.MaxAttempts, lastErr)
}
