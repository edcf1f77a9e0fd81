package database

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy describes an exponential backoff schedule for a fallible
// operation: at most MaxAttempts calls, sleeping InitialDelay before the
// second attempt and multiplying by BackoffFactor up to MaxDelay.
type RetryPolicy struct {
	maxAttempts   int
	initialDelay  time.Duration
	backoffFactor float64
	maxDelay      time.Duration
}

// Default retry schedules. Stores retry per-statement; the coordinator uses
// a slower, longer schedule for its startup refresh.
const (
	DefaultStoreMaxAttempts   = 3
	DefaultStoreInitialDelay  = time.Second
	DefaultStartupMaxAttempts = 5
	DefaultBackoffFactor      = 2.0
)

// DefaultStartupInitialDelay is the first startup-refresh backoff delay.
var DefaultStartupInitialDelay = 1500 * time.Millisecond

// NewRetryPolicy creates a RetryPolicy. Non-positive attempts mean a single
// try with no retries.
func NewRetryPolicy(maxAttempts int, initialDelay time.Duration, backoffFactor float64, maxDelay time.Duration) RetryPolicy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if backoffFactor < 1 {
		backoffFactor = 1
	}
	return RetryPolicy{
		maxAttempts:   maxAttempts,
		initialDelay:  initialDelay,
		backoffFactor: backoffFactor,
		maxDelay:      maxDelay,
	}
}

// StoreRetryPolicy returns the default per-statement schedule: 3 attempts,
// 1s initial delay, doubling, capped at 10s.
func StoreRetryPolicy() RetryPolicy {
	return NewRetryPolicy(DefaultStoreMaxAttempts, DefaultStoreInitialDelay, DefaultBackoffFactor, 10*time.Second)
}

// StartupRetryPolicy returns the default startup-refresh schedule:
// 5 attempts, 1.5s initial delay, doubling, capped at 15s.
func StartupRetryPolicy() RetryPolicy {
	return NewRetryPolicy(DefaultStartupMaxAttempts, DefaultStartupInitialDelay, DefaultBackoffFactor, 15*time.Second)
}

// MaxAttempts returns the attempt limit.
func (p RetryPolicy) MaxAttempts() int { return p.maxAttempts }

// InitialDelay returns the delay before the second attempt.
func (p RetryPolicy) InitialDelay() time.Duration { return p.initialDelay }

// BackoffFactor returns the delay multiplier.
func (p RetryPolicy) BackoffFactor() float64 { return p.backoffFactor }

// MaxDelay returns the backoff cap.
func (p RetryPolicy) MaxDelay() time.Duration { return p.maxDelay }

// WithMaxAttempts returns a copy with the attempt limit replaced.
func (p RetryPolicy) WithMaxAttempts(n int) RetryPolicy {
	if n >= 1 {
		p.maxAttempts = n
	}
	return p
}

// WithInitialDelay returns a copy with the initial delay replaced.
func (p RetryPolicy) WithInitialDelay(d time.Duration) RetryPolicy {
	if d >= 0 {
		p.initialDelay = d
	}
	return p
}

// Retry runs fn under the policy, retrying only when retryable reports the
// error as transient. The last error is returned once attempts are
// exhausted; a non-retryable error is returned immediately. Context
// cancellation aborts both the operation and any pending backoff sleep.
func Retry(ctx context.Context, policy RetryPolicy, retryable func(error) bool, fn func(ctx context.Context) error) error {
	delay := policy.initialDelay
	var lastErr error

	for attempt := 1; attempt <= policy.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if retryable != nil && !retryable(lastErr) {
			return lastErr
		}
		if attempt == policy.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * policy.backoffFactor)
		if policy.maxDelay > 0 && delay > policy.maxDelay {
			delay = policy.maxDelay
		}
	}

	return fmt.Errorf("retries exhausted after %d attempts: %w", policy.maxAttempts, lastErr)
}
