package service

import (
	"context"
	"time"
)

// SleepFunc delays for d or returns early with the context's error. Tests
// inject a recording implementation to avoid wall-clock waits.
type SleepFunc func(ctx context.Context, d time.Duration) error

// ContextSleep is the production SleepFunc.
func ContextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// BackoffFunc maps a 1-based attempt number to the delay inserted before
// the next attempt.
type BackoffFunc func(attempt int) time.Duration

// LinearBackoff returns attempt × unit.
func LinearBackoff(unit time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * unit
	}
}

// RetryPolicy bounds retries of a failing operation.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     BackoffFunc
}

// DefaultRetryPolicy matches the schedule the index builder has always
// used: three attempts with 1s, 2s linear backoff between them.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff:     LinearBackoff(time.Second),
	}
}

// Retry runs op up to policy.MaxAttempts times, sleeping per the backoff
// schedule between attempts. onRetry is invoked after each failed attempt
// that will be retried. The last attempt's error is returned unwrapped.
func Retry(ctx context.Context, policy RetryPolicy, sleep SleepFunc, op func() error, onRetry func(attempt int, err error)) error {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	if sleep == nil {
		sleep = ContextSleep
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		if onRetry != nil {
			onRetry(attempt, lastErr)
		}
		var delay time.Duration
		if policy.Backoff != nil {
			delay = policy.Backoff(attempt)
		}
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
	return lastErr
}
