package ai

import (
	"context"
	"time"
)

const (
	retryMaxAttempts = 3
	retryBaseDelay   = 2 * time.Second
)

// retryOnRateLimit runs fn up to retryMaxAttempts times, sleeping 2s, 4s, ...
// between attempts. Only rate-limit-class errors are retried; anything else
// aborts immediately. The sleep function is injectable for tests.
func retryOnRateLimit[T any](ctx context.Context, sleep func(context.Context, time.Duration) error, fn func() (T, error)) (T, error) {
	var zero T

	delay := retryBaseDelay
	for attempt := 1; ; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !IsRateLimited(err) || attempt >= retryMaxAttempts {
			return zero, err
		}
		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
		delay *= 2
	}
}

func sleepFor(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
