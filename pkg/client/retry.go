package client

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/satishbabariya/rootquery/internal/core/query/domain"
)

// RetryConfig holds retry configuration.
type RetryConfig struct {
	MaxAttempts   int           // Maximum number of attempts, including the first
	InitialDelay  time.Duration // Delay before the first retry
	MaxDelay      time.Duration // Maximum delay between retries
	BackoffFactor float64       // Exponential backoff multiplier
	Jitter        bool          // Add ±25% randomness to each delay
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
		Jitter:        true,
	}
}

// Retry runs fn until it succeeds, fails with an error that is not
// retryable, or runs out of attempts. Only connection errors are retried.
func Retry(ctx context.Context, config *RetryConfig, fn func(ctx context.Context) error) error {
	if config == nil || config.MaxAttempts <= 1 {
		return fn(ctx)
	}

	var lastErr error
	delay := config.InitialDelay

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !domain.IsRetryable(err) {
			return err
		}
		if attempt == config.MaxAttempts-1 {
			break
		}

		actualDelay := delay
		if config.Jitter && delay >= 4 {
			jitterRange := delay / 4
			actualDelay = delay - jitterRange + time.Duration(rand.Int63n(int64(jitterRange)*2))
		}

		timer := time.NewTimer(actualDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}

		delay = time.Duration(float64(delay) * config.BackoffFactor)
		if config.MaxDelay > 0 && delay > config.MaxDelay {
			delay = config.MaxDelay
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrRetryExhausted, config.MaxAttempts, lastErr)
}
