package store

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Retry parameters: 5 tries, 2s initial delay, doubling each time.
const (
	retryTries           = 5
	retryInitialInterval = 2 * time.Second
	retryMultiplier      = 2
)

// withRetry runs op, retrying transient errors with bounded exponential
// backoff. Fatal errors abort immediately. If the budget is exhausted the
// last transient error is wrapped in ErrUnavailable.
func withRetry(ctx context.Context, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = retryInitialInterval
	bo.Multiplier = retryMultiplier
	bo.RandomizationFactor = 0

	err := backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if IsTransient(err) {
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithContext(backoff.WithMaxRetries(bo, retryTries-1), ctx))

	if err != nil && IsTransient(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
