// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

// Package retry implements bounded retry with linearly increasing
// delays. Whether a failure is worth retrying is the caller's call,
// expressed through the policy's Retryable predicate.
package retry

import (
	"context"
	"time"

	"github.com/elhaouchomar/01blog/lib/clock"
)

// Policy bounds a retried operation.
type Policy struct {
	// MaxRetries is the number of attempts after the first. Zero
	// means the operation runs exactly once.
	MaxRetries int

	// Delay is the base wait between attempts. The wait before
	// retry n is Delay*n, so backoff grows linearly.
	Delay time.Duration

	// Retryable decides whether an error is worth another attempt.
	// A nil predicate retries everything.
	Retryable func(error) bool
}

// Do runs op until it succeeds, exhausts the policy, or the context
// is done. The last error is returned unwrapped so callers can
// classify it.
func Do[T any](ctx context.Context, clk clock.Clock, policy Policy, op func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-clk.After(policy.Delay * time.Duration(attempt)):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return zero, lastErr
		}
		if policy.Retryable != nil && !policy.Retryable(err) {
			return zero, lastErr
		}
	}
	return zero, lastErr
}
