// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts the time operations used by the client: reading the
// current time, one-shot timers, and periodic tickers. Production code
// injects Real(); tests inject NewFake() and advance time explicitly.
//
// Code that schedules work (retry delays, the session recovery timer,
// the notification poller, the refresh throttle) must go through a
// Clock rather than the time package, or it cannot be tested without
// real sleeps.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives once, after d has elapsed.
	After(d time.Duration) <-chan time.Time

	// AfterFunc schedules f to run after d. The returned Timer can
	// cancel the pending call with Stop.
	AfterFunc(d time.Duration, f func()) Timer

	// NewTicker returns a Ticker delivering ticks every d. Panics if
	// d <= 0, matching time.NewTicker.
	NewTicker(d time.Duration) Ticker
}

// Timer is a scheduled one-shot event created by AfterFunc.
type Timer interface {
	// Stop cancels the timer. Returns false if it already fired or
	// was already stopped.
	Stop() bool
}

// Ticker delivers periodic ticks on C until stopped.
type Ticker interface {
	// Chan returns the tick channel. Buffered with capacity 1; ticks
	// are dropped, not queued, when the consumer falls behind.
	Chan() <-chan time.Time

	// Stop turns the ticker off. The channel is not closed.
	Stop()
}
