// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync"
	"time"
)

// NewFake returns a Fake clock pinned to initial. Time moves only when
// Advance is called; pending timers and tickers fire in deadline order
// as the clock passes them.
//
// Fake is safe for concurrent use.
func NewFake(initial time.Time) *Fake {
	f := &Fake{now: initial}
	f.changed = sync.NewCond(&f.mu)
	return f
}

// Fake is a deterministic Clock for tests. AfterFunc callbacks run
// synchronously inside Advance, so advancing the clock from within a
// callback deadlocks; tests must not do that.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	pending []*fakeEvent
	changed *sync.Cond
}

// fakeEvent is a pending timer, ticker tick, or After send.
type fakeEvent struct {
	when     time.Time
	ch       chan time.Time // nil for AfterFunc events
	fn       func()         // nil for channel events
	every    time.Duration  // non-zero for ticker events
	canceled bool
}

// Now returns the fake current time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// After returns a channel that receives once the clock advances past
// now+d. A non-positive d fires immediately.
func (f *Fake) After(d time.Duration) <-chan time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- f.now
		return ch
	}
	f.add(&fakeEvent{when: f.now.Add(d), ch: ch})
	return ch
}

// AfterFunc schedules f to run during a future Advance. A non-positive
// d runs fn synchronously before AfterFunc returns.
func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	if d <= 0 {
		f.mu.Unlock()
		fn()
		return fakeTimer{}
	}
	event := &fakeEvent{when: f.now.Add(d), fn: fn}
	f.add(event)
	f.mu.Unlock()
	return fakeTimer{f: f, event: event}
}

// NewTicker returns a ticker firing every d fake-time. Panics if d <= 0.
func (f *Fake) NewTicker(d time.Duration) Ticker {
	if d <= 0 {
		panic("clock: non-positive ticker interval")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	event := &fakeEvent{when: f.now.Add(d), ch: make(chan time.Time, 1), every: d}
	f.add(event)
	return fakeTicker{f: f, event: event}
}

// Advance moves the clock forward by d, firing every pending event
// whose deadline falls within the new window, in deadline order.
// Channel sends are non-blocking: a tick nobody is ready for is
// dropped, matching time.Ticker.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.now = target
	f.mu.Unlock()

	for {
		event := f.nextExpired(target)
		if event == nil {
			return
		}
		if event.fn != nil {
			event.fn()
		} else {
			select {
			case event.ch <- target:
			default:
			}
		}
	}
}

// BlockUntilPending waits until at least n events (timers, tickers,
// After channels) are registered and unfired. Tests use it to
// synchronize with goroutines that schedule their own timers before
// advancing the clock.
func (f *Fake) BlockUntilPending(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for f.pendingLocked() < n {
		f.changed.Wait()
	}
}

// PendingCount reports the number of live scheduled events.
func (f *Fake) PendingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pendingLocked()
}

func (f *Fake) pendingLocked() int {
	count := 0
	for _, event := range f.pending {
		if !event.canceled {
			count++
		}
	}
	return count
}

// add registers an event. Caller holds f.mu.
func (f *Fake) add(event *fakeEvent) {
	f.pending = append(f.pending, event)
	f.changed.Broadcast()
}

// nextExpired pops the earliest live event with deadline <= target,
// rescheduling tickers for their next interval. Returns nil when no
// event is due.
func (f *Fake) nextExpired(target time.Time) *fakeEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	var earliest *fakeEvent
	index := -1
	for i, event := range f.pending {
		if event.canceled || event.when.After(target) {
			continue
		}
		if earliest == nil || event.when.Before(earliest.when) {
			earliest = event
			index = i
		}
	}
	if earliest == nil {
		return nil
	}
	if earliest.every > 0 {
		// Ticker: keep it pending at the next interval.
		f.pending[index] = &fakeEvent{
			when:  earliest.when.Add(earliest.every),
			ch:    earliest.ch,
			every: earliest.every,
		}
	} else {
		f.pending = append(f.pending[:index], f.pending[index+1:]...)
	}
	return earliest
}

type fakeTimer struct {
	f     *Fake
	event *fakeEvent
}

func (t fakeTimer) Stop() bool {
	if t.f == nil {
		return false
	}
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	if t.event.canceled {
		return false
	}
	for _, event := range t.f.pending {
		if event == t.event {
			t.event.canceled = true
			return true
		}
	}
	// Already fired and removed from the pending list.
	return false
}

type fakeTicker struct {
	f     *Fake
	event *fakeEvent
}

func (t fakeTicker) Chan() <-chan time.Time { return t.event.ch }

func (t fakeTicker) Stop() {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	// Tickers are replaced on every fire; cancel whichever incarnation
	// currently shares our channel.
	for _, event := range t.f.pending {
		if event.ch == t.event.ch {
			event.canceled = true
		}
	}
}
