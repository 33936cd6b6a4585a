// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package store

import "sync"

// Cell is a single observable value. Readers get a snapshot, writers
// replace the value atomically, and subscribers are notified of every
// write through a buffered channel that coalesces bursts: a slow
// subscriber sees the latest value, not every intermediate one.
//
// Each write bumps a version counter. Optimistic mutations snapshot
// the version along with the value, and roll back with RestoreIf so
// that a rollback never clobbers a newer write that landed while the
// request was in flight.
type Cell[T any] struct {
	mu      sync.Mutex
	value   T
	version uint64
	subs    map[int]chan T
	nextSub int
}

// NewCell returns a cell holding initial at version zero.
func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{value: initial, subs: make(map[int]chan T)}
}

// Get returns the current value.
func (cell *Cell[T]) Get() T {
	cell.mu.Lock()
	defer cell.mu.Unlock()
	return cell.value
}

// Snapshot returns the current value and its version, for a later
// RestoreIf.
func (cell *Cell[T]) Snapshot() (T, uint64) {
	cell.mu.Lock()
	defer cell.mu.Unlock()
	return cell.value, cell.version
}

// Set replaces the value and notifies subscribers.
func (cell *Cell[T]) Set(value T) {
	cell.mu.Lock()
	defer cell.mu.Unlock()
	cell.value = value
	cell.version++
	cell.notifyLocked()
}

// Update applies f to the current value and stores the result. f runs
// under the cell lock and must not call back into the cell.
func (cell *Cell[T]) Update(f func(T) T) {
	cell.mu.Lock()
	defer cell.mu.Unlock()
	cell.value = f(cell.value)
	cell.version++
	cell.notifyLocked()
}

// RestoreIf writes value only if the cell is still at version, i.e.
// nothing else wrote since the matching Snapshot. Reports whether the
// restore happened.
func (cell *Cell[T]) RestoreIf(value T, version uint64) bool {
	cell.mu.Lock()
	defer cell.mu.Unlock()
	if cell.version != version {
		return false
	}
	cell.value = value
	cell.version++
	cell.notifyLocked()
	return true
}

// Subscribe registers for change notifications. The returned channel
// has capacity one and always carries the newest value; intermediate
// writes a slow consumer missed are dropped. cancel removes the
// subscription and must be called exactly once.
func (cell *Cell[T]) Subscribe() (updates <-chan T, cancel func()) {
	cell.mu.Lock()
	defer cell.mu.Unlock()
	id := cell.nextSub
	cell.nextSub++
	ch := make(chan T, 1)
	cell.subs[id] = ch
	return ch, func() {
		cell.mu.Lock()
		defer cell.mu.Unlock()
		delete(cell.subs, id)
	}
}

// notifyLocked pushes the current value to every subscriber,
// replacing any undelivered previous value. Caller holds cell.mu,
// which is also what makes the drain-then-send safe: only notifiers
// send, and they are serialized here.
func (cell *Cell[T]) notifyLocked() {
	for _, ch := range cell.subs {
		select {
		case <-ch:
		default:
		}
		ch <- cell.value
	}
}
