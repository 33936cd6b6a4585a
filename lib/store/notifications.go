// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"time"

	"github.com/elhaouchomar/01blog/lib/api"
	"github.com/elhaouchomar/01blog/lib/retry"
	"github.com/elhaouchomar/01blog/lib/sanitize"
)

// LoadNotifications fetches the first notifications page and resets
// the cache and the unread counter.
func (store *Store) LoadNotifications(ctx context.Context) error {
	notifications, err := retry.Do(ctx, store.clock, store.policy(), func(ctx context.Context) ([]api.Notification, error) {
		return store.api.Notifications(ctx, 0, notificationsPageSize)
	})
	if err != nil {
		return store.fail("load notifications", err)
	}
	store.setNotifications(notifications)
	return nil
}

// MarkRead marks one notification as read, updating the cache in
// place and the unread counter with it.
func (store *Store) MarkRead(ctx context.Context, id int64) error {
	if err := store.checkBanned(); err != nil {
		return err
	}
	if err := store.api.MarkNotificationRead(ctx, id); err != nil {
		return store.fail("mark notification read", err)
	}
	store.notifications.Update(func(current []api.Notification) []api.Notification {
		out := cloneNotifications(current)
		for i := range out {
			if out[i].ID == id {
				out[i].IsRead = true
			}
		}
		store.unread.Set(countUnread(out))
		return out
	})
	return nil
}

// MarkAllRead marks every notification as read.
func (store *Store) MarkAllRead(ctx context.Context) error {
	if err := store.checkBanned(); err != nil {
		return err
	}
	if err := store.api.MarkAllNotificationsRead(ctx); err != nil {
		return store.fail("mark all notifications read", err)
	}
	store.notifications.Update(func(current []api.Notification) []api.Notification {
		out := cloneNotifications(current)
		for i := range out {
			out[i].IsRead = true
		}
		store.unread.Set(0)
		return out
	})
	return nil
}

// StartPolling begins periodic notification refreshes. Repeated calls
// while a poller is running are no-ops. The poller stops when ctx is
// done or StopPolling is called.
//
// Poll failures are silent: the cache keeps its last good value. When
// the server is unreachable the poller slows down until a poll
// succeeds again.
func (store *Store) StartPolling(ctx context.Context) {
	store.pollMu.Lock()
	defer store.pollMu.Unlock()
	if store.pollStop != nil {
		return
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	store.pollStop = stop
	store.pollDone = done
	go store.pollLoop(ctx, stop, done)
}

// StopPolling stops the poller and waits for it to exit. Safe to call
// when no poller is running.
func (store *Store) StopPolling() {
	store.pollMu.Lock()
	stop, done := store.pollStop, store.pollDone
	store.pollStop, store.pollDone = nil, nil
	store.pollMu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (store *Store) pollLoop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	delay := pollInterval
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-store.clock.After(delay):
		}
		err := store.pollOnce(ctx)
		switch {
		case err == nil:
			delay = pollInterval
		case api.IsUnreachable(err):
			store.logger.Debug("notification poll unreachable, backing off", "error", err)
			delay = pollBackoff
		default:
			store.logger.Debug("notification poll failed", "error", err)
			delay = pollInterval
		}
	}
}

// pollOnce is a single silent refresh: no retries, but a ban or auth
// failure observed on a tick still runs the shared session handling.
func (store *Store) pollOnce(ctx context.Context) error {
	pollCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	notifications, err := store.api.Notifications(pollCtx, 0, notificationsPageSize)
	if err != nil {
		if !store.tripBannedGate(err) && api.IsAuthError(err) {
			store.clearSession()
		}
		return err
	}
	store.setNotifications(notifications)
	return nil
}

func (store *Store) setNotifications(notifications []api.Notification) {
	for i := range notifications {
		notifications[i].Message = sanitize.PlainText(notifications[i].Message)
		notifications[i].ActorName = sanitize.PlainText(notifications[i].ActorName)
	}
	store.notifications.Set(notifications)
	store.unread.Set(countUnread(notifications))
}

func countUnread(notifications []api.Notification) int {
	unread := 0
	for _, notification := range notifications {
		if !notification.IsRead {
			unread++
		}
	}
	return unread
}
