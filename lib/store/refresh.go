// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package store

import "context"

// RefreshAll reloads every cache appropriate to the viewer's role.
// Calls landing within the throttle window of the previous refresh
// are suppressed; the return value reports whether the refresh ran.
//
// Partial failure is tolerated: each load failure is logged and the
// others proceed, so one flaky endpoint does not blank the rest of
// the state. The first error is returned.
func (store *Store) RefreshAll(ctx context.Context) (bool, error) {
	store.refreshMu.Lock()
	now := store.clock.Now()
	if !store.lastRefresh.IsZero() && now.Sub(store.lastRefresh) < refreshWindow {
		store.refreshMu.Unlock()
		return false, nil
	}
	store.lastRefresh = now
	store.refreshMu.Unlock()

	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	user, err := store.LoadSession(ctx)
	record(err)
	record(store.FetchFeed(ctx, true))
	if user == nil {
		return true, firstErr
	}

	record(store.LoadNotifications(ctx))
	record(store.LoadManagementPosts(ctx))
	if user.IsAdmin() {
		record(store.LoadStats(ctx))
		record(store.LoadReports(ctx))
		record(store.LoadUsers(ctx))
	}
	return true, firstErr
}
