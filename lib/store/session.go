// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"

	"github.com/elhaouchomar/01blog/lib/api"
	"github.com/elhaouchomar/01blog/lib/retry"
)

// LoadSession establishes the session state from the server-side
// cookie session, if any. It returns the session owner, or nil when
// no valid session exists.
//
// An unreachable server is not a verdict on the session: LoadSession
// keeps re-attempting after a short pause until it gets a definitive
// answer or ctx is done.
func (store *Store) LoadSession(ctx context.Context) (*api.User, error) {
	if err := store.api.PrimeCSRF(ctx); err != nil {
		store.logger.Debug("csrf prime failed", "error", err)
	}

	for {
		user, err := retry.Do(ctx, store.clock, store.sessionPolicy(), store.api.Profile)
		if err == nil {
			if user.Banned {
				// A banned profile is never cached; the flow shows
				// the notice and forces the logout.
				store.authChecked.Set(true)
				store.startBannedFlow("Your account has been banned.")
				return nil, ErrBanned
			}
			store.user.Set(user)
			store.authChecked.Set(true)
			return user, nil
		}
		if store.tripBannedGate(err) {
			store.authChecked.Set(true)
			return nil, ErrBanned
		}
		if api.IsAuthError(err) {
			store.clearSession()
			store.authChecked.Set(true)
			return nil, nil
		}
		if !api.IsUnreachable(err) {
			store.authChecked.Set(true)
			return nil, store.fail("load session", err)
		}
		// An unreachable server still resolves the check; consumers
		// waiting on the verdict proceed as anonymous while recovery
		// keeps trying.
		store.authChecked.Set(true)
		store.logger.Info("server unreachable, scheduling session recovery", "error", err)
		select {
		case <-store.clock.After(recoveryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Login authenticates with the given credentials and loads the
// session owner. A banned account fails with ErrBanned and triggers
// the banned flow.
func (store *Store) Login(ctx context.Context, credentials api.Credentials) (*api.User, error) {
	if err := store.api.PrimeCSRF(ctx); err != nil {
		store.logger.Debug("csrf prime failed", "error", err)
	}
	if _, err := store.api.Authenticate(ctx, credentials); err != nil {
		return nil, store.fail("login", err)
	}
	user, err := retry.Do(ctx, store.clock, store.sessionPolicy(), store.api.Profile)
	if err != nil {
		return nil, store.fail("login", err)
	}
	if user.Banned {
		store.authChecked.Set(true)
		store.startBannedFlow("Your account has been banned.")
		return nil, ErrBanned
	}
	store.user.Set(user)
	store.authChecked.Set(true)
	return user, nil
}

// Register creates an account and logs it in.
func (store *Store) Register(ctx context.Context, request api.RegisterRequest) (*api.User, error) {
	if err := ValidateName("firstname", request.Firstname); err != nil {
		return nil, err
	}
	if err := ValidateName("lastname", request.Lastname); err != nil {
		return nil, err
	}
	if err := store.api.PrimeCSRF(ctx); err != nil {
		store.logger.Debug("csrf prime failed", "error", err)
	}
	if _, err := store.api.Register(ctx, request); err != nil {
		return nil, store.fail("register", err)
	}
	return store.Login(ctx, api.Credentials{Email: request.Email, Password: request.Password})
}

// Logout ends the session on the server and clears every cache. The
// server call is best effort; local state is cleared regardless.
func (store *Store) Logout(ctx context.Context) error {
	store.StopPolling()
	err := store.api.Logout(ctx)
	store.clearSession()
	if err != nil {
		store.logger.Warn("server logout failed", "error", err)
		return store.fail("logout", err)
	}
	return nil
}

// clearSession drops every cache back to its empty state. Subscribers
// see the reset like any other write.
func (store *Store) clearSession() {
	store.user.Set(nil)
	store.feed.Set(nil)
	store.managed.Set(nil)
	store.users.Set(nil)
	store.notifications.Set(nil)
	store.unread.Set(0)
	store.stats.Set(nil)
	store.reports.Set(nil)
	store.feedMu.Lock()
	store.feedPage = 0
	store.feedHasMore = true
	store.feedMu.Unlock()
}
