// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"
	"time"

	"github.com/elhaouchomar/01blog/lib/api"
)

// ErrBanned is returned by store operations whose underlying request
// was rejected because the account is banned. The banned flow (notice
// plus forced logout) runs once in the background regardless of how
// many operations fail concurrently.
var ErrBanned = errors.New("store: account is banned")

// Dialog presents notices to the person using the client.
type Dialog interface {
	// ShowBanned displays the banned-account notice and returns when
	// it has been acknowledged.
	ShowBanned(ctx context.Context, message string)

	// ShowRateLimited displays a transient rate-limit warning. It must
	// not block.
	ShowRateLimited(message string)
}

type nopDialog struct{}

func (nopDialog) ShowBanned(context.Context, string) {}

func (nopDialog) ShowRateLimited(string) {}

// GateState tracks the banned-account flow.
type GateState int

const (
	// GateIdle means no ban has been observed.
	GateIdle GateState = iota

	// GateDetected means a banned response arrived and the flow is
	// about to present the notice.
	GateDetected

	// GateShown means the notice is on screen, waiting for an
	// acknowledgement.
	GateShown

	// GateLoggingOut means the notice was acknowledged and the forced
	// logout is in progress.
	GateLoggingOut
)

// Gate reports the current banned-flow state.
func (store *Store) Gate() GateState {
	store.gateMu.Lock()
	defer store.gateMu.Unlock()
	return store.gateState
}

// checkBanned guards write paths: while the cached session owner is
// flagged banned, no mutation may reach the server. It starts the
// banned flow and returns ErrBanned, or nil when the session is clean.
func (store *Store) checkBanned() error {
	user := store.user.Get()
	if user == nil || !user.Banned {
		return nil
	}
	store.startBannedFlow("Your account has been banned.")
	return ErrBanned
}

// tripBannedGate inspects err and, on the first banned response,
// starts the notice-and-logout flow. Later banned responses while the
// flow is running are absorbed. Reports whether err was a ban.
func (store *Store) tripBannedGate(err error) bool {
	if !api.IsBanned(err) {
		return false
	}
	var apiErr *api.APIError
	message := "Your account has been banned."
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		message = apiErr.Message
	}
	store.startBannedFlow(message)
	return true
}

// startBannedFlow launches the notice-and-logout flow. Only the first
// caller moves the gate out of GateIdle; for everyone else the flow is
// already running.
func (store *Store) startBannedFlow(message string) {
	store.gateMu.Lock()
	if store.gateState != GateIdle {
		store.gateMu.Unlock()
		return
	}
	store.gateState = GateDetected
	store.gateMu.Unlock()
	go store.runBannedFlow(message)
}

func (store *Store) runBannedFlow(message string) {
	store.setGate(GateShown)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	store.dialog.ShowBanned(ctx, message)

	store.setGate(GateLoggingOut)
	if err := store.api.Logout(ctx); err != nil {
		store.logger.Warn("logout after ban failed", "error", err)
	}
	store.clearSession()
	store.setGate(GateIdle)
}

func (store *Store) setGate(state GateState) {
	store.gateMu.Lock()
	store.gateState = state
	store.gateMu.Unlock()
}
