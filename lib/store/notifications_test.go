// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/elhaouchomar/01blog/lib/api"
	"github.com/elhaouchomar/01blog/lib/testutil"
)

func TestLoadNotificationsTracksUnread(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/notifications", func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(t, writer, []api.Notification{
			{ID: 1, Type: api.NotificationLike, IsRead: false},
			{ID: 2, Type: api.NotificationComment, IsRead: false},
			{ID: 3, Type: api.NotificationFollow, IsRead: true},
		})
	})
	mux.HandleFunc("PUT /api/notifications/1/read", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("PUT /api/notifications/read-all", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNoContent)
	})
	store, _, _, _ := newTestStore(t, mux)

	if err := store.LoadNotifications(context.Background()); err != nil {
		t.Fatalf("LoadNotifications: %v", err)
	}
	if got := store.UnreadCount().Get(); got != 2 {
		t.Fatalf("unread = %d, want 2", got)
	}

	if err := store.MarkRead(context.Background(), 1); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if got := store.UnreadCount().Get(); got != 1 {
		t.Errorf("unread after MarkRead = %d, want 1", got)
	}
	if !store.Notifications().Get()[0].IsRead {
		t.Error("notification 1 not marked read in cache")
	}

	if err := store.MarkAllRead(context.Background()); err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if got := store.UnreadCount().Get(); got != 0 {
		t.Errorf("unread after MarkAllRead = %d, want 0", got)
	}
}

func TestPollingRefreshesNotifications(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/notifications", func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(t, writer, []api.Notification{{ID: 1, Type: api.NotificationLike}})
	})
	store, fake, _, _ := newTestStore(t, mux)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store.StartPolling(ctx)
	defer store.StopPolling()

	fake.BlockUntilPending(1)
	fake.Advance(pollInterval)
	testutil.Eventually(t, func() bool { return store.UnreadCount().Get() == 1 }, 5*time.Second, 10*time.Millisecond,
		"poll never landed")

	// A second StartPolling while one is running is a no-op: still
	// exactly one pending timer.
	fake.BlockUntilPending(1)
	store.StartPolling(ctx)
	if got := fake.PendingCount(); got != 1 {
		t.Errorf("pending timers = %d, want 1", got)
	}
}

func TestPollingBacksOffWhileUnreachable(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/notifications", func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(t, writer, []api.Notification{})
	})
	store, fake, _, transport := newTestStore(t, mux)
	transport.down.Store(true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store.StartPolling(ctx)
	defer store.StopPolling()

	fake.BlockUntilPending(1)
	fake.Advance(pollInterval)
	testutil.Eventually(t, func() bool { return transport.attempts.Load() == 1 }, 5*time.Second, 10*time.Millisecond,
		"first poll never attempted")

	// The failed poll reschedules at the slower cadence: the normal
	// interval passes without another attempt.
	fake.BlockUntilPending(1)
	fake.Advance(pollInterval)
	if got := transport.attempts.Load(); got != 1 {
		t.Fatalf("attempts = %d after %v, want still 1", got, pollInterval)
	}
	fake.Advance(pollBackoff - pollInterval)
	testutil.Eventually(t, func() bool { return transport.attempts.Load() == 2 }, 5*time.Second, 10*time.Millisecond,
		"backed-off poll never attempted")

	// Once a poll succeeds the cadence returns to normal.
	transport.down.Store(false)
	fake.BlockUntilPending(1)
	fake.Advance(pollBackoff)
	testutil.Eventually(t, func() bool { return transport.attempts.Load() == 3 }, 5*time.Second, 10*time.Millisecond,
		"recovered poll never attempted")
	fake.BlockUntilPending(1)
	fake.Advance(pollInterval)
	testutil.Eventually(t, func() bool { return transport.attempts.Load() == 4 }, 5*time.Second, 10*time.Millisecond,
		"normal-cadence poll never attempted")
}

func TestPollAuthErrorClearsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/notifications", func(writer http.ResponseWriter, request *http.Request) {
		http.Error(writer, "session expired", http.StatusUnauthorized)
	})
	store, fake, _, _ := newTestStore(t, mux)
	seedUser(store, api.User{ID: 1})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store.StartPolling(ctx)
	defer store.StopPolling()

	fake.BlockUntilPending(1)
	fake.Advance(pollInterval)
	testutil.Eventually(t, func() bool { return !store.IsLoggedIn() }, 5*time.Second, 10*time.Millisecond,
		"session survived a 401 on a poll tick")
}

func TestStopPollingIsIdempotent(t *testing.T) {
	mux := http.NewServeMux()
	var requests atomic.Int64
	mux.HandleFunc("GET /api/notifications", func(writer http.ResponseWriter, request *http.Request) {
		requests.Add(1)
		writeJSON(t, writer, []api.Notification{})
	})
	store, fake, _, _ := newTestStore(t, mux)

	store.StopPolling() // nothing running: no-op

	store.StartPolling(context.Background())
	fake.BlockUntilPending(1)
	store.StopPolling()
	store.StopPolling()

	// The canceled timer must not drive a poll.
	fake.Advance(pollInterval)
	time.Sleep(20 * time.Millisecond)
	if got := requests.Load(); got != 0 {
		t.Errorf("poll ran after StopPolling: %d requests", got)
	}
}
