// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/elhaouchomar/01blog/lib/api"
	"github.com/elhaouchomar/01blog/lib/testutil"
)

func TestLoadSessionSuccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/users/me", func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(t, writer, api.User{ID: 1, Firstname: "Ada", Role: "USER"})
	})
	store, _, _, _ := newTestStore(t, mux)

	user, err := store.LoadSession(context.Background())
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	if user == nil || user.ID != 1 {
		t.Fatalf("user = %v", user)
	}
	if !store.IsLoggedIn() || store.IsAdmin() {
		t.Errorf("IsLoggedIn = %v, IsAdmin = %v; want true, false", store.IsLoggedIn(), store.IsAdmin())
	}
	if !store.AuthChecked().Get() {
		t.Error("AuthChecked still false after a verdict")
	}
}

func TestLoadSessionAnonymous(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/users/me", func(writer http.ResponseWriter, request *http.Request) {
		http.Error(writer, "no session", http.StatusUnauthorized)
	})
	store, _, _, _ := newTestStore(t, mux)
	seedUser(store, api.User{ID: 9})

	user, err := store.LoadSession(context.Background())
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	if user != nil {
		t.Errorf("user = %v, want nil", user)
	}
	if store.IsLoggedIn() {
		t.Error("stale session survived a 401 verdict")
	}
	if !store.AuthChecked().Get() {
		t.Error("AuthChecked still false after a 401 verdict")
	}
}

func TestLoadSessionBannedFlag(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/users/me", func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(t, writer, api.User{ID: 1, Firstname: "Ada", Banned: true})
	})
	mux.HandleFunc("POST /api/auth/logout", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNoContent)
	})
	store, _, dialog, _ := newTestStore(t, mux)

	// A profile served successfully with the banned flag set is a ban
	// detection, not a session: nothing is cached and the flow runs.
	_, err := store.LoadSession(context.Background())
	if !errors.Is(err, ErrBanned) {
		t.Fatalf("err = %v, want ErrBanned", err)
	}
	if store.IsLoggedIn() {
		t.Error("banned profile was cached as the session")
	}
	testutil.Eventually(t, func() bool { return store.Gate() == GateIdle }, 5*time.Second, 10*time.Millisecond,
		"banned flow did not finish")
	if dialog.count() != 1 {
		t.Errorf("dialog shown %d times, want 1", dialog.count())
	}
}

func TestLoginBannedFlag(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/authenticate", func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(t, writer, api.AuthResponse{})
	})
	mux.HandleFunc("GET /api/users/me", func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(t, writer, api.User{ID: 1, Banned: true})
	})
	mux.HandleFunc("POST /api/auth/logout", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNoContent)
	})
	store, _, dialog, _ := newTestStore(t, mux)

	_, err := store.Login(context.Background(), api.Credentials{Email: "a@b.c", Password: "pw"})
	if !errors.Is(err, ErrBanned) {
		t.Fatalf("err = %v, want ErrBanned", err)
	}
	if store.IsLoggedIn() {
		t.Error("banned account was logged in")
	}
	testutil.Eventually(t, func() bool { return store.Gate() == GateIdle }, 5*time.Second, 10*time.Millisecond,
		"banned flow did not finish")
	if dialog.count() != 1 {
		t.Errorf("dialog shown %d times, want 1", dialog.count())
	}
}

func TestLoadSessionRecoversWhenServerComesBack(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/users/me", func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(t, writer, api.User{ID: 1, Role: "USER"})
	})
	store, fake, _, transport := newTestStore(t, mux)
	transport.down.Store(true)

	type result struct {
		user *api.User
		err  error
	}
	done := make(chan result, 1)
	go func() {
		user, err := store.LoadSession(context.Background())
		done <- result{user, err}
	}()

	// Three attempts fail while the server is down, with linearly
	// growing waits between them.
	fake.BlockUntilPending(1)
	fake.Advance(sessionRetryDelay)
	fake.BlockUntilPending(1)
	fake.Advance(2 * sessionRetryDelay)

	// The load enters recovery; the server returns before the
	// recovery pause elapses.
	fake.BlockUntilPending(1)
	transport.down.Store(false)
	fake.Advance(recoveryDelay)

	got := testutil.Receive(t, done, 5*time.Second, "session load did not finish")
	if got.err != nil {
		t.Fatalf("LoadSession: %v", got.err)
	}
	if got.user == nil || got.user.ID != 1 {
		t.Fatalf("user = %v", got.user)
	}
	// One csrf prime, three failed profile attempts, one success.
	if attempts := transport.attempts.Load(); attempts != 5 {
		t.Errorf("transport saw %d attempts, want 5", attempts)
	}
}

func TestLoadSessionCanceledDuringRecovery(t *testing.T) {
	store, fake, _, transport := newTestStore(t, http.NewServeMux())
	transport.down.Store(true)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := store.LoadSession(ctx)
		done <- err
	}()

	fake.BlockUntilPending(1)
	cancel()

	err := testutil.Receive(t, done, 5*time.Second, "session load did not finish")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestLoginSuccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/authenticate", func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(t, writer, api.AuthResponse{})
	})
	mux.HandleFunc("GET /api/users/me", func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(t, writer, api.User{ID: 4, Role: api.RoleAdmin})
	})
	store, _, _, _ := newTestStore(t, mux)

	user, err := store.Login(context.Background(), api.Credentials{Email: "a@b.c", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != 4 || !store.IsAdmin() {
		t.Errorf("user = %v, IsAdmin = %v", user, store.IsAdmin())
	}
}

func TestLoginBannedAccount(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/authenticate", func(writer http.ResponseWriter, request *http.Request) {
		writeBanned(writer)
	})
	mux.HandleFunc("POST /api/auth/logout", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNoContent)
	})
	store, _, dialog, _ := newTestStore(t, mux)

	_, err := store.Login(context.Background(), api.Credentials{Email: "a@b.c", Password: "pw"})
	if !errors.Is(err, ErrBanned) {
		t.Fatalf("err = %v, want ErrBanned", err)
	}
	testutil.Eventually(t, func() bool { return store.Gate() == GateIdle }, 5*time.Second, 10*time.Millisecond,
		"banned flow did not finish")
	if dialog.count() != 1 {
		t.Errorf("dialog shown %d times, want 1", dialog.count())
	}
	if store.IsLoggedIn() {
		t.Error("session survived the banned flow")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/logout", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNoContent)
	})
	store, _, _, _ := newTestStore(t, mux)
	seedUser(store, api.User{ID: 1})
	seedPosts(store, api.Post{ID: 1})
	store.notifications.Set([]api.Notification{{ID: 1}})
	store.unread.Set(1)

	if err := store.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if store.IsLoggedIn() {
		t.Error("still logged in")
	}
	if store.Feed().Get() != nil || store.ManagedPosts().Get() != nil {
		t.Error("post caches not cleared")
	}
	if store.Notifications().Get() != nil || store.UnreadCount().Get() != 0 {
		t.Error("notification state not cleared")
	}
	if !store.FeedHasMore() {
		t.Error("feed pagination not reset")
	}
}

func TestRegisterValidatesNames(t *testing.T) {
	store, _, _, transport := newTestStore(t, http.NewServeMux())

	_, err := store.Register(context.Background(), api.RegisterRequest{
		Firstname: "A", Lastname: "Lovelace", Email: "a@b.c", Password: "pw",
	})
	var validation *ValidationError
	if !errors.As(err, &validation) || validation.Field != "firstname" {
		t.Fatalf("err = %v, want firstname ValidationError", err)
	}
	if transport.attempts.Load() != 0 {
		t.Error("validation failure still sent a request")
	}
}
