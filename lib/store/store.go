// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/elhaouchomar/01blog/lib/api"
	"github.com/elhaouchomar/01blog/lib/clock"
	"github.com/elhaouchomar/01blog/lib/retry"
)

const (
	feedPageSize          = 10
	notificationsPageSize = 20
	managementPageSize    = 200

	// Transient failures get two retries with linearly growing
	// delays. Session loads are slightly more patient because they
	// gate everything else.
	defaultRetries    = 2
	defaultRetryDelay = 250 * time.Millisecond
	sessionRetryDelay = 300 * time.Millisecond

	// recoveryDelay is the pause before re-attempting a session load
	// that failed because the server was unreachable.
	recoveryDelay = 1200 * time.Millisecond

	// refreshWindow suppresses RefreshAll calls arriving within this
	// span of the previous one.
	refreshWindow = 1200 * time.Millisecond

	pollInterval = 30 * time.Second
	pollBackoff  = 60 * time.Second

	// rateNoticeWindow suppresses repeat rate-limit warnings, so a
	// burst of throttled requests surfaces one notice, not a stack.
	rateNoticeWindow = 5 * time.Second
)

// Config carries the Store's collaborators. API is required;
// everything else has a working default.
type Config struct {
	API *api.Client

	// Clock defaults to clock.Real(). Tests inject a fake.
	Clock clock.Clock

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Dialog presents the banned-account notice and transient
	// warnings. Defaults to a no-op that acknowledges immediately.
	Dialog Dialog
}

// Store is the client-side state layer: one mutually consistent set
// of caches over the remote API, with optimistic mutation, bounded
// retry, and change notification per cache.
//
// All exported methods are safe for concurrent use.
type Store struct {
	api    *api.Client
	clock  clock.Clock
	logger *slog.Logger
	dialog Dialog

	user          *Cell[*api.User]
	authChecked   *Cell[bool]
	feed          *Cell[[]api.Post]
	managed       *Cell[[]api.Post]
	users         *Cell[[]api.User]
	notifications *Cell[[]api.Notification]
	unread        *Cell[int]
	stats         *Cell[*api.DashboardStats]
	reports       *Cell[[]api.Report]

	// postsMu serializes mutations that must land in both post
	// caches, so a reader never observes a post updated in one and
	// stale in the other.
	postsMu sync.Mutex

	feedMu      sync.Mutex
	feedPage    int
	feedHasMore bool

	gateMu    sync.Mutex
	gateState GateState

	refreshMu   sync.Mutex
	lastRefresh time.Time

	noticeMu       sync.Mutex
	lastRateNotice time.Time

	pollMu     sync.Mutex
	pollStop   chan struct{}
	pollDone   chan struct{}
}

// New builds a Store. It performs no I/O; call LoadSession to
// populate it.
func New(cfg Config) (*Store, error) {
	if cfg.API == nil {
		return nil, fmt.Errorf("store: Config.API is required")
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Dialog == nil {
		cfg.Dialog = nopDialog{}
	}
	return &Store{
		api:           cfg.API,
		clock:         cfg.Clock,
		logger:        cfg.Logger,
		dialog:        cfg.Dialog,
		user:          NewCell[*api.User](nil),
		authChecked:   NewCell(false),
		feed:          NewCell[[]api.Post](nil),
		managed:       NewCell[[]api.Post](nil),
		users:         NewCell[[]api.User](nil),
		notifications: NewCell[[]api.Notification](nil),
		unread:        NewCell(0),
		stats:         NewCell[*api.DashboardStats](nil),
		reports:       NewCell[[]api.Report](nil),
		feedHasMore:   true,
	}, nil
}

// User returns the session-owner cell. Nil value means anonymous.
func (store *Store) User() *Cell[*api.User] { return store.user }

// AuthChecked reports whether the initial session check has reached a
// verdict. It stays true once set; an unreachable server during
// recovery still counts as checked so consumers do not block forever.
func (store *Store) AuthChecked() *Cell[bool] { return store.authChecked }

// Feed returns the accumulated feed cell.
func (store *Store) Feed() *Cell[[]api.Post] { return store.feed }

// ManagedPosts returns the viewer's own-posts cell.
func (store *Store) ManagedPosts() *Cell[[]api.Post] { return store.managed }

// Users returns the directory cell (admin view).
func (store *Store) Users() *Cell[[]api.User] { return store.users }

// Notifications returns the notifications cell.
func (store *Store) Notifications() *Cell[[]api.Notification] { return store.notifications }

// UnreadCount returns the unread-notifications counter cell, kept in
// step with the notifications cell.
func (store *Store) UnreadCount() *Cell[int] { return store.unread }

// Stats returns the admin dashboard cell.
func (store *Store) Stats() *Cell[*api.DashboardStats] { return store.stats }

// Reports returns the moderation queue cell.
func (store *Store) Reports() *Cell[[]api.Report] { return store.reports }

// IsLoggedIn reports whether a session owner is loaded.
func (store *Store) IsLoggedIn() bool { return store.user.Get() != nil }

// IsAdmin reports whether the session owner has the admin role.
func (store *Store) IsAdmin() bool {
	user := store.user.Get()
	return user != nil && user.IsAdmin()
}

// FeedHasMore reports whether another feed page is expected to exist.
func (store *Store) FeedHasMore() bool {
	store.feedMu.Lock()
	defer store.feedMu.Unlock()
	return store.feedHasMore
}

// policy is the default retry policy for data loads and mutations.
func (store *Store) policy() retry.Policy {
	return retry.Policy{
		MaxRetries: defaultRetries,
		Delay:      defaultRetryDelay,
		Retryable:  api.IsTransient,
	}
}

func (store *Store) sessionPolicy() retry.Policy {
	return retry.Policy{
		MaxRetries: defaultRetries,
		Delay:      sessionRetryDelay,
		Retryable:  api.IsTransient,
	}
}

// fail routes an operation error through the session and ban
// handling that every store operation shares: a banned payload trips
// the gate, any other auth failure drops the session, and a
// rate-limit response surfaces a throttled warning.
func (store *Store) fail(op string, err error) error {
	if store.tripBannedGate(err) {
		return fmt.Errorf("%s: %w", op, ErrBanned)
	}
	if api.IsAuthError(err) {
		store.clearSession()
	}
	if api.IsRateLimited(err) {
		store.notifyRateLimited()
	}
	store.logger.Warn("store operation failed", "op", op, "error", err)
	return fmt.Errorf("%s: %w", op, err)
}

// notifyRateLimited shows the rate-limit warning at most once per
// window.
func (store *Store) notifyRateLimited() {
	store.noticeMu.Lock()
	now := store.clock.Now()
	if !store.lastRateNotice.IsZero() && now.Sub(store.lastRateNotice) < rateNoticeWindow {
		store.noticeMu.Unlock()
		return
	}
	store.lastRateNotice = now
	store.noticeMu.Unlock()
	store.dialog.ShowRateLimited("The server is busy right now; please try again in a moment.")
}

func clonePosts(posts []api.Post) []api.Post {
	if posts == nil {
		return nil
	}
	out := make([]api.Post, len(posts))
	copy(out, posts)
	return out
}

func cloneUsers(users []api.User) []api.User {
	if users == nil {
		return nil
	}
	out := make([]api.User, len(users))
	copy(out, users)
	return out
}

func cloneNotifications(notifications []api.Notification) []api.Notification {
	if notifications == nil {
		return nil
	}
	out := make([]api.Notification, len(notifications))
	copy(out, notifications)
	return out
}
