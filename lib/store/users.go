// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"

	"github.com/elhaouchomar/01blog/lib/api"
	"github.com/elhaouchomar/01blog/lib/retry"
	"github.com/elhaouchomar/01blog/lib/sanitize"
)

// LoadUsers fills the user directory cache.
func (store *Store) LoadUsers(ctx context.Context) error {
	users, err := retry.Do(ctx, store.clock, store.policy(), store.api.Users)
	if err != nil {
		return store.fail("load users", err)
	}
	sanitizeUsers(users)
	store.users.Set(users)
	return nil
}

// UserByID fetches one user. Not cached; profile pages fetch fresh.
func (store *Store) UserByID(ctx context.Context, id int64) (*api.User, error) {
	user, err := retry.Do(ctx, store.clock, store.policy(), func(ctx context.Context) (*api.User, error) {
		return store.api.UserByID(ctx, id)
	})
	if err != nil {
		return nil, store.fail("load user", err)
	}
	sanitizeUser(user)
	return user, nil
}

// UserPosts fetches one page of an author's posts.
func (store *Store) UserPosts(ctx context.Context, userID int64, page int) ([]api.Post, error) {
	posts, err := retry.Do(ctx, store.clock, store.policy(), func(ctx context.Context) ([]api.Post, error) {
		return store.api.UserPosts(ctx, userID, page, feedPageSize)
	})
	if err != nil {
		return nil, store.fail("load user posts", err)
	}
	sanitizePosts(posts)
	return posts, nil
}

// UpdateProfile edits the session owner and refreshes the user cell
// with the server's copy.
func (store *Store) UpdateProfile(ctx context.Context, update api.UserUpdate) (*api.User, error) {
	if err := store.checkBanned(); err != nil {
		return nil, err
	}
	if update.Firstname != nil {
		if err := ValidateName("firstname", *update.Firstname); err != nil {
			return nil, err
		}
	}
	if update.Lastname != nil {
		if err := ValidateName("lastname", *update.Lastname); err != nil {
			return nil, err
		}
	}
	update.Firstname = sanitize.Optional(update.Firstname)
	update.Lastname = sanitize.Optional(update.Lastname)
	update.Bio = sanitize.Optional(update.Bio)

	user, err := store.api.UpdateProfile(ctx, update)
	if err != nil {
		return nil, store.fail("update profile", err)
	}
	sanitizeUser(user)
	store.user.Set(user)
	return user, nil
}

// ToggleSubscribe flips the email-digest flag on the session owner.
func (store *Store) ToggleSubscribe(ctx context.Context) error {
	if err := store.checkBanned(); err != nil {
		return err
	}
	user, err := store.api.ToggleSubscribe(ctx)
	if err != nil {
		return store.fail("toggle subscribe", err)
	}
	sanitizeUser(user)
	store.user.Set(user)
	return nil
}

// FollowUser toggles following the given account, then reloads the
// session owner so the following counters stay authoritative.
func (store *Store) FollowUser(ctx context.Context, id int64) error {
	if err := store.checkBanned(); err != nil {
		return err
	}
	if err := store.api.FollowUser(ctx, id); err != nil {
		return store.fail("follow user", err)
	}
	user, err := store.api.Profile(ctx)
	if err != nil {
		// The follow landed; a stale counter is tolerable.
		store.logger.Warn("profile reload after follow failed", "error", err)
		return nil
	}
	sanitizeUser(user)
	store.user.Set(user)
	return nil
}

// Search runs a mixed posts/people search.
func (store *Store) Search(ctx context.Context, query, filter string, limit int) (*api.SearchResults, error) {
	results, err := retry.Do(ctx, store.clock, store.policy(), func(ctx context.Context) (*api.SearchResults, error) {
		return store.api.Search(ctx, query, filter, limit)
	})
	if err != nil {
		return nil, store.fail("search", err)
	}
	sanitizePosts(results.Posts)
	sanitizeUsers(results.Users)
	return results, nil
}

// ToggleBan flips an account's ban flag and updates the directory
// entry in place. Admin only.
func (store *Store) ToggleBan(ctx context.Context, id int64) error {
	if err := store.checkBanned(); err != nil {
		return err
	}
	updated, err := store.api.ToggleBan(ctx, id)
	if err != nil {
		return store.fail("toggle ban", err)
	}
	sanitizeUser(updated)
	store.users.Update(func(current []api.User) []api.User {
		out := cloneUsers(current)
		for i := range out {
			if out[i].ID == id {
				out[i] = *updated
			}
		}
		return out
	})
	return nil
}

// DeleteUser removes an account from the platform and from the
// directory cache. Admin only.
func (store *Store) DeleteUser(ctx context.Context, id int64) error {
	if err := store.checkBanned(); err != nil {
		return err
	}
	if err := store.api.DeleteUser(ctx, id); err != nil {
		return store.fail("delete user", err)
	}
	store.users.Update(func(current []api.User) []api.User {
		out := make([]api.User, 0, len(current))
		for _, user := range current {
			if user.ID != id {
				out = append(out, user)
			}
		}
		return out
	})
	return nil
}

// AdminUpdateUser edits another account and refreshes its directory
// entry. Admin only.
func (store *Store) AdminUpdateUser(ctx context.Context, id int64, update api.UserUpdate) (*api.User, error) {
	if err := store.checkBanned(); err != nil {
		return nil, err
	}
	update.Firstname = sanitize.Optional(update.Firstname)
	update.Lastname = sanitize.Optional(update.Lastname)
	update.Bio = sanitize.Optional(update.Bio)

	user, err := store.api.AdminUpdateUser(ctx, id, update)
	if err != nil {
		return nil, store.fail("update user", err)
	}
	sanitizeUser(user)
	store.users.Update(func(current []api.User) []api.User {
		out := cloneUsers(current)
		for i := range out {
			if out[i].ID == id {
				out[i] = *user
			}
		}
		return out
	})
	return user, nil
}

// ProvisionUser creates an account without logging in as it, then
// reloads the directory. Admin only.
func (store *Store) ProvisionUser(ctx context.Context, request api.RegisterRequest) error {
	if err := store.checkBanned(); err != nil {
		return err
	}
	if err := ValidateName("firstname", request.Firstname); err != nil {
		return err
	}
	if err := ValidateName("lastname", request.Lastname); err != nil {
		return err
	}
	if _, err := store.api.ProvisionUser(ctx, request); err != nil {
		return store.fail("provision user", err)
	}
	return store.LoadUsers(ctx)
}

func sanitizeUsers(users []api.User) {
	for i := range users {
		sanitizeUser(&users[i])
	}
}

func sanitizeUser(user *api.User) {
	if user == nil {
		return
	}
	user.Firstname = sanitize.PlainText(user.Firstname)
	user.Lastname = sanitize.PlainText(user.Lastname)
	user.Name = sanitize.PlainText(user.Name)
	user.Bio = sanitize.PlainText(user.Bio)
}
