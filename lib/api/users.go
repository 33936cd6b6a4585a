// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
)

// Profile fetches the authenticated account.
func (client *Client) Profile(ctx context.Context) (*User, error) {
	var user User
	if err := client.get(ctx, "/users/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates the authenticated account and returns the
// refreshed user.
func (client *Client) UpdateProfile(ctx context.Context, update UserUpdate) (*User, error) {
	var user User
	if err := client.put(ctx, "/users/me", update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ToggleSubscribe flips the email-digest subscription flag.
func (client *Client) ToggleSubscribe(ctx context.Context) (*User, error) {
	var user User
	if err := client.put(ctx, "/users/me/subscribe", struct{}{}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Users lists all user summaries (directory and suggestions).
func (client *Client) Users(ctx context.Context) ([]User, error) {
	var users []User
	if err := client.get(ctx, "/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UserByID fetches one user.
func (client *Client) UserByID(ctx context.Context, id int64) (*User, error) {
	var user User
	if err := client.get(ctx, fmt.Sprintf("/users/%d", id), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AdminUpdateUser edits another account. Admin only.
func (client *Client) AdminUpdateUser(ctx context.Context, id int64, update UserUpdate) (*User, error) {
	var user User
	if err := client.put(ctx, fmt.Sprintf("/users/%d", id), update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes an account. Admin only.
func (client *Client) DeleteUser(ctx context.Context, id int64) error {
	return client.delete(ctx, fmt.Sprintf("/users/%d", id))
}

// ToggleBan flips an account's ban flag and returns the updated user.
// Admin only.
func (client *Client) ToggleBan(ctx context.Context, id int64) (*User, error) {
	var user User
	if err := client.put(ctx, fmt.Sprintf("/users/%d/ban", id), struct{}{}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FollowUser toggles following the given account.
func (client *Client) FollowUser(ctx context.Context, id int64) error {
	return client.post(ctx, fmt.Sprintf("/users/%d/follow", id), struct{}{}, nil)
}

// ProvisionUser creates an account without logging in as it. Admin
// only.
func (client *Client) ProvisionUser(ctx context.Context, request RegisterRequest) (*AuthResponse, error) {
	var result AuthResponse
	if err := client.post(ctx, "/users/provision", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
