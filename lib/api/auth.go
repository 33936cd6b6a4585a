// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"net/http"
)

// PrimeCSRF asks the backend to issue the anti-forgery cookie. Call
// once before the first unsafe request; failures are non-fatal for
// read paths, so callers typically treat the error as best-effort.
func (client *Client) PrimeCSRF(ctx context.Context) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.base.String()+apiPrefix+"/auth/csrf", nil)
	if err != nil {
		return fmt.Errorf("api: creating csrf request: %w", err)
	}
	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("api: priming csrf token: %w", err)
	}
	response.Body.Close()
	return nil
}

// Authenticate logs in with email and password. The session is
// established via an HTTP-only cookie captured by the client's jar.
func (client *Client) Authenticate(ctx context.Context, credentials Credentials) (*AuthResponse, error) {
	var result AuthResponse
	if err := client.post(ctx, "/auth/authenticate", credentials, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates an account and logs in as it.
func (client *Client) Register(ctx context.Context, request RegisterRequest) (*AuthResponse, error) {
	var result AuthResponse
	if err := client.post(ctx, "/auth/register", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Logout invalidates the server-side session.
func (client *Client) Logout(ctx context.Context) error {
	return client.post(ctx, "/auth/logout", struct{}{}, nil)
}
