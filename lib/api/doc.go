// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

// Package api provides a typed Go client for the 01Blog REST API.
//
// The client is pure request/response plumbing: it attaches the
// session cookie from its jar, echoes the anti-forgery token on unsafe
// same-origin requests, and maps non-2xx responses to *APIError. It
// performs no retries and holds no application state; caching, retry,
// and session lifecycle live in the store package on top of it.
package api
