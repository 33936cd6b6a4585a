// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassification(t *testing.T) {
	transport := fmt.Errorf("api: GET /posts: %w", errors.New("connection refused"))

	tests := []struct {
		name        string
		err         error
		auth        bool
		transient   bool
		unreachable bool
	}{
		{"unauthorized", &APIError{StatusCode: 401}, true, false, false},
		{"forbidden", &APIError{StatusCode: 403}, true, false, false},
		{"bad request", &APIError{StatusCode: 400}, false, false, false},
		{"not found", &APIError{StatusCode: 404}, false, false, false},
		{"rate limited", &APIError{StatusCode: 429}, false, false, false},
		{"server error", &APIError{StatusCode: 500}, false, true, false},
		{"bad gateway", &APIError{StatusCode: 502}, false, true, false},
		{"transport failure", transport, false, true, true},
		{"canceled", context.Canceled, false, false, false},
		{"nil", nil, false, false, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := IsAuthError(test.err); got != test.auth {
				t.Errorf("IsAuthError = %v, want %v", got, test.auth)
			}
			if got := IsTransient(test.err); got != test.transient {
				t.Errorf("IsTransient = %v, want %v", got, test.transient)
			}
			if got := IsUnreachable(test.err); got != test.unreachable {
				t.Errorf("IsUnreachable = %v, want %v", got, test.unreachable)
			}
		})
	}
}

func TestClassifiersSeeWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("loading profile: %w", &APIError{StatusCode: 401, Message: "expired"})
	if !IsAuthError(wrapped) {
		t.Error("IsAuthError missed a wrapped *APIError")
	}
	if IsTransient(wrapped) {
		t.Error("IsTransient retried an auth error")
	}
}

func TestIsBannedMatchesPayloadMessage(t *testing.T) {
	if !IsBanned(&APIError{StatusCode: 403, Message: "Your account has been banned"}) {
		t.Error("banned message not detected")
	}
	if IsBanned(&APIError{StatusCode: 403, Message: "admin role required"}) {
		t.Error("plain 403 misread as ban")
	}
	if IsBanned(&APIError{StatusCode: 500, Message: "banned"}) {
		t.Error("non-403 misread as ban")
	}
}

func TestIsRateLimitedAndNotFound(t *testing.T) {
	if !IsRateLimited(&APIError{StatusCode: 429}) {
		t.Error("429 not classified as rate limited")
	}
	if !IsNotFound(&APIError{StatusCode: 404}) {
		t.Error("404 not classified as not found")
	}
}

func TestAPIErrorMessageFormat(t *testing.T) {
	err := &APIError{
		StatusCode: 400,
		Message:    "Validation Error",
		Details:    map[string]string{"firstname": "too short"},
	}
	want := "api: HTTP 400: Validation Error; firstname: too short"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
