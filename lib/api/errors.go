// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// APIError represents a non-2xx response from the 01Blog API. The
// backend wraps error bodies in a {success, message, data} envelope;
// Message carries the envelope message and Details the optional data
// payload (field-level validation failures on 400 responses).
type APIError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Message is the envelope message, or the raw body when the
	// response was not the expected envelope.
	Message string

	// Details holds per-field validation messages when present.
	Details map[string]string
}

func (err *APIError) Error() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "api: HTTP %d: %s", err.StatusCode, err.Message)
	for field, message := range err.Details {
		fmt.Fprintf(&builder, "; %s: %s", field, message)
	}
	return builder.String()
}

// parseAPIError maps a status code and raw body to an *APIError.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiError := &APIError{StatusCode: statusCode}

	var envelope struct {
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if json.Unmarshal(body, &envelope) == nil && envelope.Message != "" {
		apiError.Message = envelope.Message
		if len(envelope.Data) > 0 {
			var details map[string]string
			if json.Unmarshal(envelope.Data, &details) == nil {
				apiError.Details = details
			}
		}
	} else {
		apiError.Message = strings.TrimSpace(string(body))
	}
	return apiError
}

// IsAuthError reports whether err is a 401 or 403 response. Auth
// errors are terminal: the store clears the session instead of
// retrying.
func IsAuthError(err error) bool {
	var apiError *APIError
	if !errors.As(err, &apiError) {
		return false
	}
	return apiError.StatusCode == 401 || apiError.StatusCode == 403
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == 404
}

// IsRateLimited reports whether err is a 429 response.
func IsRateLimited(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == 429
}

// IsBanned reports whether err is a 403 whose payload names an account
// ban. The backend has no dedicated status for this, so the message is
// the only signal available on a rejected write.
func IsBanned(err error) bool {
	var apiError *APIError
	if !errors.As(err, &apiError) || apiError.StatusCode != 403 {
		return false
	}
	lower := strings.ToLower(apiError.Message)
	return strings.Contains(lower, "banned") || strings.Contains(lower, "restricted")
}

// IsUnreachable reports whether err is a transport-level failure (no
// HTTP response at all): connection refused, reset, DNS failure. The
// notification poller backs off silently on these.
func IsUnreachable(err error) bool {
	if err == nil {
		return false
	}
	var apiError *APIError
	if errors.As(err, &apiError) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// IsTransient classifies err for retry purposes. Client, auth, and
// rate-limit failures (400, 401, 403, 404, 429) are terminal and must
// propagate immediately. Everything else (5xx, malformed responses,
// transport failures) is worth retrying. Context cancellation is
// never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiError *APIError
	if errors.As(err, &apiError) {
		switch apiError.StatusCode {
		case 400, 401, 403, 404, 429:
			return false
		}
	}
	return true
}
