// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

// Package httpx provides bounded HTTP response body helpers.
//
// Every response body read in the API client goes through these
// helpers so that a misbehaving server can never make the client
// allocate without bound. The limit is generous; real API responses
// are orders of magnitude smaller.
package httpx

import (
	"encoding/json"
	"fmt"
	"io"
)

// MaxBodySize bounds JSON response body reads: 32 MB.
const MaxBodySize int64 = 32 << 20

// ReadBody reads a response body up to MaxBodySize bytes.
func ReadBody(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxBodySize))
}

// DecodeBody reads a response body (bounded) and JSON-decodes it into v.
func DecodeBody(body io.Reader, v any) error {
	data, err := ReadBody(body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	return json.Unmarshal(data, v)
}

// ErrorBody reads an error response body for diagnostics. Read errors
// are ignored; a truncated body is still useful in an error message.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, MaxBodySize))
	return string(data)
}
