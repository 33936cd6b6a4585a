// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Length bounds enforced client-side, mirroring the server's own
// validation so obviously bad input never leaves the machine.
const (
	titleMin   = 3
	titleMax   = 150
	contentMin = 3
	contentMax = 10000
	commentMin = 1
	commentMax = 1000
	reasonMin  = 10
	reasonMax  = 500
	nameMin    = 2
	nameMax    = 50
)

// ValidationError reports a field that failed client-side validation.
// It is returned before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("store: %s: %s", e.Field, e.Message)
}

func checkLength(field, value string, min, max int) error {
	length := utf8.RuneCountInString(strings.TrimSpace(value))
	if length < min || length > max {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be between %d and %d characters", min, max),
		}
	}
	return nil
}

// ValidateTitle checks a post title.
func ValidateTitle(title string) error {
	return checkLength("title", title, titleMin, titleMax)
}

// ValidatePostContent checks a post body.
func ValidatePostContent(content string) error {
	return checkLength("content", content, contentMin, contentMax)
}

// ValidateComment checks a comment body.
func ValidateComment(content string) error {
	return checkLength("comment", content, commentMin, commentMax)
}

// ValidateReportReason checks a moderation report reason.
func ValidateReportReason(reason string) error {
	return checkLength("reason", reason, reasonMin, reasonMax)
}

// ValidateName checks a first or last name. field names the offending
// input in the error.
func ValidateName(field, name string) error {
	return checkLength(field, name, nameMin, nameMax)
}
