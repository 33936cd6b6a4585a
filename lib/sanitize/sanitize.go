// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

// Package sanitize strips markup from server-supplied text before it
// reaches a terminal or any other output surface. The server already
// escapes on write, but content fetched from older rows or third-party
// imports may still carry HTML.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// PlainText removes every HTML element and attribute from input,
// decodes entities, and collapses runs of whitespace to single
// spaces.
func PlainText(input string) string {
	if input == "" {
		return ""
	}
	stripped := strict.Sanitize(input)
	decoded := html.UnescapeString(stripped)
	return strings.Join(strings.Fields(decoded), " ")
}

// Optional sanitizes through a pointer, passing nil through
// untouched. Used for PATCH-style partial updates where nil means
// "leave unchanged".
func Optional(input *string) *string {
	if input == nil {
		return nil
	}
	cleaned := PlainText(*input)
	return &cleaned
}

// Slice sanitizes every element in place and returns the slice.
func Slice(inputs []string) []string {
	for i, input := range inputs {
		inputs[i] = PlainText(input)
	}
	return inputs
}
