// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// The data store schedules a lot of small pieces of time-dependent
// behavior: linearly increasing retry delays, a 1.2 second session
// recovery timer, a 30 second notification poll with a 60 second
// failure backoff, and a refresh throttle window. All of it accepts a
// Clock so the test suite can advance time deterministically instead
// of sleeping.
package clock
