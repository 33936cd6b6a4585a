// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

// Package store is the client-side state layer for the 01Blog API.
//
// It keeps a set of observable caches (session owner, feed, own
// posts, user directory, notifications, moderation data) that are
// mutually consistent: a mutation visible in one cache is visible in
// all of them. Reads come from the caches; mutations go to the
// server, optimistically where the outcome is predictable, and roll
// back cleanly when the server disagrees.
//
// Cross-cutting behavior every operation shares:
//
//   - Transient failures (5xx, unreachable server) are retried a
//     bounded number of times. Client errors are not.
//   - A banned-account response triggers a single notice-and-logout
//     flow no matter how many operations observe it concurrently.
//   - Auth failures drop the local session.
//   - Server-supplied text is sanitized before it enters a cache.
package store
