/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package dispatcher routes action requests to operation handlers and wraps
// every outcome in the platform's response envelope.
//
// Routing is an exact match on the API path and the upper-cased HTTP method.
// Requests that match no route are answered with a 404 envelope, and a
// handler that panics is answered with a 500 envelope: Dispatch always
// returns exactly one well-formed envelope and never panics.
package dispatcher
