/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package params resolves the arguments of an action request into a single
// immutable name/value mapping, independent of the shape the request used to
// carry them, and formats the error payloads handlers return.
//
// Resolution never fails. Anything that cannot be found, including arguments
// lost to a malformed request body, is simply absent; deciding whether an
// absent argument is an error is left to the operation handler.
package params
