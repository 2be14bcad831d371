/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package repoclient issues the repository-host calls the action gateway is
// built on: reading and creating branch refs, reading and writing file
// contents, and opening pull requests.
//
// Every method is a single synchronous request with no client-side retry.
// Failures are returned as *Error values that classify the remote status, so
// callers can test for ErrNotFound and ErrConflict with errors.Is:
//
//	file, err := client.GetContent(ctx, ref, "app/models.py")
//	if errors.Is(err, repoclient.ErrNotFound) {
//		// the file does not exist on ref.Branch
//	}
package repoclient
