/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package handlers implements the repository operations exposed through the
// action gateway: reading a file, creating a branch, writing a file and
// opening a pull request.
//
// Each handler validates its arguments before touching the repository, runs
// its remote calls strictly in order, and maps the outcome to a status code
// and payload:
//
//	routes := handlers.Routes(client)
//	d, err := dispatcher.New(routes)
//
// Missing arguments answer 400 without any remote call. Conflicts reported by
// the repository host keep the host's status; every other remote failure
// answers 500 with the error description.
package handlers
