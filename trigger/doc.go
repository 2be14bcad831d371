/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package trigger decides whether a push notification should start the test
// generation agent, and if so what the agent is asked to do.
//
// Only pushes to feature branches qualify. The files changed by the push are
// collected across all of its commits and narrowed to those that can carry
// unit tests; documentation, data fixtures, migrations and existing tests are
// left out. The resulting scope is rendered into the instruction handed to
// the agent, which then calls back into the action gateway to branch, write
// tests and open a pull request.
package trigger
