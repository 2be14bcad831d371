/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package metrics provides OpenTelemetry counters for the action gateway and
// the push trigger.
//
// The counters are created against whatever meter provider is installed when
// New is called; with no provider installed they are no-ops. Counter creation
// failures degrade to no-op counters rather than failing start-up.
package metrics
