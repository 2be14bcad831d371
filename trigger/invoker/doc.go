/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package invoker starts sessions of a Bedrock agent and collects their
// streamed answers.
package invoker
