/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package trigger

import "chainguard.dev/repoagent/metrics"

// Config is the process configuration of the push trigger. The agent
// identifiers are not validated at start-up.
type Config struct {
	AgentID             string `env:"AGENT_ID"`
	AliasID             string `env:"ALIAS_ID"`
	WebhookSecret       string `env:"WEBHOOK_SECRET"`
	FeatureBranchPrefix string `env:"FEATURE_BRANCH_PREFIX,default=refs/heads/feature/"`
}

// NewHandlerFromConfig returns a Handler configured by cfg.
func NewHandlerFromConfig(cfg Config, agent Agent, rec *metrics.Recorder) *Handler {
	return NewHandler(agent,
		WithFilter(NewFilter(cfg.FeatureBranchPrefix)),
		WithSecret(cfg.WebhookSecret),
		WithMetrics(rec),
	)
}
