/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package gateway assembles the action gateway: the repository client, the
// four repository operations and the dispatcher that routes to them.
package gateway

import (
	"context"
	"fmt"

	"chainguard.dev/repoagent/gateway/dispatcher"
	"chainguard.dev/repoagent/gateway/handlers"
	"chainguard.dev/repoagent/gateway/repoclient"
	"chainguard.dev/repoagent/metrics"
)

// Config is the process configuration of the gateway.
type Config struct {
	// GitHubToken is not validated at start-up; a bad or missing token
	// surfaces as an authorization failure on the first remote call.
	GitHubToken  string `env:"GITHUB_TOKEN"`
	GitHubAPIURL string `env:"GITHUB_API_URL,default=https://api.github.com/"`
	UserAgent    string `env:"GITHUB_USER_AGENT,default=Bedrock-Agent"`
}

// New builds the dispatcher serving the repository operations.
func New(ctx context.Context, cfg Config, rec *metrics.Recorder) (*dispatcher.Dispatcher, error) {
	client, err := repoclient.New(ctx, repoclient.Config{
		Token:     cfg.GitHubToken,
		BaseURL:   cfg.GitHubAPIURL,
		UserAgent: cfg.UserAgent,
		Metrics:   rec,
	})
	if err != nil {
		return nil, fmt.Errorf("creating repository client: %w", err)
	}

	d, err := dispatcher.New(handlers.Routes(client), dispatcher.WithMetrics(rec))
	if err != nil {
		return nil, fmt.Errorf("creating dispatcher: %w", err)
	}
	return d, nil
}
