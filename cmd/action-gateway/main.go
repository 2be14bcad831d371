/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main serves action group invocations from a Bedrock agent as an
// AWS Lambda function.
package main

import (
	"context"
	"log/slog"
	"os"

	"chainguard.dev/repoagent/gateway"
	"chainguard.dev/repoagent/gateway/action"
	"chainguard.dev/repoagent/metrics"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"
)

func main() {
	ctx := clog.WithLogger(context.Background(), clog.New(slog.NewJSONHandler(os.Stdout, nil)))

	var cfg gateway.Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}

	d, err := gateway.New(ctx, cfg, metrics.NewGlobal())
	if err != nil {
		clog.FatalContextf(ctx, "creating gateway: %v", err)
	}
	logger := clog.FromContext(ctx)

	lambda.Start(func(ctx context.Context, req *action.Request) (*action.Envelope, error) {
		return d.Dispatch(clog.WithLogger(ctx, logger), req), nil
	})
}
