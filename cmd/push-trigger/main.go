/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main receives repository push webhooks through API Gateway and
// starts the test generation agent for qualifying pushes.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"chainguard.dev/repoagent/metrics"
	"chainguard.dev/repoagent/trigger"
	"chainguard.dev/repoagent/trigger/invoker"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v75/github"
	"github.com/sethvargo/go-envconfig"
)

func main() {
	ctx := clog.WithLogger(context.Background(), clog.New(slog.NewJSONHandler(os.Stdout, nil)))

	var cfg trigger.Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}
	clog.InfoContextf(ctx, "Using agent %s alias %s", cfg.AgentID, cfg.AliasID)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		clog.FatalContextf(ctx, "loading AWS config: %v", err)
	}
	agent := invoker.New(bedrockagentruntime.NewFromConfig(awsCfg), cfg.AgentID, cfg.AliasID)
	h := trigger.NewHandlerFromConfig(cfg, agent, metrics.NewGlobal())
	logger := clog.FromContext(ctx)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		ctx = clog.WithLogger(ctx, logger)
		d, err := delivery(req)
		if err != nil {
			clog.FromContext(ctx).With("error", err).Warn("Rejecting undecodable request")
			return respond(trigger.Response{StatusCode: http.StatusBadRequest, Body: map[string]any{"error": err.Error()}})
		}
		return respond(h.Handle(ctx, d))
	})
}

// delivery extracts the webhook delivery from an API Gateway proxy request.
// Header names are matched case-insensitively.
func delivery(req events.APIGatewayProxyRequest) (trigger.Delivery, error) {
	header := make(http.Header, len(req.Headers))
	for k, v := range req.Headers {
		header.Set(k, v)
	}

	payload := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return trigger.Delivery{}, fmt.Errorf("decoding body: %w", err)
		}
		payload = decoded
	}

	return trigger.Delivery{
		EventType:  header.Get(github.EventTypeHeader),
		DeliveryID: header.Get(github.DeliveryIDHeader),
		Signature:  header.Get(github.SHA256SignatureHeader),
		Payload:    payload,
	}, nil
}

func respond(r trigger.Response) (events.APIGatewayProxyResponse, error) {
	body, err := json.Marshal(r.Body)
	if err != nil {
		return events.APIGatewayProxyResponse{}, fmt.Errorf("encoding response: %w", err)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: r.StatusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}, nil
}
