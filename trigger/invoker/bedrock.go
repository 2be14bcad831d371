/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package invoker

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// GuardrailInterval is the number of characters between guardrail checks of
// the streamed answer.
const GuardrailInterval = 20

// Stream is the event stream of one agent session.
type Stream interface {
	Events() <-chan types.ResponseStream
	Close() error
	Err() error
}

// Runtime opens agent sessions.
type Runtime interface {
	Open(ctx context.Context, input *bedrockagentruntime.InvokeAgentInput) (Stream, error)
}

type sdkRuntime struct {
	client *bedrockagentruntime.Client
}

func (r sdkRuntime) Open(ctx context.Context, input *bedrockagentruntime.InvokeAgentInput) (Stream, error) {
	out, err := r.client.InvokeAgent(ctx, input)
	if err != nil {
		return nil, err
	}
	return out.GetStream(), nil
}

// Bedrock invokes one agent alias.
type Bedrock struct {
	runtime Runtime
	agentID string
	aliasID string
	tracer  trace.Tracer
}

// New returns a Bedrock invoker backed by client.
func New(client *bedrockagentruntime.Client, agentID, aliasID string) *Bedrock {
	return NewWithRuntime(sdkRuntime{client: client}, agentID, aliasID)
}

// NewWithRuntime returns a Bedrock invoker backed by rt.
func NewWithRuntime(rt Runtime, agentID, aliasID string) *Bedrock {
	return &Bedrock{
		runtime: rt,
		agentID: agentID,
		aliasID: aliasID,
		tracer:  otel.Tracer("chainguard.dev/repoagent/trigger/invoker"),
	}
}

// Invoke sends instruction to the agent in session sessionID and returns the
// concatenated answer. Trace events are logged as they arrive.
func (b *Bedrock) Invoke(ctx context.Context, sessionID, instruction string) (completion string, err error) {
	ctx, span := b.tracer.Start(ctx, "bedrock.InvokeAgent", trace.WithAttributes(
		attribute.String("agent_id", b.agentID),
		attribute.String("alias_id", b.aliasID),
		attribute.String("session_id", sessionID),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	log := clog.FromContext(ctx).With("agent_id", b.agentID, "alias_id", b.aliasID, "session_id", sessionID)

	stream, err := b.runtime.Open(ctx, &bedrockagentruntime.InvokeAgentInput{
		AgentId:      aws.String(b.agentID),
		AgentAliasId: aws.String(b.aliasID),
		SessionId:    aws.String(sessionID),
		InputText:    aws.String(instruction),
		EnableTrace:  aws.Bool(true),
		StreamingConfigurations: &types.StreamingConfigurations{
			ApplyGuardrailInterval: aws.Int32(GuardrailInterval),
		},
	})
	if err != nil {
		return "", fmt.Errorf("invoking agent: %w", err)
	}
	defer stream.Close()

	var sb strings.Builder
	for event := range stream.Events() {
		switch ev := event.(type) {
		case *types.ResponseStreamMemberChunk:
			sb.Write(ev.Value.Bytes)
		case *types.ResponseStreamMemberTrace:
			log.With("trace", ev.Value.Trace).Info("Agent trace")
		default:
			log.Debugf("Ignoring stream event %T", ev)
		}
	}
	if err := stream.Err(); err != nil {
		return "", fmt.Errorf("reading agent stream: %w", err)
	}

	completion = sb.String()
	span.SetAttributes(attribute.Int("completion_bytes", len(completion)))
	return completion, nil
}
