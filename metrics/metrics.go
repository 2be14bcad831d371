/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"context"
	"log/slog"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// MeterName is the instrumentation scope used by NewGlobal.
const MeterName = "chainguard.dev/repoagent"

// Recorder records gateway and trigger activity. A nil Recorder records nothing.
type Recorder struct {
	actions      metric.Int64Counter
	remoteCalls  metric.Int64Counter
	pushes       metric.Int64Counter
	attrEnricher AttributeEnricher
}

// NewGlobal creates a Recorder against the globally installed meter provider.
func NewGlobal() *Recorder {
	return New(otel.Meter(MeterName, metric.WithInstrumentationVersion("1.0.0")))
}

// New creates a Recorder against meter.
func New(meter metric.Meter) *Recorder {
	return &Recorder{
		actions: counter(meter, "gateway.actions",
			"The number of action requests answered, by route and status", "{requests}"),
		remoteCalls: counter(meter, "gateway.remote.calls",
			"The number of calls made to the repository host, by operation and outcome", "{calls}"),
		pushes: counter(meter, "trigger.pushes",
			"The number of push notifications received, by outcome", "{events}"),
	}
}

func counter(meter metric.Meter, name, description, unit string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		slog.Warn("Failed to create counter, metric will be disabled", "error", err, "counter", name)
		return noop.Int64Counter{}
	}
	return c
}

// SetAttributeEnricher sets the attribute enricher applied to every measurement.
func (r *Recorder) SetAttributeEnricher(enricher AttributeEnricher) {
	r.attrEnricher = enricher
}

// RecordAction records one answered action request.
func (r *Recorder) RecordAction(ctx context.Context, apiPath, method string, status int, attrs ...attribute.KeyValue) {
	if r == nil {
		return
	}
	r.add(ctx, r.actions, []attribute.KeyValue{
		attribute.String("api_path", apiPath),
		attribute.String("method", method),
		attribute.String("status", strconv.Itoa(status)),
	}, attrs)
}

// RecordRemoteCall records one call to the repository host. outcome is a
// short classification such as "ok", "not_found" or "conflict".
func (r *Recorder) RecordRemoteCall(ctx context.Context, operation, outcome string, attrs ...attribute.KeyValue) {
	if r == nil {
		return
	}
	r.add(ctx, r.remoteCalls, []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	}, attrs)
}

// RecordPush records one received push notification.
func (r *Recorder) RecordPush(ctx context.Context, outcome string, attrs ...attribute.KeyValue) {
	if r == nil {
		return
	}
	r.add(ctx, r.pushes, []attribute.KeyValue{
		attribute.String("outcome", outcome),
	}, attrs)
}

func (r *Recorder) add(ctx context.Context, c metric.Int64Counter, baseAttrs, attrs []attribute.KeyValue) {
	if r.attrEnricher != nil {
		baseAttrs = r.attrEnricher(ctx, baseAttrs)
	}
	baseAttrs = append(baseAttrs, attrs...)
	c.Add(ctx, 1, metric.WithAttributes(baseAttrs...))
}
