/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package trigger

import (
	"context"
	"net/http"

	"chainguard.dev/repoagent/metrics"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v75/github"
	"github.com/google/uuid"
)

// NotFeatureBranch is the acknowledgment for pushes outside the feature
// branch namespace.
const NotFeatureBranch = "Not a feature branch push"

const pushEvent = "push"

// Agent starts one agent session with the given instruction and returns its
// final answer.
type Agent interface {
	Invoke(ctx context.Context, sessionID, instruction string) (string, error)
}

// Delivery is one webhook delivery as received from the repository host.
type Delivery struct {
	// EventType is the X-GitHub-Event header. Empty is treated as a push.
	EventType string
	// DeliveryID is the X-GitHub-Delivery header.
	DeliveryID string
	// Signature is the X-Hub-Signature-256 header.
	Signature string
	Payload   []byte
}

// Response is the acknowledgment sent back to the repository host.
type Response struct {
	StatusCode int
	Body       map[string]any
}

// Handler processes push deliveries.
type Handler struct {
	agent   Agent
	filter  *Filter
	secret  []byte
	metrics *metrics.Recorder
}

// Option configures a Handler.
type Option func(*Handler)

// WithFilter replaces the default feature branch filter.
func WithFilter(f *Filter) Option {
	return func(h *Handler) { h.filter = f }
}

// WithSecret makes the Handler reject deliveries not signed with secret.
func WithSecret(secret string) Option {
	return func(h *Handler) {
		if secret != "" {
			h.secret = []byte(secret)
		}
	}
}

// WithMetrics counts every delivery on m.
func WithMetrics(m *metrics.Recorder) Option {
	return func(h *Handler) { h.metrics = m }
}

// NewHandler returns a Handler that starts agent for qualifying pushes.
func NewHandler(agent Agent, opts ...Option) *Handler {
	h := &Handler{agent: agent, filter: NewFilter("")}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle acknowledges d, invoking the agent when the push qualifies. Agent
// failures are logged and still acknowledged.
func (h *Handler) Handle(ctx context.Context, d Delivery) Response {
	log := clog.FromContext(ctx).With("delivery", d.DeliveryID, "event", d.EventType)

	if h.secret != nil {
		if err := github.ValidateSignature(d.Signature, d.Payload, h.secret); err != nil {
			log.With("error", err).Warn("Rejecting delivery with invalid signature")
			return h.respond(ctx, "unauthorized", http.StatusUnauthorized, map[string]any{"error": "invalid signature"})
		}
	}

	eventType := d.EventType
	if eventType == "" {
		eventType = pushEvent
	}
	if eventType != pushEvent {
		log.Info("Ignoring non-push event")
		return h.respond(ctx, "ignored", http.StatusOK, map[string]any{"message": "Ignoring " + eventType + " event"})
	}

	parsed, err := github.ParseWebHook(pushEvent, d.Payload)
	if err != nil {
		log.With("error", err).Warn("Failed to parse push payload")
		return h.respond(ctx, "malformed", http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	ev := parsed.(*github.PushEvent)
	log = log.With("ref", ev.GetRef(), "after", ev.GetAfter())

	if !h.filter.Qualifies(ev.GetRef()) {
		log.Info("Ignoring push outside feature branches")
		return h.respond(ctx, "not_feature_branch", http.StatusOK, map[string]any{"message": NotFeatureBranch})
	}

	files := h.filter.Scope(ev.Commits)
	if len(files) == 0 {
		log.Info("No changed files need tests")
		return h.respond(ctx, "out_of_scope", http.StatusOK, map[string]any{"message": "No files require tests"})
	}
	log = log.With("files", files)

	work := NewWork(ev, files)
	instruction, err := work.Instruction()
	if err != nil {
		log.With("error", err).Error("Failed to render instruction")
		return h.respond(ctx, "error", http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	sessionID := d.DeliveryID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	log = log.With("session", sessionID)

	completion, err := h.agent.Invoke(clog.WithLogger(ctx, log), sessionID, instruction)
	if err != nil {
		log.With("error", err).Error("Agent invocation failed")
		return h.respond(ctx, "invoke_failed", http.StatusOK, map[string]any{
			"message":    "Agent invocation failed",
			"session_id": sessionID,
			"files":      files,
		})
	}
	log.With("completion", completion).Info("Agent finished")

	return h.respond(ctx, "invoked", http.StatusOK, map[string]any{
		"message":     "Agent invoked",
		"session_id":  sessionID,
		"test_branch": work.TestBranch(),
		"files":       files,
	})
}

func (h *Handler) respond(ctx context.Context, outcome string, status int, body map[string]any) Response {
	h.metrics.RecordPush(ctx, outcome)
	return Response{StatusCode: status, Body: body}
}
