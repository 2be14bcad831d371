/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package dispatcher

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"chainguard.dev/repoagent/gateway/action"
	"chainguard.dev/repoagent/gateway/params"
	"chainguard.dev/repoagent/metrics"
	"github.com/chainguard-dev/clog"
)

// UnsupportedEndpoint is the error payload for requests that match no route.
const UnsupportedEndpoint = "Unsupported endpoint or method"

// Result is the outcome of an operation handler.
type Result struct {
	StatusCode int
	Body       any
}

// Handler performs one operation with already-resolved arguments.
type Handler func(ctx context.Context, p params.Resolved) Result

// Route binds a handler to an API path and method.
type Route struct {
	APIPath string
	Method  string
	// Keys are the argument names looked up when the request carries its
	// arguments in a nested request body.
	Keys   []string
	Handle Handler
}

type routeKey struct {
	path   string
	method string
}

// Dispatcher selects and invokes the handler for a request.
type Dispatcher struct {
	routes  map[routeKey]Route
	metrics *metrics.Recorder
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithMetrics counts every answered request on m.
func WithMetrics(m *metrics.Recorder) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// New builds a Dispatcher over routes. Two routes for the same path and
// method are an error.
func New(routes []Route, opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{routes: make(map[routeKey]Route, len(routes))}
	for _, r := range routes {
		if r.Handle == nil {
			return nil, fmt.Errorf("route %s %s has no handler", r.Method, r.APIPath)
		}
		k := key(r.APIPath, r.Method)
		if _, dup := d.routes[k]; dup {
			return nil, fmt.Errorf("duplicate route %s %s", k.method, k.path)
		}
		d.routes[k] = r
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func key(path, method string) routeKey {
	return routeKey{path: path, method: strings.ToUpper(method)}
}

// Dispatch answers req.
func (d *Dispatcher) Dispatch(ctx context.Context, req *action.Request) (env *action.Envelope) {
	log := clog.FromContext(ctx).With(
		"action_group", req.ActionGroup,
		"api_path", req.APIPath,
		"http_method", req.HTTPMethod,
	)
	ctx = clog.WithLogger(ctx, log)

	route, ok := d.routes[key(req.APIPath, req.HTTPMethod)]

	defer func() {
		if r := recover(); r != nil {
			log.With("panic", r).Error("Handler panicked")
			env = action.Respond(req, http.StatusInternalServerError, params.Error("%v", r))
		}
		path := req.APIPath
		if !ok {
			// Keep the metric's cardinality bounded by the route table.
			path = "unsupported"
		}
		d.metrics.RecordAction(ctx, path, strings.ToUpper(req.HTTPMethod), env.Response.HTTPStatusCode)
		log.Infof("Answered with status %d", env.Response.HTTPStatusCode)
	}()

	if !ok {
		log.Warn("No route for request")
		return action.Respond(req, http.StatusNotFound, params.Error(UnsupportedEndpoint))
	}

	res := route.Handle(ctx, params.Resolve(ctx, req, route.Keys...))
	return action.Respond(req, res.StatusCode, res.Body)
}
