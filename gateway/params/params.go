/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package params

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"chainguard.dev/repoagent/gateway/action"
	"github.com/chainguard-dev/clog"
)

// Resolved is the flat set of arguments for one request. It has no mutators.
type Resolved struct {
	values map[string]string
}

// New builds a Resolved from a plain map. The map is copied.
func New(values map[string]string) Resolved {
	return Resolved{values: maps.Clone(values)}
}

// Resolve extracts the arguments of req.
//
// A flat parameter list contributes every named entry, later duplicates
// overwriting earlier ones. Otherwise each of keys is looked up in the nested
// request body; keys that are not present are left absent.
func Resolve(ctx context.Context, req *action.Request, keys ...string) Resolved {
	values := make(map[string]string)

	switch src := req.Source().(type) {
	case action.FlatParameterList:
		for _, p := range src {
			if p.Name == "" {
				continue
			}
			values[p.Name] = p.Value
		}

	case action.NestedRequestBody:
		props, err := src.Properties()
		if err != nil {
			clog.FromContext(ctx).With("error", err).Warn("Ignoring malformed request body")
			return Resolved{values: values}
		}
		for _, key := range keys {
			// First match wins, mirroring a linear search of the property list.
			if i := slices.IndexFunc(props, func(p action.Parameter) bool { return p.Name == key }); i >= 0 {
				values[key] = props[i].Value
			}
		}
	}

	return Resolved{values: values}
}

// Lookup returns the value of name and whether it was supplied.
func (r Resolved) Lookup(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Get returns the value of name, or the empty string when absent.
func (r Resolved) Get(name string) string {
	return r.values[name]
}

// Optional returns the value of name, or defaultValue when name is absent or
// empty.
func (r Resolved) Optional(name, defaultValue string) string {
	if v := r.values[name]; v != "" {
		return v
	}
	return defaultValue
}

// Missing returns the subset of names that are absent or empty, in order.
func (r Resolved) Missing(names ...string) []string {
	var missing []string
	for _, name := range names {
		if r.values[name] == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// Names returns the supplied argument names in sorted order.
func (r Resolved) Names() []string {
	return slices.Sorted(maps.Keys(r.values))
}

// Len returns the number of supplied arguments.
func (r Resolved) Len() int {
	return len(r.values)
}

// Error creates an error response payload.
func Error(format string, args ...any) map[string]any {
	return map[string]any{
		"error": fmt.Sprintf(format, args...),
	}
}

// ErrorWithContext creates an error response with additional context fields.
func ErrorWithContext(err error, fields map[string]any) map[string]any {
	response := map[string]any{
		"error": err.Error(),
	}
	maps.Copy(response, fields)
	return response
}
