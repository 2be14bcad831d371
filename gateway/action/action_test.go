/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package action_test

import (
	"encoding/json"
	"testing"

	"chainguard.dev/repoagent/gateway/action"
	"github.com/google/go-cmp/cmp"
)

func TestParameterUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want action.Parameter
	}{{
		name: "string value",
		in:   `{"name": "repo", "type": "string", "value": "widgets"}`,
		want: action.Parameter{Name: "repo", Type: "string", Value: "widgets"},
	}, {
		name: "numeric value",
		in:   `{"name": "count", "type": "integer", "value": 3}`,
		want: action.Parameter{Name: "count", Type: "integer", Value: "3"},
	}, {
		name: "boolean value",
		in:   `{"name": "draft", "value": true}`,
		want: action.Parameter{Name: "draft", Value: "true"},
	}, {
		name: "null value",
		in:   `{"name": "branch", "value": null}`,
		want: action.Parameter{Name: "branch"},
	}, {
		name: "missing value",
		in:   `{"name": "branch"}`,
		want: action.Parameter{Name: "branch"},
	}, {
		name: "escaped string",
		in:   `{"name": "content", "value": "line one\nline \"two\""}`,
		want: action.Parameter{Name: "content", Value: "line one\nline \"two\""},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got action.Parameter
			if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parameter mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRequestSource(t *testing.T) {
	body := json.RawMessage(`{"content": {"application/json": {"properties": [{"name": "repo", "value": "from-body"}]}}}`)

	t.Run("parameters take precedence", func(t *testing.T) {
		req := &action.Request{
			Parameters:  []action.Parameter{{Name: "repo", Value: "from-params"}},
			RequestBody: body,
		}
		src, ok := req.Source().(action.FlatParameterList)
		if !ok {
			t.Fatalf("Source() = %T, want FlatParameterList", req.Source())
		}
		if len(src) != 1 || src[0].Value != "from-params" {
			t.Errorf("Source() = %v, want the flat parameter list", src)
		}
	})

	t.Run("falls back to request body", func(t *testing.T) {
		req := &action.Request{RequestBody: body}
		src, ok := req.Source().(action.NestedRequestBody)
		if !ok {
			t.Fatalf("Source() = %T, want NestedRequestBody", req.Source())
		}
		props, err := src.Properties()
		if err != nil {
			t.Fatalf("Properties() error = %v", err)
		}
		want := []action.Parameter{{Name: "repo", Value: "from-body"}}
		if diff := cmp.Diff(want, props); diff != "" {
			t.Errorf("Properties() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		req := &action.Request{}
		props, err := req.Source().(action.NestedRequestBody).Properties()
		if err != nil {
			t.Fatalf("Properties() error = %v", err)
		}
		if props != nil {
			t.Errorf("Properties() = %v, want nil", props)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		req := &action.Request{RequestBody: json.RawMessage(`{"content": "not an object"}`)}
		props, err := req.Source().(action.NestedRequestBody).Properties()
		if err == nil {
			t.Error("Properties() error = nil, want decode error")
		}
		if props != nil {
			t.Errorf("Properties() = %v, want nil", props)
		}
	})

	t.Run("other content type", func(t *testing.T) {
		req := &action.Request{RequestBody: json.RawMessage(`{"content": {"text/plain": {"properties": [{"name": "repo", "value": "x"}]}}}`)}
		props, err := req.Source().(action.NestedRequestBody).Properties()
		if err != nil {
			t.Fatalf("Properties() error = %v", err)
		}
		if len(props) != 0 {
			t.Errorf("Properties() = %v, want none", props)
		}
	})
}

func TestRespondShape(t *testing.T) {
	req := &action.Request{
		MessageVersion: json.RawMessage(`"1.0"`),
		ActionGroup:    "github-actions",
		APIPath:        "/file",
		HTTPMethod:     "PUT",
	}

	raw, err := json.Marshal(action.Respond(req, 200, map[string]any{"ok": true}))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	want := map[string]any{
		"response": map[string]any{
			"actionGroup":    "github-actions",
			"apiPath":        "/file",
			"httpMethod":     "PUT",
			"httpStatusCode": float64(200),
			"responseBody": map[string]any{
				"application/json": map[string]any{
					"body": map[string]any{"ok": true},
				},
			},
		},
		"messageVersion": "1.0",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("envelope mismatch (-want +got):\n%s", diff)
	}
}

func TestRespondDefaults(t *testing.T) {
	env := action.Respond(&action.Request{}, 404, "nope")

	if env.Response.ActionGroup != "unknown" || env.Response.APIPath != "unknown" || env.Response.HTTPMethod != "unknown" {
		t.Errorf("echoed fields = %q/%q/%q, want unknown", env.Response.ActionGroup, env.Response.APIPath, env.Response.HTTPMethod)
	}
	if string(env.MessageVersion) != "1" {
		t.Errorf("MessageVersion = %s, want 1", env.MessageVersion)
	}
	if env.Body() != "nope" {
		t.Errorf("Body() = %v, want %q", env.Body(), "nope")
	}
}

func TestRequestRoundTrip(t *testing.T) {
	in := `{
		"messageVersion": "1.0",
		"agent": {"name": "test-writer", "id": "AGENT", "alias": "ALIAS", "version": "1"},
		"sessionId": "session-1",
		"actionGroup": "github",
		"apiPath": "/file-content",
		"httpMethod": "GET",
		"parameters": [
			{"name": "repo", "type": "string", "value": "widgets"},
			{"name": "owner", "type": "string", "value": "acme"}
		]
	}`

	var req action.Request
	if err := json.Unmarshal([]byte(in), &req); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if req.APIPath != "/file-content" || req.HTTPMethod != "GET" || req.SessionID != "session-1" {
		t.Errorf("routing fields = %q %q %q", req.APIPath, req.HTTPMethod, req.SessionID)
	}
	if len(req.Parameters) != 2 {
		t.Fatalf("len(Parameters) = %d, want 2", len(req.Parameters))
	}
	if string(action.Respond(&req, 200, nil).MessageVersion) != `"1.0"` {
		t.Error("messageVersion was not echoed verbatim")
	}
}
