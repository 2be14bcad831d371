/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chainguard.dev/repoagent/gateway"
	rctesting "chainguard.dev/repoagent/gateway/repoclient/testing"
	"chainguard.dev/repoagent/trigger"
	"github.com/chainguard-dev/clog"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAgent struct {
	sessions []string
}

func (a *recordingAgent) Invoke(_ context.Context, sessionID, _ string) (string, error) {
	a.sessions = append(a.sessions, sessionID)
	return "ok", nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *rctesting.Host, *recordingAgent) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	host := rctesting.NewHost(t)
	d, err := gateway.New(context.Background(), gateway.Config{GitHubToken: "t", GitHubAPIURL: host.URL()}, nil)
	require.NoError(t, err)

	agent := &recordingAgent{}
	h := trigger.NewHandler(agent)
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics\n"))
	})
	return newRouter(clog.New(slog.Default().Handler()), d, h, metricsHandler), host, agent
}

func serve(r http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestActions(t *testing.T) {
	r, host, _ := newTestRouter(t)
	host.SetFile("acme", "widgets", "main", "app/models.py", "class Model: pass\n")

	w := serve(r, http.MethodPost, "/actions", `{
		"actionGroup": "github", "apiPath": "/file-content", "httpMethod": "GET", "messageVersion": 1,
		"parameters": [{"name": "owner", "value": "acme"}, {"name": "repo", "value": "widgets"}, {"name": "filepath", "value": "app/models.py"}]
	}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var env struct {
		Response struct {
			HTTPStatusCode int `json:"httpStatusCode"`
			ResponseBody   map[string]struct {
				Body string `json:"body"`
			} `json:"responseBody"`
		} `json:"response"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, http.StatusOK, env.Response.HTTPStatusCode)
	assert.Equal(t, "class Model: pass\n", env.Response.ResponseBody["application/json"].Body)
}

func TestActionsUnsupported(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := serve(r, http.MethodPost, "/actions", `{"apiPath": "/nonexistent", "httpMethod": "GET"}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"httpStatusCode":404`)
	assert.Contains(t, w.Body.String(), "Unsupported endpoint or method")
}

func TestActionsMalformed(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := serve(r, http.MethodPost, "/actions", `{not json`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhook(t *testing.T) {
	r, _, agent := newTestRouter(t)

	w := serve(r, http.MethodPost, "/webhook",
		`{"ref": "refs/heads/feature/x", "after": "abc1234", "commits": [{"modified": ["app/models.py"]}]}`,
		map[string]string{"X-GitHub-Event": "push", "X-GitHub-Delivery": "d-42"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"d-42"}, agent.sessions)

	w = serve(r, http.MethodPost, "/webhook", `{"ref": "refs/heads/main"}`, map[string]string{"X-GitHub-Event": "push"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message": "Not a feature branch push"}`, w.Body.String())
	assert.Len(t, agent.sessions, 1)
}

func TestHealthAndMetrics(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := serve(r, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "# metrics\n", w.Body.String())
}
