/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package testing provides an in-memory repository host for exercising
// repoclient and its callers over real HTTP.
package testing

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// RecordedRequest is a request observed by the Host.
type RecordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// Host fakes the subset of the GitHub REST API used by repoclient: refs,
// contents and pulls. Writes honour blob SHAs the way the real host does.
type Host struct {
	server *httptest.Server

	mu       sync.Mutex
	refs     map[string]string
	files    map[string]file
	failures map[string]int
	requests []RecordedRequest
	pulls    int
	commits  int
}

type file struct {
	content string
	sha     string
}

// NewHost starts a Host that is shut down when the test ends.
func NewHost(t *testing.T) *Host {
	t.Helper()

	h := &Host{
		refs:     make(map[string]string),
		files:    make(map[string]file),
		failures: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/{owner}/{repo}/git/ref/heads/{branch...}", h.route("get_ref", h.getRef))
	mux.HandleFunc("POST /repos/{owner}/{repo}/git/refs", h.route("create_ref", h.createRef))
	mux.HandleFunc("GET /repos/{owner}/{repo}/contents/{path...}", h.route("get_content", h.getContent))
	mux.HandleFunc("PUT /repos/{owner}/{repo}/contents/{path...}", h.route("put_content", h.putContent))
	mux.HandleFunc("POST /repos/{owner}/{repo}/pulls", h.route("create_pull_request", h.createPull))

	h.server = httptest.NewServer(mux)
	t.Cleanup(h.server.Close)
	return h
}

// URL is the API root to configure repoclient with.
func (h *Host) URL() string {
	return h.server.URL + "/"
}

// SetBranch makes branch exist at sha.
func (h *Host) SetBranch(owner, repo, branch, sha string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.refs[refKey(owner, repo, branch)] = sha
}

// Branch returns the SHA of branch and whether it exists.
func (h *Host) Branch(owner, repo, branch string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sha, ok := h.refs[refKey(owner, repo, branch)]
	return sha, ok
}

// SetFile stores content at path on branch and returns its blob SHA.
func (h *Host) SetFile(owner, repo, branch, path, content string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	sha := blobSHA(content)
	h.files[fileKey(owner, repo, branch, path)] = file{content: content, sha: sha}
	return sha
}

// File returns the content and blob SHA at path on branch.
func (h *Host) File(owner, repo, branch, path string) (content, sha string, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	f, ok := h.files[fileKey(owner, repo, branch, path)]
	return f.content, f.sha, ok
}

// Fail makes every call to the named operation answer with status until
// cleared with a status of 0. Operation names match repoclient's, e.g.
// "get_content".
func (h *Host) Fail(operation string, status int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if status == 0 {
		delete(h.failures, operation)
		return
	}
	h.failures[operation] = status
}

// Requests returns every request observed so far.
func (h *Host) Requests() []RecordedRequest {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]RecordedRequest(nil), h.requests...)
}

// Count returns the number of observed requests with the given method whose
// path matches exactly.
func (h *Host) Count(method, path string) int {
	n := 0
	for _, r := range h.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (h *Host) route(operation string, fn func(w http.ResponseWriter, r *http.Request, body []byte)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		h.mu.Lock()
		h.requests = append(h.requests, RecordedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     body,
		})
		status, failing := h.failures[operation]
		h.mu.Unlock()

		if failing {
			writeJSON(w, status, map[string]any{"message": http.StatusText(status)})
			return
		}
		fn(w, r, body)
	}
}

func (h *Host) getRef(w http.ResponseWriter, r *http.Request, _ []byte) {
	branch := r.PathValue("branch")
	sha, ok := h.Branch(r.PathValue("owner"), r.PathValue("repo"), branch)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
		return
	}
	writeJSON(w, http.StatusOK, reference(branch, sha))
}

func (h *Host) createRef(w http.ResponseWriter, r *http.Request, body []byte) {
	var req struct {
		Ref string `json:"ref"`
		SHA string `json:"sha"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Problems parsing JSON"})
		return
	}
	const prefix = "refs/heads/"
	if len(req.Ref) <= len(prefix) || req.Ref[:len(prefix)] != prefix {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"message": "Reference name must start with refs/heads/"})
		return
	}
	branch := req.Ref[len(prefix):]

	h.mu.Lock()
	defer h.mu.Unlock()
	key := refKey(r.PathValue("owner"), r.PathValue("repo"), branch)
	if _, exists := h.refs[key]; exists {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"message": "Reference already exists"})
		return
	}
	h.refs[key] = req.SHA
	writeJSON(w, http.StatusCreated, reference(branch, req.SHA))
}

func (h *Host) getContent(w http.ResponseWriter, r *http.Request, _ []byte) {
	path := r.PathValue("path")
	branch := r.URL.Query().Get("ref")
	content, sha, ok := h.File(r.PathValue("owner"), r.PathValue("repo"), branch, path)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"type":     "file",
		"encoding": "base64",
		"path":     path,
		"sha":      sha,
		"content":  base64.StdEncoding.EncodeToString([]byte(content)),
	})
}

func (h *Host) putContent(w http.ResponseWriter, r *http.Request, body []byte) {
	var req struct {
		Message string  `json:"message"`
		Content []byte  `json:"content"`
		SHA     *string `json:"sha"`
		Branch  string  `json:"branch"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Problems parsing JSON"})
		return
	}
	path := r.PathValue("path")

	h.mu.Lock()
	defer h.mu.Unlock()
	key := fileKey(r.PathValue("owner"), r.PathValue("repo"), req.Branch, path)
	existing, exists := h.files[key]
	switch {
	case exists && req.SHA == nil:
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"message": `Invalid request. "sha" wasn't supplied.`})
		return
	case exists && *req.SHA != existing.sha, !exists && req.SHA != nil:
		writeJSON(w, http.StatusConflict, map[string]any{"message": fmt.Sprintf("%s does not match %s", path, derefOr(req.SHA, ""))})
		return
	}

	f := file{content: string(req.Content), sha: blobSHA(string(req.Content))}
	h.files[key] = f
	h.commits++

	status := http.StatusCreated
	if exists {
		status = http.StatusOK
	}
	writeJSON(w, status, map[string]any{
		"content": map[string]any{"type": "file", "path": path, "sha": f.sha},
		"commit":  map[string]any{"sha": fmt.Sprintf("commit-%d", h.commits), "message": req.Message},
	})
}

func (h *Host) createPull(w http.ResponseWriter, r *http.Request, body []byte) {
	var req struct {
		Title string `json:"title"`
		Body  string `json:"body"`
		Head  string `json:"head"`
		Base  string `json:"base"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Problems parsing JSON"})
		return
	}
	if req.Head == req.Base {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"message": "Validation Failed"})
		return
	}

	h.mu.Lock()
	h.pulls++
	number := h.pulls
	h.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{
		"number":   number,
		"state":    "open",
		"title":    req.Title,
		"body":     req.Body,
		"head":     map[string]any{"ref": req.Head},
		"base":     map[string]any{"ref": req.Base},
		"html_url": fmt.Sprintf("https://github.com/%s/%s/pull/%d", r.PathValue("owner"), r.PathValue("repo"), number),
	})
}

func reference(branch, sha string) map[string]any {
	return map[string]any{
		"ref":    "refs/heads/" + branch,
		"object": map[string]any{"type": "commit", "sha": sha},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func blobSHA(content string) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("blob %d\x00%s", len(content), content)))
	return hex.EncodeToString(sum[:])
}

func derefOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

func refKey(owner, repo, branch string) string {
	return owner + "/" + repo + "@" + branch
}

func fileKey(owner, repo, branch, path string) string {
	return refKey(owner, repo, branch) + ":" + path
}
