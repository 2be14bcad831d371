/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package repoclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"chainguard.dev/repoagent/metrics"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v75/github"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
)

// DefaultUserAgent identifies the gateway to the repository host.
const DefaultUserAgent = "Bedrock-Agent"

// Config configures a Client.
type Config struct {
	// Token is sent as a bearer credential on every call. An empty token is
	// not rejected here; the remote host will refuse the first call.
	Token string
	// BaseURL is the API root, e.g. "https://api.github.com/". Empty keeps
	// the public GitHub API.
	BaseURL string
	// UserAgent defaults to DefaultUserAgent.
	UserAgent string
	// HTTPClient is the transport the bearer credential is layered on.
	// Defaults to http.DefaultClient.
	HTTPClient *http.Client
	// Metrics, when set, counts every remote call.
	Metrics *metrics.Recorder
}

// Client is a stateless repository host client. It is safe for concurrent use.
type Client struct {
	gh      *github.Client
	tracer  trace.Tracer
	metrics *metrics.Recorder
}

// New constructs a Client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, cfg.HTTPClient)
	}
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}))

	gh := github.NewClient(httpClient)
	gh.UserAgent = cfg.UserAgent
	if gh.UserAgent == "" {
		gh.UserAgent = DefaultUserAgent
	}

	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parsing base URL: %w", err)
		}
		gh.BaseURL = u
	}

	return &Client{
		gh:      gh,
		tracer:  otel.Tracer("chainguard.dev/repoagent/gateway/repoclient"),
		metrics: cfg.Metrics,
	}, nil
}

// start opens a span for op and returns a function that closes it, records
// the outcome and logs failures.
func (c *Client) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := c.tracer.Start(ctx, "repoclient."+op, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		defer span.End()
		c.metrics.RecordRemoteCall(ctx, op, Outcome(err))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			clog.FromContext(ctx).With("error", err, "operation", op, "status", StatusCode(err)).Debug("Remote call failed")
		}
	}
}

// GetRef returns the commit SHA at the head of branch.
func (c *Client) GetRef(ctx context.Context, owner, repo, branch string) (sha string, err error) {
	ctx, done := c.start(ctx, "get_ref", repoAttrs(owner, repo, branch)...)
	defer func() { done(err) }()

	ref, resp, err := c.gh.Git.GetRef(ctx, owner, repo, "heads/"+branch)
	if err != nil {
		return "", classify("get_ref", resp, err)
	}
	sha = ref.GetObject().GetSHA()
	if sha == "" {
		return "", &Error{Op: "get_ref", StatusCode: resp.StatusCode, Err: errors.New("reference has no object SHA")}
	}
	return sha, nil
}

// CreateRef creates branch pointing at sha. It fails with ErrConflict when
// the branch already exists.
func (c *Client) CreateRef(ctx context.Context, owner, repo, branch, sha string) (ref *github.Reference, err error) {
	ctx, done := c.start(ctx, "create_ref", repoAttrs(owner, repo, branch)...)
	defer func() { done(err) }()

	ref, resp, err := c.gh.Git.CreateRef(ctx, owner, repo, github.CreateRef{
		Ref: "refs/heads/" + branch,
		SHA: sha,
	})
	if err != nil {
		// The host answers 422 "Reference already exists" for duplicates.
		return nil, classify("create_ref", resp, err, http.StatusUnprocessableEntity)
	}
	return ref, nil
}

// GetContent reads the file at path on ref, decoded to text.
func (c *Client) GetContent(ctx context.Context, ref RepositoryRef, path string) (file *FileHandle, err error) {
	ctx, done := c.start(ctx, "get_content", append(repoAttrs(ref.Owner, ref.Repo, ref.branch()), attribute.String("path", path))...)
	defer func() { done(err) }()

	fc, _, resp, err := c.gh.Repositories.GetContents(ctx, ref.Owner, ref.Repo, path, &github.RepositoryContentGetOptions{
		Ref: ref.branch(),
	})
	if err != nil {
		return nil, classify("get_content", resp, err)
	}
	if fc == nil {
		return nil, &Error{Op: "get_content", StatusCode: resp.StatusCode, Err: fmt.Errorf("%s is a directory", path)}
	}

	content, err := fc.GetContent()
	if err != nil {
		return nil, &Error{Op: "get_content", StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding content: %w", err)}
	}
	return &FileHandle{Path: path, Content: content, SHA: fc.GetSHA()}, nil
}

// PutContent writes file to ref with message. An empty file.SHA creates the
// file; otherwise it must match the current version or the write fails with
// ErrConflict.
func (c *Client) PutContent(ctx context.Context, ref RepositoryRef, file FileHandle, message string) (result *github.RepositoryContentResponse, err error) {
	ctx, done := c.start(ctx, "put_content", append(repoAttrs(ref.Owner, ref.Repo, ref.branch()), attribute.String("path", file.Path))...)
	defer func() { done(err) }()

	opts := &github.RepositoryContentFileOptions{
		Message: github.Ptr(message),
		Content: []byte(file.Content),
		Branch:  github.Ptr(ref.branch()),
	}
	if file.SHA != "" {
		opts.SHA = github.Ptr(file.SHA)
	}

	// CreateFile and UpdateFile issue the same PUT; the SHA decides which.
	result, resp, err := c.gh.Repositories.CreateFile(ctx, ref.Owner, ref.Repo, file.Path, opts)
	if err != nil {
		return nil, classify("put_content", resp, err)
	}
	return result, nil
}

// CreatePullRequest opens pr against the repository.
func (c *Client) CreatePullRequest(ctx context.Context, owner, repo string, pr PullRequest) (created *github.PullRequest, err error) {
	ctx, done := c.start(ctx, "create_pull_request", append(repoAttrs(owner, repo, pr.Base), attribute.String("head", pr.Head))...)
	defer func() { done(err) }()

	created, resp, err := c.gh.PullRequests.Create(ctx, owner, repo, &github.NewPullRequest{
		Title: github.Ptr(pr.Title),
		Body:  github.Ptr(pr.Body),
		Head:  github.Ptr(pr.Head),
		Base:  github.Ptr(pr.Base),
	})
	if err != nil {
		return nil, classify("create_pull_request", resp, err)
	}
	return created, nil
}

func repoAttrs(owner, repo, branch string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("owner", owner),
		attribute.String("repo", repo),
		attribute.String("branch", branch),
	}
}
