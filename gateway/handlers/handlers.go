/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package handlers

import (
	"context"
	"errors"
	"net/http"

	"chainguard.dev/repoagent/gateway/dispatcher"
	"chainguard.dev/repoagent/gateway/params"
	"chainguard.dev/repoagent/gateway/repoclient"
	"github.com/google/go-github/v75/github"
)

// Repository is the subset of the repository client the handlers depend on.
type Repository interface {
	GetRef(ctx context.Context, owner, repo, branch string) (string, error)
	CreateRef(ctx context.Context, owner, repo, branch, sha string) (*github.Reference, error)
	GetContent(ctx context.Context, ref repoclient.RepositoryRef, path string) (*repoclient.FileHandle, error)
	PutContent(ctx context.Context, ref repoclient.RepositoryRef, file repoclient.FileHandle, message string) (*github.RepositoryContentResponse, error)
	CreatePullRequest(ctx context.Context, owner, repo string, pr repoclient.PullRequest) (*github.PullRequest, error)
}

var _ Repository = (*repoclient.Client)(nil)

// API paths served by Routes.
const (
	PathFileContent       = "/file-content"
	PathCreateBranch      = "/create-branch"
	PathFile              = "/file"
	PathCreatePullRequest = "/create-pull-request"
)

// Routes returns the route table for the four repository operations.
func Routes(repo Repository) []dispatcher.Route {
	return []dispatcher.Route{{
		APIPath: PathFileContent,
		Method:  http.MethodGet,
		Keys:    []string{"repo", "owner", "filepath", "branch"},
		Handle:  FileRead(repo),
	}, {
		APIPath: PathCreateBranch,
		Method:  http.MethodPost,
		Keys:    []string{"repo", "owner", "base", "new_branch"},
		Handle:  BranchCreate(repo),
	}, {
		APIPath: PathFile,
		Method:  http.MethodPut,
		Keys:    []string{"repo", "owner", "filepath", "content", "branch", "message", "sha"},
		Handle:  FileWrite(repo),
	}, {
		APIPath: PathCreatePullRequest,
		Method:  http.MethodPost,
		Keys:    []string{"repo", "owner", "title", "body", "head", "base"},
		Handle:  PullRequestCreate(repo),
	}}
}

func success(status int, body any) dispatcher.Result {
	return dispatcher.Result{StatusCode: status, Body: body}
}

func invalid(message string) dispatcher.Result {
	return dispatcher.Result{StatusCode: http.StatusBadRequest, Body: params.Error("%s", message)}
}

// remoteFailure maps a repository error to a result. Conflicts keep the
// status the host answered with; everything else is a 500.
func remoteFailure(err error, fields map[string]any) dispatcher.Result {
	status := http.StatusInternalServerError
	if errors.Is(err, repoclient.ErrConflict) {
		status = http.StatusConflict
		if sc := repoclient.StatusCode(err); sc != 0 {
			status = sc
		}
	}
	if fields == nil {
		return dispatcher.Result{StatusCode: status, Body: params.Error("%v", err)}
	}
	return dispatcher.Result{StatusCode: status, Body: params.ErrorWithContext(err, fields)}
}
