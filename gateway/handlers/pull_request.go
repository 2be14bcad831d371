/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package handlers

import (
	"context"
	"net/http"

	"chainguard.dev/repoagent/gateway/dispatcher"
	"chainguard.dev/repoagent/gateway/params"
	"chainguard.dev/repoagent/gateway/repoclient"
	"github.com/chainguard-dev/clog"
)

const missingPullRequestArgs = "Missing 'repo', 'owner', or 'title'"

// PullRequestCreate opens a pull request from head into base.
func PullRequestCreate(repo Repository) dispatcher.Handler {
	return func(ctx context.Context, p params.Resolved) dispatcher.Result {
		if len(p.Missing("repo", "owner", "title")) > 0 {
			return invalid(missingPullRequestArgs)
		}
		owner, name := p.Get("owner"), p.Get("repo")
		pr := repoclient.PullRequest{
			Title: p.Get("title"),
			Body:  p.Get("body"),
			Head:  p.Optional("head", repoclient.DefaultBranch),
			Base:  p.Optional("base", repoclient.DefaultBranch),
		}
		log := clog.FromContext(ctx).With("owner", owner, "repo", name, "head", pr.Head, "base", pr.Base)

		created, err := repo.CreatePullRequest(ctx, owner, name, pr)
		if err != nil {
			log.With("error", err).Error("Failed to create pull request")
			return remoteFailure(err, nil)
		}
		log.With("number", created.GetNumber()).Info("Created pull request")
		return success(http.StatusCreated, created)
	}
}
