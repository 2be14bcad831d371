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

const missingFileReadArgs = "Missing 'repo', 'owner', or 'filepath'"

// FileRead answers with the text of one file on a branch.
func FileRead(repo Repository) dispatcher.Handler {
	return func(ctx context.Context, p params.Resolved) dispatcher.Result {
		if len(p.Missing("repo", "owner", "filepath")) > 0 {
			return invalid(missingFileReadArgs)
		}
		ref := repoclient.RepositoryRef{
			Owner:  p.Get("owner"),
			Repo:   p.Get("repo"),
			Branch: p.Optional("branch", repoclient.DefaultBranch),
		}
		path := p.Get("filepath")
		log := clog.FromContext(ctx).With("owner", ref.Owner, "repo", ref.Repo, "branch", ref.Branch, "path", path)

		file, err := repo.GetContent(ctx, ref, path)
		if err != nil {
			log.With("error", err).Error("Failed to read file")
			// Not-found is reported like any other failure.
			return dispatcher.Result{StatusCode: http.StatusInternalServerError, Body: params.Error("%v", err)}
		}
		log.Info("Read file")
		return success(http.StatusOK, file.Content)
	}
}
