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
	"github.com/chainguard-dev/clog"
)

const missingBranchArgs = "Missing 'repo', 'owner', 'base', or 'new_branch'"

// Steps reported when branch creation fails.
const (
	StepLookupBase   = "looking up base branch"
	StepCreateBranch = "creating branch"
)

// BranchCreate creates new_branch at the head commit of base.
func BranchCreate(repo Repository) dispatcher.Handler {
	return func(ctx context.Context, p params.Resolved) dispatcher.Result {
		if len(p.Missing("repo", "owner", "base", "new_branch")) > 0 {
			return invalid(missingBranchArgs)
		}
		owner, name := p.Get("owner"), p.Get("repo")
		base, branch := p.Get("base"), p.Get("new_branch")
		log := clog.FromContext(ctx).With("owner", owner, "repo", name, "base", base, "new_branch", branch)

		sha, err := repo.GetRef(ctx, owner, name, base)
		if err != nil {
			log.With("error", err).Error("Failed to look up base branch")
			return remoteFailure(err, map[string]any{"step": StepLookupBase})
		}

		ref, err := repo.CreateRef(ctx, owner, name, branch, sha)
		if err != nil {
			log.With("error", err, "sha", sha).Error("Failed to create branch")
			return remoteFailure(err, map[string]any{"step": StepCreateBranch})
		}
		log.With("sha", sha).Info("Created branch")
		return success(http.StatusCreated, ref)
	}
}
