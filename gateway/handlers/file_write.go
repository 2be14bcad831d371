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
	"github.com/chainguard-dev/clog"
)

const (
	missingFileWriteArgs = "Missing 'repo', 'owner', 'filepath', or 'content'"

	// DefaultCommitMessage is used when the caller supplies no message.
	DefaultCommitMessage = "Add file via Bedrock Agent"

	// StepLookupFile is reported when the version lookup before a write fails.
	StepLookupFile = "looking up existing file"
)

// FileWrite creates or updates a file on a branch.
//
// The write carries the version marker of the file it replaces, so the host
// rejects it as a conflict when the file changed in between. The marker is
// the caller's "sha" argument when given, otherwise the version found by
// reading the file first. A file that does not exist is created.
func FileWrite(repo Repository) dispatcher.Handler {
	return func(ctx context.Context, p params.Resolved) dispatcher.Result {
		if len(p.Missing("repo", "owner", "filepath", "content")) > 0 {
			return invalid(missingFileWriteArgs)
		}
		ref := repoclient.RepositoryRef{
			Owner:  p.Get("owner"),
			Repo:   p.Get("repo"),
			Branch: p.Optional("branch", repoclient.DefaultBranch),
		}
		file := repoclient.FileHandle{
			Path:    p.Get("filepath"),
			Content: p.Get("content"),
			SHA:     p.Get("sha"),
		}
		message := p.Optional("message", DefaultCommitMessage)
		log := clog.FromContext(ctx).With("owner", ref.Owner, "repo", ref.Repo, "branch", ref.Branch, "path", file.Path)

		if file.SHA == "" {
			sha, err := currentVersion(ctx, repo, ref, file.Path)
			if err != nil {
				log.With("error", err).Error("Failed to look up existing file")
				return remoteFailure(err, map[string]any{"step": StepLookupFile})
			}
			file.SHA = sha
		}
		log = log.With("sha", file.SHA)

		result, err := repo.PutContent(ctx, ref, file, message)
		if err != nil {
			log.With("error", err).Error("Failed to write file")
			return remoteFailure(err, nil)
		}
		if file.SHA == "" {
			log.Info("Created file")
		} else {
			log.Info("Updated file")
		}
		return success(http.StatusOK, result)
	}
}

// currentVersion returns the version marker of path, or "" when the file
// does not exist.
func currentVersion(ctx context.Context, repo Repository, ref repoclient.RepositoryRef, path string) (string, error) {
	existing, err := repo.GetContent(ctx, ref, path)
	switch {
	case errors.Is(err, repoclient.ErrNotFound):
		return "", nil
	case err != nil:
		return "", err
	}
	return existing.SHA, nil
}
