/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package repoclient

// DefaultBranch is used when a caller does not name a branch.
const DefaultBranch = "main"

// RepositoryRef identifies a branch of a repository.
type RepositoryRef struct {
	Owner  string
	Repo   string
	Branch string
}

// branch returns the named branch, or DefaultBranch.
func (r RepositoryRef) branch() string {
	if r.Branch == "" {
		return DefaultBranch
	}
	return r.Branch
}

// FileHandle is the text content of a file on a branch.
type FileHandle struct {
	Path    string
	Content string
	// SHA is the blob version marker of the existing file. Empty means the
	// file is not known to exist, and a write creates it.
	SHA string
}

// PullRequest describes a pull request to open.
type PullRequest struct {
	Title string
	Body  string
	Head  string
	Base  string
}
