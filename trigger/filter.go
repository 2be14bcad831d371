/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package trigger

import (
	"maps"
	"slices"
	"strings"

	"github.com/google/go-github/v75/github"
)

// DefaultFeatureBranchPrefix is the ref namespace of branches that qualify.
const DefaultFeatureBranchPrefix = "refs/heads/feature/"

// DefaultSkipPatterns are the path substrings of files that never need tests.
var DefaultSkipPatterns = []string{"README", ".md", ".json", "migrations/", "tests/"}

// Filter selects qualifying pushes and the files they put in scope.
type Filter struct {
	// Prefix is the ref prefix a push must match.
	Prefix string
	// Skip lists path substrings that exclude a file from scope.
	Skip []string
}

// NewFilter returns a Filter for refs under prefix, or under
// DefaultFeatureBranchPrefix when prefix is empty.
func NewFilter(prefix string) *Filter {
	if prefix == "" {
		prefix = DefaultFeatureBranchPrefix
	}
	return &Filter{Prefix: prefix, Skip: slices.Clone(DefaultSkipPatterns)}
}

// Qualifies reports whether a push to ref should be processed.
func (f *Filter) Qualifies(ref string) bool {
	return strings.HasPrefix(ref, f.Prefix)
}

// InScope reports whether path should get tests.
func (f *Filter) InScope(path string) bool {
	return !slices.ContainsFunc(f.Skip, func(pattern string) bool {
		return strings.Contains(path, pattern)
	})
}

// ChangedFiles returns the sorted union of the paths added, modified and
// removed by commits.
func ChangedFiles(commits []*github.HeadCommit) []string {
	seen := make(map[string]struct{})
	for _, c := range commits {
		for _, paths := range [][]string{c.Added, c.Modified, c.Removed} {
			for _, p := range paths {
				seen[p] = struct{}{}
			}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Scope returns the in-scope files changed by commits, sorted.
func (f *Filter) Scope(commits []*github.HeadCommit) []string {
	return slices.DeleteFunc(ChangedFiles(commits), func(p string) bool {
		return !f.InScope(p)
	})
}
