/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package trigger

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/go-github/v75/github"
)

func TestQualifies(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		ref    string
		want   bool
	}{
		{name: "feature branch", ref: "refs/heads/feature/x", want: true},
		{name: "nested feature branch", ref: "refs/heads/feature/team/x", want: true},
		{name: "main", ref: "refs/heads/main", want: false},
		{name: "tag", ref: "refs/tags/feature/x", want: false},
		{name: "bare prefix word", ref: "refs/heads/features/x", want: false},
		{name: "empty", ref: "", want: false},
		{name: "custom prefix", prefix: "refs/heads/dev/", ref: "refs/heads/dev/x", want: true},
		{name: "custom prefix excludes default", prefix: "refs/heads/dev/", ref: "refs/heads/feature/x", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewFilter(tt.prefix).Qualifies(tt.ref); got != tt.want {
				t.Errorf("Qualifies(%q) = %v, want %v", tt.ref, got, tt.want)
			}
		})
	}
}

func TestChangedFiles(t *testing.T) {
	commits := []*github.HeadCommit{{
		Added:    []string{"app/views.py", "app/urls.py"},
		Modified: []string{"app/models.py"},
	}, {
		Modified: []string{"app/models.py", "app/views.py"},
		Removed:  []string{"app/legacy.py"},
	}}

	want := []string{"app/legacy.py", "app/models.py", "app/urls.py", "app/views.py"}
	if diff := cmp.Diff(want, ChangedFiles(commits)); diff != "" {
		t.Errorf("ChangedFiles() mismatch (-want +got):\n%s", diff)
	}
}

func TestScope(t *testing.T) {
	tests := []struct {
		name    string
		commits []*github.HeadCommit
		want    []string
	}{{
		name:    "readme dropped",
		commits: []*github.HeadCommit{{Modified: []string{"app/models.py", "README.md"}}},
		want:    []string{"app/models.py"},
	}, {
		name: "every skip pattern",
		commits: []*github.HeadCommit{{
			Added: []string{
				"docs/guide.md",
				"fixtures/users.json",
				"app/migrations/0002_auto.py",
				"app/tests/test_models.py",
				"README",
				"app/services/billing.py",
			},
		}},
		want: []string{"app/services/billing.py"},
	}, {
		name:    "nothing in scope",
		commits: []*github.HeadCommit{{Modified: []string{"CHANGELOG.md"}}},
		want:    []string{},
	}, {
		name: "no commits",
		want: []string{},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewFilter("").Scope(tt.commits)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Scope() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
