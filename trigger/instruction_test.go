/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package trigger

import (
	"strings"
	"testing"

	"github.com/google/go-github/v75/github"
)

func TestTestBranch(t *testing.T) {
	tests := []struct {
		source string
		head   string
		want   string
	}{
		{source: "feature/add-user", head: "abc1234def5678", want: "unit-tests/feature-add-user-abc1234"},
		{source: "feature/team/x", head: "0123456789", want: "unit-tests/feature-team-x-0123456"},
		{source: "feature/y", head: "abc", want: "unit-tests/feature-y-abc"},
	}

	for _, tt := range tests {
		w := Work{SourceBranch: tt.source, Head: tt.head}
		if got := w.TestBranch(); got != tt.want {
			t.Errorf("TestBranch(%q, %q) = %q, want %q", tt.source, tt.head, got, tt.want)
		}
	}
}

func TestInstruction(t *testing.T) {
	ev := &github.PushEvent{
		Ref:   github.Ptr("refs/heads/feature/add-user"),
		After: github.Ptr("abc1234def5678"),
		Repo: &github.PushEventRepository{
			Name:  github.Ptr("widgets"),
			Owner: &github.User{Login: github.Ptr("acme")},
		},
		Commits: []*github.HeadCommit{{
			ID:       github.Ptr("abc1234def5678"),
			Message:  github.Ptr("Add user model {{not_a_placeholder}}"),
			Added:    []string{"app/models.py"},
			Modified: []string{"README.md"},
		}},
	}

	got, err := NewWork(ev, []string{"app/models.py"}).Instruction()
	if err != nil {
		t.Fatalf("Instruction() error = %v", err)
	}

	for _, want := range []string{
		"repository acme/widgets",
		"Create a branch from feature/add-user",
		"Use this name: unit-tests/feature-add-user-abc1234",
		"these modified files: app/models.py\n",
		"id: abc1234def5678",
		"Add user model {{not_a_placeholder}}",
		"- README.md",
		"pull request from unit-tests/feature-add-user-abc1234 into feature/add-user",
		"MUST FOLLOW INSTRUCTIONS",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Instruction() is missing %q:\n%s", want, got)
		}
	}
}

func TestRepositoryName(t *testing.T) {
	tests := []struct {
		repo *github.PushEventRepository
		want string
	}{
		{repo: &github.PushEventRepository{FullName: github.Ptr("acme/widgets")}, want: "acme/widgets"},
		{repo: &github.PushEventRepository{Name: github.Ptr("widgets"), Owner: &github.User{Name: github.Ptr("acme")}}, want: "acme/widgets"},
	}
	for _, tt := range tests {
		if got := repositoryName(tt.repo); got != tt.want {
			t.Errorf("repositoryName() = %q, want %q", got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		template string
		values   map[string]string
		want     string
		wantErr  string
	}{{
		name:     "substitutes",
		template: "Hello {{ name }}, see {{name}}.",
		values:   map[string]string{"name": "agent"},
		want:     "Hello agent, see agent.",
	}, {
		name:     "values are not rescanned",
		template: "{{a}}",
		values:   map[string]string{"a": "{{b}}"},
		want:     "{{b}}",
	}, {
		name:     "unbound",
		template: "{{missing}}",
		values:   map[string]string{},
		wantErr:  "unbound placeholder: missing",
	}, {
		name:     "unclosed",
		template: "{{open",
		wantErr:  "unclosed placeholder",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := render(tt.template, tt.values)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("render() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("render() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("render() = %q, want %q", got, tt.want)
			}
		})
	}
}
