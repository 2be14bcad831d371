/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package trigger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/go-github/v75/github"
	"gopkg.in/yaml.v3"
)

const instructionTemplate = `You must execute the tasks below in order for the repository {{repository}}.

1. Create a branch from {{source_branch}}
    - Branch naming convention: unit-tests/<source-branch-name>-<short-commit-hash>
    - Use this name: {{test_branch}}

2. Generate high quality unit test cases using the pytest framework for the Django application
    - Only generate tests for these modified files: {{files}}
    - Use the commit context below to guide the test coverage:

{{commits}}
3. Commit the generated test files to the new branch
    - Their path must be under the tests/ directory of the Django app.

4. Create a pull request from {{test_branch}} into {{source_branch}} with proper details

MUST FOLLOW INSTRUCTIONS:
- Commit all changes to the branch before raising the pull request.
- Ensure the generated tests follow best practices for maintainability and readability.
- Aim for meaningful coverage of all logic and edge cases introduced in the code changes.
`

// Commit is the context of one pushed commit given to the agent.
type Commit struct {
	ID       string   `yaml:"id"`
	Message  string   `yaml:"message"`
	Added    []string `yaml:"added,omitempty"`
	Modified []string `yaml:"modified,omitempty"`
	Removed  []string `yaml:"removed,omitempty"`
}

// Work is a qualifying push reduced to what the agent needs.
type Work struct {
	Repository   string
	SourceBranch string
	Head         string
	Files        []string
	Commits      []Commit
}

// NewWork builds the Work for ev, with files already scoped.
func NewWork(ev *github.PushEvent, files []string) Work {
	w := Work{
		Repository:   repositoryName(ev.GetRepo()),
		SourceBranch: strings.TrimPrefix(ev.GetRef(), "refs/heads/"),
		Head:         ev.GetAfter(),
		Files:        files,
	}
	for _, c := range ev.Commits {
		w.Commits = append(w.Commits, Commit{
			ID:       c.GetID(),
			Message:  c.GetMessage(),
			Added:    c.Added,
			Modified: c.Modified,
			Removed:  c.Removed,
		})
	}
	return w
}

func repositoryName(r *github.PushEventRepository) string {
	if name := r.GetFullName(); name != "" {
		return name
	}
	owner := r.GetOwner().GetLogin()
	if owner == "" {
		owner = r.GetOwner().GetName()
	}
	return owner + "/" + r.GetName()
}

// TestBranch is the suggested branch for the generated tests, e.g.
// unit-tests/feature-add-user-abc1234.
func (w Work) TestBranch() string {
	short := w.Head
	if len(short) > 7 {
		short = short[:7]
	}
	return fmt.Sprintf("unit-tests/%s-%s", strings.ReplaceAll(w.SourceBranch, "/", "-"), short)
}

// Instruction renders the free text handed to the agent.
func (w Work) Instruction() (string, error) {
	commits, err := yaml.Marshal(w.Commits)
	if err != nil {
		return "", fmt.Errorf("failed to marshal commit context: %w", err)
	}
	return render(instructionTemplate, map[string]string{
		"repository":    w.Repository,
		"source_branch": w.SourceBranch,
		"test_branch":   w.TestBranch(),
		"files":         strings.Join(w.Files, ", "),
		"commits":       string(commits),
	})
}

// render substitutes each {{name}} in template. Every placeholder must have
// a value; substituted text is not scanned again.
func render(template string, values map[string]string) (string, error) {
	var out strings.Builder
	for len(template) > 0 {
		start := strings.Index(template, "{{")
		if start == -1 {
			out.WriteString(template)
			break
		}
		out.WriteString(template[:start])

		end := strings.Index(template[start:], "}}")
		if end == -1 {
			return "", errors.New("unclosed placeholder: missing '}}'")
		}
		end += start + 2

		name := strings.TrimSpace(template[start+2 : end-2])
		val, ok := values[name]
		if !ok {
			return "", fmt.Errorf("unbound placeholder: %s", name)
		}
		out.WriteString(val)
		template = template[end:]
	}
	return out.String(), nil
}
