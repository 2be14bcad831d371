/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package repoclient

import (
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/google/go-github/v75/github"
)

var (
	// ErrNotFound reports that the branch, file or repository does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict reports that the remote rejected a write because the
	// version marker is stale or the ref already exists.
	ErrConflict = errors.New("conflict")
)

// Error is a failed remote call.
type Error struct {
	// Op names the operation, e.g. "get_ref".
	Op string
	// StatusCode is the HTTP status returned by the remote, or 0 when no
	// response was received.
	StatusCode int
	// Err is the underlying failure.
	Err error

	kind error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes both the classification sentinel and the underlying error.
func (e *Error) Unwrap() []error {
	if e.kind == nil {
		return []error{e.Err}
	}
	return []error{e.kind, e.Err}
}

// StatusCode returns the remote HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var re *Error
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}

// Outcome classifies err for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}

// classify wraps a go-github failure. conflicts lists the statuses that the
// operation treats as a conflict in addition to 409.
func classify(op string, resp *github.Response, err error, conflicts ...int) error {
	e := &Error{Op: op, Err: err}

	var ghErr *github.ErrorResponse
	switch {
	case resp != nil && resp.Response != nil:
		e.StatusCode = resp.StatusCode
	case errors.As(err, &ghErr) && ghErr.Response != nil:
		e.StatusCode = ghErr.Response.StatusCode
	}

	switch {
	case e.StatusCode == http.StatusNotFound:
		e.kind = ErrNotFound
	case e.StatusCode == http.StatusConflict, slices.Contains(conflicts, e.StatusCode):
		e.kind = ErrConflict
	}
	return e
}
