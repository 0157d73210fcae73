// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies command errors so callers (and the exit
// code) can tell bad input from a flaky network.
type ErrorCategory string

const (
	// CategoryValidation: bad flags or arguments. Fix the input.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound: a referenced period, file or revision does not
	// exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryForbidden: the token is missing, expired or not allowed.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryConflict: the request conflicts with the roster's state,
	// such as auto-generate finding too few nurses.
	CategoryConflict ErrorCategory = "conflict"

	// CategoryTransient: network failure or server error. Retry later.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal: anything else.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized error with an optional hint.
type ToolError struct {
	Category ErrorCategory
	Err      error

	// Hint is a one-line suggestion printed under the error.
	Hint string
}

func (e *ToolError) Error() string { return e.Err.Error() }

func (e *ToolError) Unwrap() error { return e.Err }

// WithHint sets the hint and returns e.
func (e *ToolError) WithHint(hint string) *ToolError {
	e.Hint = hint
	return e
}

// HintOf returns the hint of the first ToolError in err's chain.
func HintOf(err error) string {
	var toolError *ToolError
	if errors.As(err, &toolError) {
		return toolError.Hint
	}
	return ""
}

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Forbidden creates a forbidden error.
func Forbidden(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryForbidden, Err: fmt.Errorf(format, args...)}
}

// Conflict creates a conflict error.
func Conflict(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryConflict, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}
