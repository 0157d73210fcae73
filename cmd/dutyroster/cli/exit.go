// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
)

// ExitError signals a non-zero exit without an error message. The
// command has already written its own output.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// Exit codes by error category. Transient and forbidden follow
// sysexits(3) so scripts can retry or re-authenticate.
const (
	ExitFailure   = 1
	ExitUsage     = 2
	ExitConflict  = 3
	ExitNotFound  = 66
	ExitTransient = 75
	ExitForbidden = 77
)

// ExitCodeFor maps err to a process exit code.
func ExitCodeFor(err error) int {
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	var toolError *ToolError
	if !errors.As(err, &toolError) {
		return ExitFailure
	}
	switch toolError.Category {
	case CategoryValidation:
		return ExitUsage
	case CategoryConflict:
		return ExitConflict
	case CategoryTransient:
		return ExitTransient
	case CategoryForbidden:
		return ExitForbidden
	case CategoryNotFound:
		return ExitNotFound
	default:
		return ExitFailure
	}
}
