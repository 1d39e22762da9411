// SPDX-License-Identifier: MPL-2.0

package bake

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bakehouse/bake/internal/issue"
	"github.com/bakehouse/bake/pkg/types"
)

var (
	// ErrDuplicateTarget is the sentinel error wrapped by DuplicateTargetError.
	ErrDuplicateTarget = errors.New("duplicate target")
	// ErrUnknownTarget is the sentinel error wrapped by UnknownTargetError.
	ErrUnknownTarget = errors.New("unknown target")
	// ErrInvalidTarget is the sentinel error wrapped by InvalidTargetError.
	ErrInvalidTarget = errors.New("invalid target")
	// ErrShellFailure is the sentinel error wrapped by ShellFailure.
	ErrShellFailure = errors.New("shell command failed")
	// ErrTargetFailed is the sentinel error wrapped by TargetFailedError.
	ErrTargetFailed = errors.New("target failed")
	// ErrAlreadyCompiled is returned when a Runner is compiled a second time.
	ErrAlreadyCompiled = errors.New("runner already compiled")
)

type (
	// DuplicateTargetError is returned when a name is registered twice.
	DuplicateTargetError struct {
		Name types.TargetName
	}

	// UnknownTargetError is returned when a name is not registered.
	UnknownTargetError struct {
		Name types.TargetName
	}

	// InvalidTargetError is returned when a target cannot be registered
	// because its name or action is unusable.
	InvalidTargetError struct {
		Name   types.TargetName
		Reason string
		Err    error
	}

	// ShellFailure is raised by the strict discipline when a command exits
	// with a non-zero status or cannot be run at all.
	ShellFailure struct {
		// Command is the command string that failed.
		Command string
		// ExitCode is the command's exit status.
		ExitCode types.ExitCode
		// Stderr is the command's captured standard error.
		Stderr string
		// Err is set when the command could not be run to completion.
		Err error

		// streamed is set when Stderr already reached the runner's stderr.
		streamed bool
	}

	// TargetFailedError is returned by Dispatch when a target's action
	// returns false.
	TargetFailedError struct {
		Name types.TargetName
	}
)

// Error implements the error interface.
func (e *DuplicateTargetError) Error() string {
	return fmt.Sprintf("target %q is already registered", e.Name)
}

// Unwrap returns ErrDuplicateTarget for errors.Is() compatibility.
func (e *DuplicateTargetError) Unwrap() error { return ErrDuplicateTarget }

// IssueID returns the issue catalog page for this error.
func (e *DuplicateTargetError) IssueID() issue.Id { return issue.DuplicateTargetId }

// Error implements the error interface.
func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("unknown target %q", e.Name)
}

// Unwrap returns ErrUnknownTarget for errors.Is() compatibility.
func (e *UnknownTargetError) Unwrap() error { return ErrUnknownTarget }

// ExitStatus reports the usage exit code.
func (e *UnknownTargetError) ExitStatus() types.ExitCode { return types.ExitUsage }

// IssueID returns the issue catalog page for this error.
func (e *UnknownTargetError) IssueID() issue.Id { return issue.TargetNotFoundId }

// Error implements the error interface.
func (e *InvalidTargetError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid target %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("invalid target %q: %s", e.Name, e.Reason)
}

// Unwrap returns both ErrInvalidTarget and the underlying cause.
func (e *InvalidTargetError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidTarget, e.Err}
	}
	return []error{ErrInvalidTarget}
}

// Error implements the error interface.
func (e *ShellFailure) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "command %q failed with exit code %d", e.Command, e.ExitCode)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" && !e.streamed {
		b.WriteString("\n")
		b.WriteString(stderr)
	}
	return b.String()
}

// Unwrap returns both ErrShellFailure and the underlying cause.
func (e *ShellFailure) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrShellFailure, e.Err}
	}
	return []error{ErrShellFailure}
}

// ExitStatus reports the command's exit code as a process failure code.
func (e *ShellFailure) ExitStatus() types.ExitCode { return e.ExitCode.AsFailure() }

// IssueID returns the issue catalog page for this error.
func (e *ShellFailure) IssueID() issue.Id { return issue.ShellCommandFailedId }

// Error implements the error interface.
func (e *TargetFailedError) Error() string {
	return fmt.Sprintf("target %q reported failure", e.Name)
}

// Unwrap returns ErrTargetFailed for errors.Is() compatibility.
func (e *TargetFailedError) Unwrap() error { return ErrTargetFailed }

// ExitStatus reports the generic failure code.
func (e *TargetFailedError) ExitStatus() types.ExitCode { return types.ExitFailure }

// Quiet reports that the target's own output already explains the failure.
func (e *TargetFailedError) Quiet() bool { return true }

// IssueID returns the issue catalog page for this error.
func (e *TargetFailedError) IssueID() issue.Id { return issue.TargetFailedId }
