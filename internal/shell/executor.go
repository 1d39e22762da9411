// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bakehouse/bake/pkg/types"
)

// ErrTimeout is wrapped by the Result error of a command that outlived its deadline.
var ErrTimeout = errors.New("command timed out")

type (
	// Command describes a single shell invocation.
	Command struct {
		// Script is the command string handed to the shell.
		Script string
		// Dir is the working directory; empty means the process working directory.
		Dir string
		// Env is the complete child environment; nil inherits the process environment.
		Env []string
		// Stdin is connected to the child's standard input when non-nil.
		Stdin io.Reader
		// Stdout receives standard output in streaming mode.
		Stdout io.Writer
		// Stderr receives standard error. In capture mode it also gets a copy
		// of everything captured, so failures stay visible to the user.
		Stderr io.Writer
		// Capture collects stdout and stderr into the Result instead of streaming.
		Capture bool
		// Timeout kills the child after the given duration; zero means no limit.
		Timeout time.Duration
	}

	// Result contains the outcome of a command execution.
	Result struct {
		// ExitCode is the child's exit status.
		ExitCode types.ExitCode
		// Error is set when the command could not be run to completion
		// (shell missing, syntax error, timeout).
		Error error
		// Output is the captured standard output (capture mode only).
		Output string
		// ErrOutput is the captured standard error (capture mode only).
		ErrOutput string
	}

	// Executor runs commands through a particular shell implementation.
	Executor interface {
		// Name returns the executor name ("native" or "virtual").
		Name() string
		// Available reports whether the executor can run commands on this host.
		Available() bool
		// Execute runs cmd and reports its outcome. It never returns nil.
		Execute(ctx context.Context, cmd *Command) *Result
	}
)

// Success reports whether the command ran and exited with status 0.
func (r *Result) Success() bool {
	return r.Error == nil && r.ExitCode.IsSuccess()
}

// NewErrorResult creates a Result with the given exit code and error.
func NewErrorResult(code types.ExitCode, err error) *Result {
	return &Result{ExitCode: code, Error: err}
}

// withTimeout derives the execution context for cmd.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// timeoutResult converts an expired deadline into the conventional timeout
// exit code, keeping whatever output was captured before the kill.
func timeoutResult(ctx context.Context, d time.Duration, res *Result) *Result {
	if d <= 0 || !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return res
	}
	res.ExitCode = types.ExitTimeout
	res.Error = fmt.Errorf("%w after %s", ErrTimeout, d)
	return res
}
