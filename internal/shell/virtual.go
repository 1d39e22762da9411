// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bakehouse/bake/pkg/types"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Virtual executes commands with the mvdan/sh interpreter. External programs
// are still started through the interpreter's default exec handler.
type Virtual struct{}

// NewVirtual creates a virtual executor.
func NewVirtual() *Virtual {
	return &Virtual{}
}

// Name returns the executor name.
func (v *Virtual) Name() string {
	return "virtual"
}

// Available returns true: the interpreter is built in.
func (v *Virtual) Available() bool {
	return true
}

// Execute interprets cmd's script.
func (v *Virtual) Execute(ctx context.Context, cmd *Command) *Result {
	prog, err := syntax.NewParser().Parse(strings.NewReader(cmd.Script), "")
	if err != nil {
		// Same status a POSIX shell reports for a syntax error.
		return NewErrorResult(types.ExitUsage, fmt.Errorf("script syntax error: %w", err))
	}

	env := cmd.Env
	if env == nil {
		env = os.Environ()
	}

	out := newOutput(cmd)
	runner, err := interp.New(
		interp.Dir(cmd.Dir),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(cmd.Stdin, out.stdout, out.stderr),
	)
	if err != nil {
		return NewErrorResult(types.ExitFailure, fmt.Errorf("failed to create interpreter: %w", err))
	}

	ctx, cancel := withTimeout(ctx, cmd.Timeout)
	defer cancel()

	err = runner.Run(ctx, prog)
	result := out.result()
	if err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			result.ExitCode = types.ExitCode(exitStatus)
		} else {
			result.ExitCode = types.ExitFailure
			result.Error = fmt.Errorf("script execution failed: %w", err)
		}
	}

	return timeoutResult(ctx, cmd.Timeout, result)
}
