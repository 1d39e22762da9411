// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"bytes"
	"errors"
	"io"
	"os/exec"

	"github.com/bakehouse/bake/pkg/types"
)

type (
	// executeOutput configures where command output is directed during execution.
	// It abstracts the difference between streaming (to the caller's writers)
	// and capturing (to bytes.Buffer) execution modes.
	executeOutput struct {
		stdout io.Writer
		stderr io.Writer
		// captured is nil in streaming mode.
		captured *capturedOutput
	}

	// capturedOutput holds the captured stdout and stderr buffers when capture mode is used.
	capturedOutput struct {
		stdout bytes.Buffer
		stderr bytes.Buffer
	}
)

// newOutput builds the output configuration for cmd.
func newOutput(cmd *Command) *executeOutput {
	if !cmd.Capture {
		return &executeOutput{
			stdout: orDiscard(cmd.Stdout),
			stderr: orDiscard(cmd.Stderr),
		}
	}

	captured := &capturedOutput{}
	out := &executeOutput{
		stdout:   &captured.stdout,
		stderr:   &captured.stderr,
		captured: captured,
	}
	if cmd.Stderr != nil {
		out.stderr = io.MultiWriter(&captured.stderr, cmd.Stderr)
	}
	return out
}

// result builds a Result carrying any captured output.
func (o *executeOutput) result() *Result {
	res := &Result{}
	if o.captured != nil {
		res.Output = o.captured.stdout.String()
		res.ErrOutput = o.captured.stderr.String()
	}
	return res
}

// extractExitCode determines the exit code from a command execution error.
// Returns a Result with exit code, output strings (if captured), and any error.
func extractExitCode(err error, out *executeOutput) *Result {
	result := out.result()

	if err == nil {
		return result
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Command executed but returned non-zero exit code
		exitCode := types.ExitCode(exitErr.ExitCode())
		if validateErr := exitCode.Validate(); validateErr != nil {
			// Killed by a signal: there is no status to report.
			result.ExitCode = types.ExitFailure
			result.Error = validateErr
			return result
		}
		result.ExitCode = exitCode
		return result
	}

	// Some other error (e.g., command not found, permission denied)
	result.ExitCode = types.ExitFailure
	result.Error = err
	return result
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
