// SPDX-License-Identifier: MPL-2.0

package bake

import (
	"errors"
	"strings"
	"unicode"

	"github.com/bakehouse/bake/internal/shell"
)

// abortSignal unwinds a running target after a strict failure. Dispatch
// recovers it and returns the carried failure.
type abortSignal struct {
	failure *ShellFailure
}

// Strict runs cmd and returns its standard output with trailing whitespace
// trimmed. On a non-zero exit the current target is aborted: no statement
// after the call runs and the dispatcher exits with the command's status.
// Outside a running target (script initialization) the failure is printed
// and the process exits.
func (r *Runner) Strict(cmd string) string {
	return r.StrictIn("", cmd)
}

// StrictIn is Strict with an explicit working directory.
func (r *Runner) StrictIn(dir, cmd string) string {
	out, err := r.strict(dir, cmd)
	if err != nil {
		var failure *ShellFailure
		errors.As(err, &failure)
		r.abort(failure)
	}
	return out
}

// StrictE is Strict for callers that want to handle the failure themselves.
// The error is always a *ShellFailure.
func (r *Runner) StrictE(cmd string) (string, error) {
	return r.strict("", cmd)
}

// Pass runs cmd with output streamed to the runner's writers and reports
// whether it exited with status 0. It never aborts the target.
func (r *Runner) Pass(cmd string) bool {
	return r.PassIn("", cmd)
}

// PassIn is Pass with an explicit working directory.
func (r *Runner) PassIn(dir, cmd string) bool {
	res := r.execute(&shell.Command{
		Script: cmd,
		Dir:    r.dir(dir),
		Stdin:  r.stdin,
		Stdout: r.stdout,
		Stderr: r.stderr,
	})
	if res.Error != nil {
		r.logger.Error("command did not complete", "cmd", cmd, "err", res.Error)
	}
	return res.Success()
}

func (r *Runner) strict(dir, cmd string) (string, error) {
	res := r.execute(&shell.Command{
		Script:  cmd,
		Dir:     r.dir(dir),
		Stderr:  r.stderr,
		Capture: true,
	})
	if !res.Success() {
		return "", &ShellFailure{
			Command:  cmd,
			ExitCode: res.ExitCode,
			Stderr:   res.ErrOutput,
			Err:      res.Error,
			streamed: true,
		}
	}
	return strings.TrimRightFunc(res.Output, unicode.IsSpace), nil
}

func (r *Runner) execute(cmd *shell.Command) *shell.Result {
	cmd.Env = r.env
	cmd.Timeout = r.cfg.Shell.Timeout

	r.logger.Debug("running", "cmd", cmd.Script, "dir", cmd.Dir, "shell", r.executor.Name())
	res := r.executor.Execute(r.context(), cmd)
	r.logger.Debug("finished", "cmd", cmd.Script, "exit", res.ExitCode)
	return res
}

func (r *Runner) dir(dir string) string {
	if dir != "" {
		return dir
	}
	return r.workDir
}

// abort unwinds the running target, or reports and exits when no target is
// running.
func (r *Runner) abort(failure *ShellFailure) {
	r.mu.Lock()
	dispatching := r.dispatching
	r.mu.Unlock()

	if dispatching {
		panic(abortSignal{failure: failure})
	}
	r.reportFatal(failure)
	r.exit(int(failure.ExitStatus()))
}
