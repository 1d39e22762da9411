// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/bakehouse/bake/internal/issue"
	"github.com/bakehouse/bake/pkg/types"
)

// waitDelay bounds how long Wait keeps draining output after the shell exits
// or is killed, in case a grandchild still holds the pipes open.
const waitDelay = 2 * time.Second

// ErrNoShell is returned when no usable host shell can be found.
var ErrNoShell = errors.New("no shell found")

// Native executes commands using the host's shell.
type Native struct {
	// Shell overrides the default shell.
	Shell string
	// ShellArgs are arguments passed to the shell before the script.
	ShellArgs []string
	// PTY runs streaming commands under a pseudo-terminal where supported.
	PTY bool
}

// NewNative creates a native executor using the default shell lookup.
func NewNative() *Native {
	return &Native{}
}

// Name returns the executor name.
func (n *Native) Name() string {
	return "native"
}

// Available returns whether a host shell can be found.
func (n *Native) Available() bool {
	_, err := n.getShell()
	return err == nil
}

// Execute runs cmd through the host shell.
func (n *Native) Execute(ctx context.Context, cmd *Command) *Result {
	shell, err := n.getShell()
	if err != nil {
		return NewErrorResult(types.ExitFailure, issue.NewErrorContext().
			WithOperation("find shell").
			WithResource(n.Shell).
			WithSuggestion("Set shell.path in bake.cue to an installed shell").
			WithSuggestion("Use shell.mode: \"virtual\" to run scripts without a host shell").
			WithIssue(issue.ShellNotFoundId).
			Wrap(err).
			BuildError())
	}

	ctx, cancel := withTimeout(ctx, cmd.Timeout)
	defer cancel()

	args := append(n.getShellArgs(shell), cmd.Script)
	c := exec.CommandContext(ctx, shell, args...)
	c.Dir = cmd.Dir
	c.Env = cmd.Env
	c.WaitDelay = waitDelay

	if n.PTY && ptySupported && !cmd.Capture {
		return timeoutResult(ctx, cmd.Timeout, n.executePTY(c, cmd))
	}

	out := newOutput(cmd)
	c.Stdout = out.stdout
	c.Stderr = out.stderr
	c.Stdin = cmd.Stdin

	err = c.Run()
	if err != nil && !isExitError(err) && ctx.Err() == nil {
		err = fmt.Errorf("failed to execute command: %w", err)
	}
	return timeoutResult(ctx, cmd.Timeout, extractExitCode(err, out))
}

// executePTY runs c attached to a pseudo-terminal and copies the terminal
// output to the command's stdout. Standard error is merged into the terminal.
func (n *Native) executePTY(c *exec.Cmd, cmd *Command) *Result {
	ptmx, err := startPTY(c)
	if err != nil {
		return NewErrorResult(types.ExitFailure, fmt.Errorf("failed to start pty: %w", err))
	}
	defer func() { _ = ptmx.Close() }() // Best-effort close after the child exits

	// Reading the master after the child exits reports EIO on Linux; that is
	// the normal end of output.
	_, _ = io.Copy(orDiscard(cmd.Stdout), ptmx)

	return extractExitCode(c.Wait(), newOutput(&Command{Stdout: cmd.Stdout}))
}

// getShell determines which shell to use.
func (n *Native) getShell() (string, error) {
	// Use configured shell if set
	if n.Shell != "" {
		return exec.LookPath(n.Shell)
	}

	// Platform-specific defaults
	switch runtime.GOOS {
	case "windows":
		// Try PowerShell first, then cmd
		if pwsh, err := exec.LookPath("pwsh"); err == nil {
			return pwsh, nil
		}
		if ps, err := exec.LookPath("powershell"); err == nil {
			return ps, nil
		}
		if cmd, err := exec.LookPath("cmd"); err == nil {
			return cmd, nil
		}
		return "", ErrNoShell
	default:
		// POSIX sh keeps scripts independent of the user's login shell;
		// other shells are chosen through shell.path.
		if sh, err := exec.LookPath("sh"); err == nil {
			return sh, nil
		}
		return "", ErrNoShell
	}
}

// getShellArgs returns the arguments to pass to the shell before the script.
func (n *Native) getShellArgs(shell string) []string {
	if len(n.ShellArgs) > 0 {
		return append([]string(nil), n.ShellArgs...)
	}

	base := filepath.Base(shell)
	// Also handle Windows paths on Unix systems
	if lastSlash := strings.LastIndex(base, "\\"); lastSlash >= 0 {
		base = base[lastSlash+1:]
	}
	base = strings.TrimSuffix(strings.ToLower(base), ".exe")

	switch base {
	case "cmd":
		return []string{"/C"}
	case "powershell", "pwsh":
		return []string{"-NoProfile", "-Command"}
	default:
		// Assume POSIX shell
		return []string{"-c"}
	}
}

func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
