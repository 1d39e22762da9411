// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/bakehouse/bake/internal/testutil"
	"github.com/bakehouse/bake/pkg/types"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping: test scripts use POSIX shell syntax")
	}
}

// posixShell names sh explicitly, as a configured shell.path would.
func posixShell() *Native {
	return &Native{Shell: "sh"}
}

func TestNative_Name(t *testing.T) {
	t.Parallel()

	if got := NewNative().Name(); got != "native" {
		t.Errorf("Name() = %q, want %q", got, "native")
	}
}

func TestNative_GetShellArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell string
		want  string
	}{
		{"/bin/bash", "-c"},
		{"/usr/bin/zsh", "-c"},
		{"sh", "-c"},
		{`C:\Windows\System32\cmd.exe`, "/C"},
		{"pwsh", "-NoProfile -Command"},
		{"powershell.exe", "-NoProfile -Command"},
	}

	n := NewNative()
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			t.Parallel()
			if got := strings.Join(n.getShellArgs(tt.shell), " "); got != tt.want {
				t.Errorf("getShellArgs(%q) = %q, want %q", tt.shell, got, tt.want)
			}
		})
	}

	custom := &Native{ShellArgs: []string{"-e", "-c"}}
	if got := strings.Join(custom.getShellArgs("/bin/sh"), " "); got != "-e -c" {
		t.Errorf("configured ShellArgs = %q, want %q", got, "-e -c")
	}
}

func TestNative_Capture(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	tests := []struct {
		name       string
		script     string
		wantCode   types.ExitCode
		wantOut    string
		wantErrOut string
	}{
		{"stdout", "echo hello", 0, "hello\n", ""},
		{"stderr", "echo oops >&2", 0, "", "oops\n"},
		{"exit code", "echo partial; exit 3", 3, "partial\n", ""},
		{"false", "false", 1, "", ""},
		{"pipeline", "printf 'a\\nb\\n' | wc -l | tr -d ' '", 0, "2\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := posixShell().Execute(context.Background(), &Command{Script: tt.script, Capture: true})
			if res.Error != nil {
				t.Fatalf("Execute() error: %v", res.Error)
			}
			if res.ExitCode != tt.wantCode {
				t.Errorf("ExitCode = %d, want %d", res.ExitCode, tt.wantCode)
			}
			if res.Output != tt.wantOut {
				t.Errorf("Output = %q, want %q", res.Output, tt.wantOut)
			}
			if res.ErrOutput != tt.wantErrOut {
				t.Errorf("ErrOutput = %q, want %q", res.ErrOutput, tt.wantErrOut)
			}
		})
	}
}

func TestNative_CaptureCopiesStderr(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	var stderr bytes.Buffer
	res := posixShell().Execute(context.Background(), &Command{
		Script:  "echo visible >&2; exit 4",
		Capture: true,
		Stderr:  &stderr,
	})

	if res.ExitCode != 4 {
		t.Errorf("ExitCode = %d, want 4", res.ExitCode)
	}
	if res.ErrOutput != "visible\n" || stderr.String() != "visible\n" {
		t.Errorf("stderr should be captured and copied, got captured %q, streamed %q", res.ErrOutput, stderr.String())
	}
}

func TestNative_Stream(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	var stdout, stderr bytes.Buffer
	res := posixShell().Execute(context.Background(), &Command{
		Script: "echo out; echo err >&2; exit 5",
		Stdout: &stdout,
		Stderr: &stderr,
	})

	if res.ExitCode != 5 {
		t.Errorf("ExitCode = %d, want 5", res.ExitCode)
	}
	if res.Output != "" {
		t.Errorf("streaming mode should not capture, got %q", res.Output)
	}
	if stdout.String() != "out\n" {
		t.Errorf("stdout = %q, want %q", stdout.String(), "out\n")
	}
	if stderr.String() != "err\n" {
		t.Errorf("stderr = %q, want %q", stderr.String(), "err\n")
	}
}

func TestNative_DirAndEnv(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	dir := t.TempDir()
	res := posixShell().Execute(context.Background(), &Command{
		Script:  `printf '%s|%s' "$(basename "$PWD")" "$BAKE_TEST_VALUE"`,
		Dir:     dir,
		Env:     []string{"PATH=/usr/bin:/bin", "BAKE_TEST_VALUE=42"},
		Capture: true,
	})

	if !res.Success() {
		t.Fatalf("Execute() failed: code %d, err %v", res.ExitCode, res.Error)
	}
	want := filepath.Base(dir) + "|42"
	if res.Output != want {
		t.Errorf("Output = %q, want %q", res.Output, want)
	}
}

func TestNative_Timeout(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	start := time.Now()
	res := posixShell().Execute(context.Background(), &Command{
		Script:  "sleep 5",
		Capture: true,
		Timeout: 100 * time.Millisecond,
	})

	if res.ExitCode != types.ExitTimeout {
		t.Errorf("ExitCode = %d, want %d", res.ExitCode, types.ExitTimeout)
	}
	if !errors.Is(res.Error, ErrTimeout) {
		t.Errorf("Error = %v, want ErrTimeout", res.Error)
	}
	if elapsed := time.Since(start); elapsed > 4*time.Second {
		t.Errorf("timeout took %s, child was not killed", elapsed)
	}
}

func TestNative_MissingShell(t *testing.T) {
	t.Parallel()

	n := &Native{Shell: filepath.Join(t.TempDir(), "no-such-shell")}
	if n.Available() {
		t.Fatal("Available() should be false for a missing shell")
	}

	res := n.Execute(context.Background(), &Command{Script: "true"})
	if res.Error == nil {
		t.Fatal("Execute() should report an error for a missing shell")
	}
	if res.ExitCode != types.ExitFailure {
		t.Errorf("ExitCode = %d, want %d", res.ExitCode, types.ExitFailure)
	}
	if res.Success() {
		t.Error("Success() should be false")
	}
}

func TestNative_PTY(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	var stdout bytes.Buffer
	res := (&Native{Shell: "sh", PTY: true}).Execute(context.Background(), &Command{
		Script: `if [ -t 1 ]; then echo tty; else echo pipe; fi; exit 7`,
		Stdout: &stdout,
	})

	if res.Error != nil {
		t.Fatalf("Execute() error: %v", res.Error)
	}
	if res.ExitCode != 7 {
		t.Errorf("ExitCode = %d, want 7", res.ExitCode)
	}
	if !strings.Contains(stdout.String(), "tty") {
		t.Errorf("stdout = %q, want the child to see a terminal", stdout.String())
	}
}

func TestNative_PTYIgnoredWhenCapturing(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	res := (&Native{Shell: "sh", PTY: true}).Execute(context.Background(), &Command{
		Script:  `if [ -t 1 ]; then echo tty; else echo pipe; fi`,
		Capture: true,
	})

	if res.Output != "pipe\n" {
		t.Errorf("Output = %q, captured commands must not run under a pty", res.Output)
	}
}

func TestNative_DefaultShellIsSh(t *testing.T) {
	skipOnWindows(t)
	t.Cleanup(testutil.MustSetenv(t, "SHELL", "/bin/false"))

	got, err := NewNative().getShell()
	if err != nil {
		t.Fatalf("getShell() error: %v", err)
	}
	if filepath.Base(got) != "sh" {
		t.Errorf("getShell() = %q, want sh regardless of $SHELL", got)
	}
}
