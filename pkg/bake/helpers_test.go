// SPDX-License-Identifier: MPL-2.0

package bake

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/bakehouse/bake/internal/config"
)

type testRunner struct {
	*Runner
	stdout bytes.Buffer
	stderr bytes.Buffer
	exits  []int
}

// newTestRunner builds a runner on sh with captured output and a recording
// exit hook.
func newTestRunner(t *testing.T, opts ...Option) *testRunner {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Shell.Path = "sh"

	tr := &testRunner{}
	base := []Option{
		WithName("bakery"),
		WithConfig(cfg),
		WithStdout(&tr.stdout),
		WithStderr(&tr.stderr),
		WithWorkDir(t.TempDir()),
		WithExit(func(code int) { tr.exits = append(tr.exits, code) }),
	}
	tr.Runner = New(append(base, opts...)...)
	return tr
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping: test commands use POSIX shell syntax")
	}
}
