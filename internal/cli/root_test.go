// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bakehouse/bake/pkg/types"
)

type harness struct {
	stdout     bytes.Buffer
	stderr     bytes.Buffer
	dispatched []string
	verbose    bool
	results    map[string]error
}

func (h *harness) options() Options {
	return Options{
		Use:     "bakery",
		Version: "test",
		Targets: []Entry{
			{Name: "build", Description: "build it"},
			{Name: "test", Description: "test it"},
			{Name: "docker_compose_full", Description: "bring up the stack"},
		},
		Dispatch: func(_ context.Context, name string) error {
			h.dispatched = append(h.dispatched, name)
			if err, ok := h.results[name]; ok {
				return err
			}
			switch name {
			case "build", "test", "docker_compose_full":
				return nil
			default:
				return &testFailure{code: types.ExitUsage}
			}
		},
		ShowConfig: func() (string, error) { return "[shell]\nmode = 'native'\n", nil },
		SetVerbose: func(v bool) { h.verbose = v },
		Stdout:     &h.stdout,
		Stderr:     &h.stderr,
	}
}

func (h *harness) run(args ...string) types.ExitCode {
	return Execute(context.Background(), h.options(), args)
}

func TestExecute_ListingWithoutArgs(t *testing.T) {
	for _, args := range [][]string{nil, {"--list"}, {"-l"}} {
		h := &harness{}
		if code := h.run(args...); code != 0 {
			t.Fatalf("Execute(%v) = %d, want 0; stderr: %s", args, code, h.stderr.String())
		}
		out := h.stdout.String()
		build := strings.Index(out, "build — build it")
		test := strings.Index(out, "test — test it")
		if build < 0 || test < 0 || build > test {
			t.Errorf("Execute(%v) listing out of order:\n%s", args, out)
		}
		if len(h.dispatched) != 0 {
			t.Errorf("listing should not dispatch, got %v", h.dispatched)
		}
	}
}

func TestExecute_DispatchesTarget(t *testing.T) {
	h := &harness{}
	if code := h.run("docker_compose_full"); code != 0 {
		t.Fatalf("Execute() = %d, want 0; stderr: %s", code, h.stderr.String())
	}
	if len(h.dispatched) != 1 || h.dispatched[0] != "docker_compose_full" {
		t.Errorf("dispatched = %v, want [docker_compose_full]", h.dispatched)
	}
}

func TestExecute_UnknownTarget(t *testing.T) {
	h := &harness{}
	code := h.run("biuld")
	if code != types.ExitUsage {
		t.Fatalf("Execute() = %d, want %d", code, types.ExitUsage)
	}
	if len(h.dispatched) != 1 || h.dispatched[0] != "biuld" {
		t.Errorf("unknown names should reach the dispatcher, got %v", h.dispatched)
	}
	stderr := h.stderr.String()
	if !strings.Contains(stderr, "Did you mean this?") || !strings.Contains(stderr, "build") {
		t.Errorf("stderr should suggest build, got:\n%s", stderr)
	}
}

func TestExecute_FailureExitCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   types.ExitCode
		wantStderr bool
	}{
		{"quiet failure", &testFailure{code: 1, quiet: true}, 1, false},
		{"shell failure code", &testFailure{code: 7}, 7, true},
		{"plain error", errors.New("kaput"), 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &harness{results: map[string]error{"build": tt.err}}
			if code := h.run("build"); code != tt.wantCode {
				t.Errorf("Execute() = %d, want %d", code, tt.wantCode)
			}
			if got := h.stderr.Len() > 0; got != tt.wantStderr {
				t.Errorf("stderr written = %v, want %v (%q)", got, tt.wantStderr, h.stderr.String())
			}
		})
	}
}

func TestExecute_TooManyArgs(t *testing.T) {
	h := &harness{}
	if code := h.run("build", "test"); code != types.ExitUsage {
		t.Errorf("Execute() = %d, want %d", code, types.ExitUsage)
	}
	if len(h.dispatched) != 0 {
		t.Errorf("nothing should be dispatched, got %v", h.dispatched)
	}
}

func TestExecute_ShowConfig(t *testing.T) {
	h := &harness{}
	if code := h.run("--show-config"); code != 0 {
		t.Fatalf("Execute() = %d, want 0", code)
	}
	if !strings.Contains(h.stdout.String(), "mode = 'native'") {
		t.Errorf("stdout = %q, want the rendered config", h.stdout.String())
	}
}

func TestExecute_VerboseFlag(t *testing.T) {
	h := &harness{}
	if code := h.run("-v", "build"); code != 0 {
		t.Fatalf("Execute() = %d, want 0", code)
	}
	if !h.verbose {
		t.Error("--verbose should reach SetVerbose")
	}
}

func TestNewRootCommand_KeepsRegistrationOrder(t *testing.T) {
	h := &harness{}
	root := NewRootCommand(h.options())

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	want := []string{"build", "test", "docker_compose_full"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("subcommands = %v, want %v", names, want)
	}
}
