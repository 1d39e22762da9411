// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/bakehouse/bake/internal/config"
	"github.com/bakehouse/bake/internal/issue"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      config.ShellConfig
		wantName string
		wantErr  bool
	}{
		{"default", config.ShellConfig{}, "native", false},
		{"native", config.ShellConfig{Mode: config.ShellModeNative}, "native", false},
		{"virtual", config.ShellConfig{Mode: config.ShellModeVirtual}, "virtual", false},
		{"unknown", config.ShellConfig{Mode: "container"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			exec, err := New(tt.cfg)
			if tt.wantErr {
				if !errors.Is(err, config.ErrInvalidShellMode) {
					t.Errorf("New() error = %v, want ErrInvalidShellMode", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}
			if exec.Name() != tt.wantName {
				t.Errorf("New().Name() = %q, want %q", exec.Name(), tt.wantName)
			}
		})
	}
}

func TestNew_NativeCarriesShellConfig(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	exec, err := New(config.ShellConfig{Mode: config.ShellModeNative, Path: "sh", Args: []string{"-c"}, PTY: true})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	n, ok := exec.(*Native)
	if !ok {
		t.Fatalf("New() = %T, want *Native", exec)
	}
	if n.Shell != "sh" || !n.PTY || len(n.ShellArgs) != 1 {
		t.Errorf("Native = %+v, want config values applied", n)
	}
}

func TestNew_MissingShell(t *testing.T) {
	t.Parallel()

	_, err := New(config.ShellConfig{Mode: config.ShellModeNative, Path: filepath.Join(t.TempDir(), "nosh")})
	if !errors.Is(err, ErrNoShell) {
		t.Fatalf("New() error = %v, want ErrNoShell", err)
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.IssueID() != issue.ShellNotFoundId {
		t.Errorf("New() error = %v, want the shell-not-found page attached", err)
	}
}
