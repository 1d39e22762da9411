// SPDX-License-Identifier: MPL-2.0

package bake

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bakehouse/bake/internal/config"
	"github.com/bakehouse/bake/internal/issue"
	"github.com/bakehouse/bake/internal/shell"
)

type providerFunc func(ctx context.Context, opts config.LoadOptions) (*config.Source, error)

func (f providerFunc) Load(ctx context.Context, opts config.LoadOptions) (*config.Source, error) {
	return f(ctx, opts)
}

func TestNew_UsesConfigProvider(t *testing.T) {
	workDir := t.TempDir()

	var got config.LoadOptions
	provider := providerFunc(func(_ context.Context, opts config.LoadOptions) (*config.Source, error) {
		got = opts
		cfg := config.DefaultConfig()
		cfg.Shell.Mode = config.ShellModeVirtual
		return &config.Source{Config: cfg, Path: filepath.Join(workDir, "bake.cue")}, nil
	})

	r := newTestRunner(t,
		WithWorkDir(workDir),
		WithConfigFile("custom.cue"),
		WithConfigProvider(provider),
	)

	if got.WorkDir != workDir || got.ConfigFilePath != "custom.cue" {
		t.Errorf("provider options = %+v, want the runner's work dir and config file", got)
	}
	if name := r.executor.Name(); name != "virtual" {
		t.Errorf("executor = %q, want the provider's virtual mode", name)
	}
}

func TestNew_ProviderFailureFallsBackToDefaults(t *testing.T) {
	provider := providerFunc(func(context.Context, config.LoadOptions) (*config.Source, error) {
		return nil, issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource("bake.cue").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(errors.New("unexpected token")).
			BuildError()
	})

	r := newTestRunner(t, WithConfigProvider(provider), WithVerbose(true))

	if r.cfg.Shell.Mode != config.ShellModeNative {
		t.Errorf("Shell.Mode = %q, want the default", r.cfg.Shell.Mode)
	}
	stderr := r.stderr.String()
	if !strings.Contains(stderr, "using default configuration") {
		t.Errorf("stderr = %q, want a warning", stderr)
	}
	if !strings.Contains(stderr, "Configuration file locations") {
		t.Errorf("stderr = %q, want the configuration help page in verbose mode", stderr)
	}
}

func TestNew_WarningOmitsIssuePageByDefault(t *testing.T) {
	provider := providerFunc(func(context.Context, config.LoadOptions) (*config.Source, error) {
		return nil, issue.NewErrorContext().
			WithOperation("load configuration").
			WithIssue(issue.ConfigLoadFailedId).
			BuildError()
	})

	r := newTestRunner(t, WithConfigProvider(provider))

	stderr := r.stderr.String()
	if !strings.Contains(stderr, "using default configuration") {
		t.Errorf("stderr = %q, want a warning", stderr)
	}
	if strings.Contains(stderr, "Configuration file locations") {
		t.Errorf("stderr = %q, help pages are verbose-only", stderr)
	}
}

func TestNew_NilProviderConfigUsesDefaults(t *testing.T) {
	provider := providerFunc(func(context.Context, config.LoadOptions) (*config.Source, error) {
		return &config.Source{}, nil
	})

	r := newTestRunner(t, WithConfigProvider(provider))
	if r.cfg == nil || r.cfg.Shell.Mode != config.ShellModeNative {
		t.Errorf("cfg = %+v, want the defaults", r.cfg)
	}
}

func TestNew_MissingConfiguredShellFallsBack(t *testing.T) {
	skipOnWindows(t)

	cfg := config.DefaultConfig()
	cfg.Shell.Path = filepath.Join(t.TempDir(), "nosh")
	r := newTestRunner(t, WithConfig(cfg))

	if !strings.Contains(r.stderr.String(), "falling back to the default shell") {
		t.Errorf("stderr = %q, want a fallback warning", r.stderr.String())
	}
	n, ok := r.executor.(*shell.Native)
	if !ok || n.Shell != "" {
		t.Fatalf("executor = %#v, want the default native shell", r.executor)
	}
	if got := r.Strict("echo ok"); got != "ok" {
		t.Errorf("Strict() = %q, want %q", got, "ok")
	}
}
