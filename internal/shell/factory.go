// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"github.com/bakehouse/bake/internal/config"
	"github.com/bakehouse/bake/internal/issue"
)

// New returns the executor selected by cfg.Mode. A native executor is
// returned only when its shell can be found.
func New(cfg config.ShellConfig) (Executor, error) {
	switch cfg.Mode {
	case config.ShellModeVirtual:
		return NewVirtual(), nil
	case config.ShellModeNative, "":
		n := &Native{
			Shell:     cfg.Path,
			ShellArgs: cfg.Args,
			PTY:       cfg.PTY,
		}
		if !n.Available() {
			return nil, issue.NewErrorContext().
				WithOperation("find shell").
				WithResource(cfg.Path).
				WithSuggestion("Point shell.path at an installed shell, or remove it to use sh").
				WithIssue(issue.ShellNotFoundId).
				Wrap(ErrNoShell).
				BuildError()
		}
		return n, nil
	default:
		_, errs := cfg.Mode.IsValid()
		return nil, issue.NewErrorContext().
			WithOperation("select shell").
			WithResource(cfg.Mode.String()).
			WithSuggestion("Set shell.mode to \"native\" or \"virtual\"").
			WithIssue(issue.InvalidShellModeId).
			Wrap(errs[0]).
			BuildError()
	}
}
