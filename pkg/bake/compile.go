// SPDX-License-Identifier: MPL-2.0

package bake

import (
	"context"
	"os"

	"github.com/bakehouse/bake/internal/cli"
	"github.com/bakehouse/bake/internal/config"
	"github.com/bakehouse/bake/pkg/types"
)

// Compile turns the registered targets into a command line, runs it against
// os.Args and exits the process. It must be the last statement of a script.
func (r *Runner) Compile() {
	r.exit(r.Run(context.Background(), os.Args[1:]))
}

// Run parses args, lists or dispatches, and returns the process exit code.
// A Runner can be run only once.
func (r *Runner) Run(ctx context.Context, args []string) int {
	r.mu.Lock()
	if r.state != StateUninvoked {
		r.mu.Unlock()
		r.reportFatal(ErrAlreadyCompiled)
		return int(types.ExitFailure)
	}
	r.state = StateParsing
	r.mu.Unlock()
	defer r.setState(StateTerminated)

	entries := make([]cli.Entry, 0, r.registry.Len())
	for t := range r.registry.All() {
		entries = append(entries, cli.Entry{Name: t.Name.String(), Description: t.Description.String()})
	}

	code := cli.Execute(ctx, cli.Options{
		Use:       r.name,
		Short:     "Build targets for this project",
		Version:   r.version,
		Targets:   entries,
		Dispatch:  r.Dispatch,
		OnListing: func() { r.setState(StateListing) },
		ShowConfig: func() (string, error) {
			return config.Dump(r.cfg)
		},
		SetVerbose: r.setVerbose,
		Verbose:    r.verbose,
		Stdout:     r.stdout,
		Stderr:     r.stderr,
	}, args)

	return int(code)
}

// Dispatch runs the named target. It returns *UnknownTargetError for names
// that are not registered, *ShellFailure when a strict command aborted the
// target and *TargetFailedError when the action returned false.
func (r *Runner) Dispatch(ctx context.Context, name string) error {
	target, err := r.registry.Lookup(types.TargetName(name))
	if err != nil {
		return err
	}

	r.logger.Debug("running target", "target", name)
	if err := r.invoke(ctx, target); err != nil {
		r.logger.Debug("target failed", "target", name, "err", err)
		return err
	}
	r.logger.Debug("target succeeded", "target", name)
	return nil
}

func (r *Runner) invoke(ctx context.Context, target *Target) (err error) {
	r.mu.Lock()
	prevCtx, prevState := r.ctx, r.state
	r.ctx, r.state, r.dispatching = ctx, StateDispatching, true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.ctx, r.state, r.dispatching = prevCtx, prevState, false
		r.mu.Unlock()

		if p := recover(); p != nil {
			sig, ok := p.(abortSignal)
			if !ok {
				panic(p)
			}
			err = sig.failure
		}
	}()

	if !target.Action() {
		return &TargetFailedError{Name: target.Name}
	}
	return nil
}

func (r *Runner) context() context.Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ctx
}
