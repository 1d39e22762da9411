// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bakehouse/bake/internal/issue"
	"github.com/bakehouse/bake/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

type (
	// Options describes the command line to build.
	Options struct {
		// Use is the program name shown in help and errors.
		Use string
		// Short is the one-line program description.
		Short string
		// Version is reported by --version; empty means "dev".
		Version string
		// Targets are compiled into subcommands in the given order.
		Targets []Entry
		// Dispatch runs the named target. It is also called for names that
		// are not in Targets so the caller can report them.
		Dispatch func(ctx context.Context, name string) error
		// OnListing is called before the target listing is printed.
		OnListing func()
		// ShowConfig renders the effective configuration for --show-config.
		ShowConfig func() (string, error)
		// SetVerbose is called once flags are parsed when verbose output is on.
		SetVerbose func(bool)
		// Verbose is the configured default for --verbose.
		Verbose bool
		// Stdout and Stderr default to the process streams.
		Stdout io.Writer
		Stderr io.Writer
	}

	// rootState carries parsed flag values between handlers.
	rootState struct {
		opts       Options
		verbose    bool
		list       bool
		showConfig bool
	}
)

func init() {
	// Listing and help follow registration order.
	cobra.EnableCommandSorting = false
}

// NewRootCommand builds the command tree for opts: one subcommand per target
// plus a root command that lists targets.
func NewRootCommand(opts Options) *cobra.Command {
	root, _ := newRoot(opts)
	return root
}

func newRoot(opts Options) (*cobra.Command, *rootState) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	state := &rootState{opts: opts}

	root := &cobra.Command{
		Use:   opts.Use + " [target]",
		Short: opts.Short,
		Long: TitleStyle.Render(opts.Use) + SubtitleStyle.Render(" - project build targets") + `

Run a target by name, or run without arguments to list every target.`,
		Args: cobra.ArbitraryArgs,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if state.opts.SetVerbose != nil && state.verbose {
				state.opts.SetVerbose(true)
			}
		},
		RunE: state.runRoot,
	}
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)
	root.CompletionOptions.DisableDefaultCmd = true

	root.PersistentFlags().BoolVarP(&state.verbose, "verbose", "v", opts.Verbose, "enable verbose output")
	root.Flags().BoolVarP(&state.list, "list", "l", false, "list targets and exit")
	root.Flags().BoolVar(&state.showConfig, "show-config", false, "print the effective configuration as TOML and exit")

	for _, e := range opts.Targets {
		name := e.Name
		root.AddCommand(&cobra.Command{
			Use:   name,
			Short: e.Description,
			Args:  noTargetArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return state.dispatch(cmd, name)
			},
		})
	}

	return root, state
}

// noTargetArgs rejects extra positional arguments with the usage exit code.
func noTargetArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	return &ExitError{
		Code: types.ExitUsage,
		Err:  fmt.Errorf("target %q takes no arguments, got: %s", cmd.Name(), strings.Join(args, " ")),
	}
}

func (s *rootState) runRoot(cmd *cobra.Command, args []string) error {
	switch {
	case s.showConfig:
		if s.opts.ShowConfig == nil {
			return errors.New("no configuration to show")
		}
		out, err := s.opts.ShowConfig()
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	case s.list || len(args) == 0:
		if s.opts.OnListing != nil {
			s.opts.OnListing()
		}
		return RenderListing(cmd.OutOrStdout(), s.opts.Targets)
	case len(args) > 1:
		return &ExitError{
			Code: types.ExitUsage,
			Err:  fmt.Errorf("expected one target, got %d: %s", len(args), strings.Join(args, " ")),
		}
	default:
		return s.dispatch(cmd, args[0])
	}
}

func (s *rootState) dispatch(cmd *cobra.Command, name string) error {
	if s.opts.Dispatch == nil {
		return errors.New("no dispatcher configured")
	}
	err := s.opts.Dispatch(cmd.Context(), name)
	if err == nil {
		return nil
	}
	exitErr := newExitError(err)
	if exitErr.Code == types.ExitUsage {
		exitErr.Hints = cmd.Root().SuggestionsFor(name)
	}
	return exitErr
}

// Execute runs opts through fang with args and returns the process exit code.
func Execute(ctx context.Context, opts Options, args []string) types.ExitCode {
	root, state := newRoot(opts)
	root.SetArgs(args)

	version := opts.Version
	if version == "" {
		version = "dev"
	}

	err := fang.Execute(
		ctx,
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
		fang.WithErrorHandler(state.handleError),
	)
	return ExitCodeOf(err)
}

// handleError prints err to w. Quiet exit errors print only their issue page,
// and only when verbose; dispatch failures are printed with their hints;
// everything else goes through fang's handler.
func (s *rootState) handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		if s.verbose {
			WriteIssuePage(w, exitErr.Issue)
		}
		return
	}

	if exitErr == nil {
		// Flag and usage errors raised by cobra itself.
		fang.DefaultErrorHandler(w, styles, err)
		return
	}

	_, _ = fmt.Fprintln(w, ErrorStyle.Render("Error: ")+issue.FormatForDisplay(exitErr.Err, s.verbose))
	if len(exitErr.Hints) > 0 {
		_, _ = fmt.Fprintln(w, "Did you mean this?")
		for _, hint := range exitErr.Hints {
			_, _ = fmt.Fprintln(w, "\t"+CmdStyle.Render(hint))
		}
	}
	if s.verbose {
		WriteIssuePage(w, exitErr.Issue)
	}
}
