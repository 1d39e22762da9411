// SPDX-License-Identifier: MPL-2.0

package bake

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/bakehouse/bake/internal/cli"
	"github.com/bakehouse/bake/internal/config"
	"github.com/bakehouse/bake/internal/issue"
	"github.com/bakehouse/bake/internal/shell"

	"github.com/charmbracelet/log"
)

// State is the dispatcher lifecycle position of a Runner.
type State int

const (
	// StateUninvoked is the state before Compile or Run is called.
	StateUninvoked State = iota
	// StateParsing means the command line is being parsed.
	StateParsing
	// StateListing means the target listing is being printed.
	StateListing
	// StateDispatching means a target is running.
	StateDispatching
	// StateTerminated means the command line has been handled.
	StateTerminated
)

type (
	// Runner owns a build script's registry, shell executor and command line.
	// A script creates exactly one Runner, registers its targets and finally
	// calls Compile.
	Runner struct {
		name    string
		version string

		stdout io.Writer
		stderr io.Writer
		stdin  io.Reader

		workDir    string
		configPath string
		provider   config.Provider
		cfg        *config.Config
		executor   shell.Executor
		env        []string

		logger  *log.Logger
		exit    func(int)
		verbose bool

		registry *Registry

		mu          sync.Mutex
		state       State
		ctx         context.Context
		dispatching bool
	}

	// Option configures a Runner.
	Option func(*Runner)
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninvoked:
		return "uninvoked"
	case StateParsing:
		return "parsing"
	case StateListing:
		return "listing"
	case StateDispatching:
		return "dispatching"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// WithName sets the program name shown in help; it defaults to the binary name.
func WithName(name string) Option {
	return func(r *Runner) { r.name = name }
}

// WithVersion sets the string reported by --version.
func WithVersion(version string) Option {
	return func(r *Runner) { r.version = version }
}

// WithStdout redirects command output and listings.
func WithStdout(w io.Writer) Option {
	return func(r *Runner) { r.stdout = w }
}

// WithStderr redirects errors, logs and command error output.
func WithStderr(w io.Writer) Option {
	return func(r *Runner) { r.stderr = w }
}

// WithStdin sets the standard input handed to streaming commands.
func WithStdin(in io.Reader) Option {
	return func(r *Runner) { r.stdin = in }
}

// WithWorkDir sets the default working directory for commands and the
// directory where bake.cue is looked up.
func WithWorkDir(dir string) Option {
	return func(r *Runner) { r.workDir = dir }
}

// WithConfigFile loads configuration from path instead of the default lookup.
func WithConfigFile(path string) Option {
	return func(r *Runner) { r.configPath = path }
}

// WithConfig uses cfg as-is and skips loading configuration files.
func WithConfig(cfg *config.Config) Option {
	return WithConfigProvider(config.Static(cfg))
}

// WithConfigProvider loads configuration from p instead of bake.cue discovery.
func WithConfigProvider(p config.Provider) Option {
	return func(r *Runner) { r.provider = p }
}

// WithVerbose turns on debug logging and issue help pages from the start,
// before --verbose is parsed.
func WithVerbose(verbose bool) Option {
	return func(r *Runner) { r.verbose = verbose }
}

// WithExecutor replaces the shell executor chosen by configuration.
func WithExecutor(e shell.Executor) Option {
	return func(r *Runner) { r.executor = e }
}

// WithLogger replaces the default logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithExit replaces os.Exit. If the hook returns, Compile returns and a
// failing load-time Strict call returns an empty string.
func WithExit(exit func(int)) Option {
	return func(r *Runner) { r.exit = exit }
}

// New creates a Runner. Configuration problems are logged as warnings and
// the defaults are used instead.
func New(opts ...Option) *Runner {
	r := &Runner{
		name:     filepath.Base(os.Args[0]),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		stdin:    os.Stdin,
		exit:     os.Exit,
		registry: NewRegistry(),
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = log.NewWithOptions(r.stderr, log.Options{Prefix: "bake"})
	}

	if r.verbose {
		r.setVerbose(true)
	}

	if r.provider == nil {
		r.provider = config.NewProvider()
	}
	src, err := r.provider.Load(context.Background(), config.LoadOptions{
		ConfigFilePath: r.configPath,
		WorkDir:        r.workDir,
	})
	if err != nil {
		r.warn("using default configuration", err)
		r.cfg = config.DefaultConfig()
	} else {
		if src.Path != "" {
			r.logger.Debug("loaded configuration", "path", src.Path)
		}
		r.cfg = src.Config
	}
	if r.cfg == nil {
		r.cfg = config.DefaultConfig()
	}
	if r.cfg.UI.Verbose {
		r.setVerbose(true)
	}

	if r.executor == nil {
		executor, err := shell.New(r.cfg.Shell)
		if err != nil {
			r.warn("falling back to the default shell", err)
			executor = shell.NewNative()
		}
		r.executor = executor
	}

	env, err := shell.BuildEnv(os.Environ(), r.cfg.Env.Files, r.cfg.Env.Vars, r.workDir)
	if err != nil {
		r.warn("ignoring configured environment", err)
		env = os.Environ()
	}
	r.env = env

	return r
}

// Registry returns the runner's target registry.
func (r *Runner) Registry() *Registry {
	return r.registry
}

// State returns the dispatcher lifecycle state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Runner) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

func (r *Runner) setVerbose(v bool) {
	r.verbose = v
	if v {
		r.logger.SetLevel(log.DebugLevel)
	}
}

// warn logs a recoverable problem. In verbose mode the issue page attached
// to err follows the log line.
func (r *Runner) warn(msg string, err error) {
	r.logger.Warn(msg, "err", issue.FormatForDisplay(err, false))
	if r.verbose {
		cli.WriteIssuePage(r.stderr, cli.IssueOf(err))
	}
}

// reportFatal prints err to stderr the way the command line does.
func (r *Runner) reportFatal(err error) {
	_, _ = fmt.Fprintln(r.stderr, cli.ErrorStyle.Render("Error: ")+issue.FormatForDisplay(err, r.verbose))
	if r.verbose {
		cli.WriteIssuePage(r.stderr, cli.IssueOf(err))
	}
}
