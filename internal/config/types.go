// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	// ShellModeNative runs commands through the host shell.
	ShellModeNative ShellMode = "native"
	// ShellModeVirtual runs commands through the embedded mvdan/sh interpreter.
	ShellModeVirtual ShellMode = "virtual"
)

// ErrInvalidShellMode is the sentinel error wrapped by InvalidShellModeError.
var ErrInvalidShellMode = errors.New("invalid shell mode")

type (
	// ShellMode selects the command interpreter used by Strict and Pass.
	ShellMode string

	// InvalidShellModeError is returned when a ShellMode value is not recognized.
	InvalidShellModeError struct {
		Value ShellMode
	}

	// Config is the runner configuration.
	Config struct {
		// Shell configures how command strings are executed.
		Shell ShellConfig `json:"shell" mapstructure:"shell"`
		// Env configures the environment handed to every command.
		Env EnvConfig `json:"env" mapstructure:"env"`
		// UI configures terminal output.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// ShellConfig configures command execution.
	ShellConfig struct {
		// Mode is "native" (default) or "virtual".
		Mode ShellMode `json:"mode" mapstructure:"mode"`
		// Path overrides the native shell binary.
		Path string `json:"path" mapstructure:"path"`
		// Args overrides the arguments placed before the command string
		// (default "-c" for POSIX shells).
		Args []string `json:"args" mapstructure:"args"`
		// PTY runs pass-through commands under a pseudo-terminal.
		PTY bool `json:"pty" mapstructure:"pty"`
		// Timeout kills a command that runs longer than this; zero disables it.
		Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
	}

	// EnvConfig configures command environments.
	EnvConfig struct {
		// Files are dotenv files loaded in order; a trailing '?' marks a file optional.
		Files []string `json:"files" mapstructure:"files"`
		// Vars are set last and override everything else.
		Vars map[string]string `json:"vars" mapstructure:"vars"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		// Verbose enables debug logging and full error chains.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Shell: ShellConfig{
			Mode: ShellModeNative,
		},
		Env: EnvConfig{
			Files: []string{},
			Vars:  map[string]string{},
		},
	}
}

// String returns the string representation of the ShellMode.
func (m ShellMode) String() string { return string(m) }

// IsValid returns whether the ShellMode is one of the defined modes.
func (m ShellMode) IsValid() (bool, []error) {
	switch m {
	case ShellModeNative, ShellModeVirtual:
		return true, nil
	default:
		return false, []error{&InvalidShellModeError{Value: m}}
	}
}

// Error implements the error interface.
func (e *InvalidShellModeError) Error() string {
	return fmt.Sprintf("invalid shell mode %q (valid: native, virtual)", e.Value)
}

// Unwrap returns ErrInvalidShellMode for errors.Is() compatibility.
func (e *InvalidShellModeError) Unwrap() error { return ErrInvalidShellMode }
