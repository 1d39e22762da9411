// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// dumpView mirrors Config with TOML-friendly field types.
type dumpView struct {
	Shell struct {
		Mode    string   `toml:"mode"`
		Path    string   `toml:"path,omitempty"`
		Args    []string `toml:"args,omitempty"`
		PTY     bool     `toml:"pty"`
		Timeout string   `toml:"timeout"`
	} `toml:"shell"`
	Env struct {
		Files []string          `toml:"files"`
		Vars  map[string]string `toml:"vars"`
	} `toml:"env"`
	UI struct {
		Verbose bool `toml:"verbose"`
	} `toml:"ui"`
}

// Dump renders cfg as TOML for --show-config.
func Dump(cfg *Config) (string, error) {
	var view dumpView
	view.Shell.Mode = cfg.Shell.Mode.String()
	view.Shell.Path = cfg.Shell.Path
	view.Shell.Args = cfg.Shell.Args
	view.Shell.PTY = cfg.Shell.PTY
	view.Shell.Timeout = cfg.Shell.Timeout.String()
	view.Env.Files = cfg.Env.Files
	if view.Env.Files == nil {
		view.Env.Files = []string{}
	}
	view.Env.Vars = cfg.Env.Vars
	if view.Env.Vars == nil {
		view.Env.Vars = map[string]string{}
	}
	view.UI.Verbose = cfg.UI.Verbose

	out, err := toml.Marshal(view)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	return string(out), nil
}
