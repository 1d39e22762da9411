// SPDX-License-Identifier: MPL-2.0

package config

import "context"

type (
	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific config file when set.
		ConfigFilePath string
		// ConfigDirPath overrides the user config directory lookup when set.
		ConfigDirPath string
		// WorkDir is where ./bake.cue is looked up; defaults to the process working directory.
		WorkDir string
	}

	// Source is a loaded configuration and the file it came from.
	Source struct {
		Config *Config
		// Path is empty when no file was read.
		Path string
	}

	// Provider supplies the configuration a runner starts with.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Source, error)
	}

	fileProvider struct{}

	staticProvider struct {
		cfg *Config
	}
)

// NewProvider returns the default Provider: bake.cue discovery, user config
// and BAKE_ environment overrides, as implemented by Load.
func NewProvider() Provider {
	return fileProvider{}
}

// Static returns a Provider that always yields cfg and never reads files.
// A nil cfg yields the defaults.
func Static(cfg *Config) Provider {
	return staticProvider{cfg: cfg}
}

func (fileProvider) Load(ctx context.Context, opts LoadOptions) (*Source, error) {
	cfg, path, err := Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Source{Config: cfg, Path: path}, nil
}

func (p staticProvider) Load(context.Context, LoadOptions) (*Source, error) {
	if p.cfg == nil {
		return &Source{Config: DefaultConfig()}, nil
	}
	return &Source{Config: p.cfg}, nil
}
