// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bakehouse/bake/internal/issue"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "bake"
	// ConfigFileName is the name of the user config file (without extension).
	ConfigFileName = "config"
	// ProjectFileName is the per-project config file looked up in the working directory.
	ProjectFileName = "bake.cue"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "BAKE"
	// ConfigPathEnv names an explicit config file.
	ConfigPathEnv = "BAKE_CONFIG"

	// maxConfigFileSize bounds how much of a config file is read.
	maxConfigFileSize = 1 << 20
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the bake configuration directory inside the user's
// platform configuration directory.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// Load reads the configuration described by opts. It returns the parsed
// configuration and the path of the file that was used ("" when only
// defaults and environment overrides apply).
func Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("shell.mode", defaults.Shell.Mode)
	v.SetDefault("shell.path", defaults.Shell.Path)
	v.SetDefault("shell.args", defaults.Shell.Args)
	v.SetDefault("shell.pty", defaults.Shell.PTY)
	v.SetDefault("shell.timeout", defaults.Shell.Timeout)
	v.SetDefault("env.files", defaults.Env.Files)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := resolvePath(opts)
	if err != nil {
		return nil, "", err
	}

	// Viper folds map keys to lower case, which would mangle environment
	// variable names, so env.vars is taken from the decoded file instead.
	vars := map[string]string{}
	if path != "" {
		raw, err := loadCUEIntoViper(v, path)
		if err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the values match the bake configuration schema").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
		vars = envVars(raw)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Env.Vars = vars

	if ok, errs := cfg.Shell.Mode.IsValid(); !ok {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Set shell.mode (or BAKE_SHELL_MODE) to \"native\" or \"virtual\"").
			WithIssue(issue.InvalidShellModeId).
			Wrap(errors.Join(errs...)).
			BuildError()
	}
	if cfg.Shell.Timeout < 0 {
		return nil, "", fmt.Errorf("shell.timeout must not be negative (got %s)", cfg.Shell.Timeout)
	}

	return &cfg, path, nil
}

// resolvePath picks the config file to load. An explicitly requested file
// must exist; discovered files are optional.
func resolvePath(opts LoadOptions) (string, error) {
	explicit := opts.ConfigFilePath
	if explicit == "" {
		explicit = os.Getenv(ConfigPathEnv)
	}
	if explicit != "" {
		if !fileExists(explicit) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(explicit).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Unset " + ConfigPathEnv + " to fall back to ./" + ProjectFileName).
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", explicit)).
				BuildError()
		}
		return explicit, nil
	}

	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		workDir = wd
	}
	if local := filepath.Join(workDir, ProjectFileName); fileExists(local) {
		return local, nil
	}

	cfgDir := opts.ConfigDirPath
	if cfgDir == "" {
		dir, err := ConfigDir()
		if err != nil {
			// No user config dir (e.g. $HOME unset in CI) just means no user config.
			return "", nil //nolint:nilerr // absence of a user config dir is not an error
		}
		cfgDir = dir
	}
	if user := filepath.Join(cfgDir, ConfigFileName+".cue"); fileExists(user) {
		return user, nil
	}

	return "", nil
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper. The decoded map is returned for keys
// that must bypass Viper's case folding.
func loadCUEIntoViper(v *viper.Viper, path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxConfigFileSize {
		return nil, fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", path, len(data), maxConfigFileSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return nil, fmt.Errorf("%s: %w", path, userValue.Err())
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return nil, fmt.Errorf("failed to merge config: %w", err)
	}

	return configMap, nil
}

func envVars(raw map[string]any) map[string]string {
	out := map[string]string{}
	env, ok := raw["env"].(map[string]any)
	if !ok {
		return out
	}
	vars, ok := env["vars"].(map[string]any)
	if !ok {
		return out
	}
	for k, val := range vars {
		if s, ok := val.(string); ok {
			out[k] = s
		}
	}
	return out
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
