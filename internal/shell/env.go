// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
)

// BuildEnv assembles a child environment. The base environment (normally
// os.Environ()) is overlaid with each dotenv file in order and then with vars.
// Relative file paths resolve against dir. A trailing '?' marks a file as
// optional: it is skipped when missing.
func BuildEnv(base, files []string, vars map[string]string, dir string) ([]string, error) {
	overrides := make(map[string]string)

	for _, file := range files {
		loaded, err := LoadEnvFile(file, dir)
		if err != nil {
			return nil, err
		}
		for k, v := range loaded {
			overrides[k] = v
		}
	}
	for k, v := range vars {
		overrides[k] = v
	}

	env := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, replaced := overrides[key]; replaced {
			continue
		}
		env = append(env, kv)
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		env = append(env, k+"="+overrides[k])
	}

	return env, nil
}

// LoadEnvFile reads one dotenv file. The path is resolved relative to dir.
// Files suffixed with '?' are optional; missing optional files yield an
// empty map.
func LoadEnvFile(path, dir string) (map[string]string, error) {
	optional := strings.HasSuffix(path, "?")
	if optional {
		path = strings.TrimSuffix(path, "?")
	}

	// Resolve relative paths against dir
	fullPath := filepath.FromSlash(path)
	if !filepath.IsAbs(fullPath) && dir != "" {
		fullPath = filepath.Join(dir, fullPath)
	}

	if _, err := os.Stat(fullPath); err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil // Optional file missing is OK
		}
		return nil, fmt.Errorf("failed to read env file '%s': %w", path, err)
	}

	env, err := godotenv.Read(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse env file '%s': %w", path, err)
	}
	return env, nil
}
