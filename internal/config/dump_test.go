// SPDX-License-Identifier: MPL-2.0

package config

import (
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
)

func TestDump(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Shell.Mode = ShellModeVirtual
	cfg.Shell.Timeout = 5 * time.Minute
	cfg.Env.Vars = map[string]string{"CGO_ENABLED": "0"}

	out, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error: %v", err)
	}

	var decoded map[string]any
	if err := toml.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("Dump() produced invalid TOML: %v\n%s", err, out)
	}

	shell, ok := decoded["shell"].(map[string]any)
	if !ok {
		t.Fatalf("missing [shell] table in:\n%s", out)
	}
	if shell["mode"] != "virtual" {
		t.Errorf("shell.mode = %v, want virtual", shell["mode"])
	}
	if shell["timeout"] != "5m0s" {
		t.Errorf("shell.timeout = %v, want 5m0s", shell["timeout"])
	}
	if !strings.Contains(out, "CGO_ENABLED") {
		t.Errorf("Dump() should keep env var names verbatim:\n%s", out)
	}
}
