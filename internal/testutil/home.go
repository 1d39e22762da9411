// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// SetHomeDir sets the appropriate HOME environment variable based on platform
// and returns a cleanup function to restore the original value.
//
// Platform handling:
//   - Windows: Sets USERPROFILE
//   - Linux/macOS: Sets HOME
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		return MustSetenv(t, "USERPROFILE", dir)
	default:
		return MustSetenv(t, "HOME", dir)
	}
}

// IsolateUserConfig points the user home and config directories at dir and
// clears BAKE_CONFIG, so config discovery never sees the developer's own
// files. Every change is undone when the test finishes.
func IsolateUserConfig(t testing.TB, dir string) {
	t.Helper()

	t.Cleanup(SetHomeDir(t, dir))
	t.Cleanup(MustSetenv(t, "XDG_CONFIG_HOME", dir))
	t.Cleanup(MustSetenv(t, "AppData", dir))
	t.Cleanup(MustUnsetenv(t, "BAKE_CONFIG"))
}
