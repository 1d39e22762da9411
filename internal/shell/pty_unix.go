// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package shell

import (
	"os"
	"os/exec"

	"github.com/creack/pty"
)

const ptySupported = true

// startPTY starts the command with a PTY attached.
func startPTY(cmd *exec.Cmd) (*os.File, error) {
	return pty.Start(cmd)
}
