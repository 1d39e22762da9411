// SPDX-License-Identifier: MPL-2.0

//go:build windows

package shell

import (
	"errors"
	"os"
	"os/exec"
)

const ptySupported = false

// startPTY is never reached on Windows; Native falls back to plain pipes.
func startPTY(*exec.Cmd) (*os.File, error) {
	return nil, errors.New("pty is not supported on windows")
}
