// SPDX-License-Identifier: MPL-2.0

// Package shell runs command strings through a shell.
//
// Two executors are provided: Native hands the script to the host shell with
// "-c" (or the Windows equivalents), and Virtual interprets it in-process with
// mvdan.cc/sh. Both either stream output to caller-supplied writers or capture
// it for the caller, and both report the child's exit status as a
// types.ExitCode.
package shell
