// SPDX-License-Identifier: MPL-2.0

// Package cli compiles a list of targets into a cobra command tree and runs
// it through fang. Each target becomes one subcommand; the root command lists
// the targets, dispatches unknown names to the caller so they can be reported,
// and maps failures to process exit codes.
package cli
