// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError wraps a failure with the operation that was attempted, the
// resource involved and suggestions for fixing it. The issue catalog holds
// Markdown help pages for the failures a build script user is most likely to
// hit (unknown targets, failing shell commands, broken configuration), which
// the CLI renders with glamour in verbose mode.
package issue
