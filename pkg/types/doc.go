// SPDX-License-Identifier: MPL-2.0

// Package types defines the value types shared by the bake runner and its
// internal packages: target names, descriptions and process exit codes.
//
// Each type carries its own validation (IsValid or Validate) and a typed
// error that wraps a package-level sentinel, so callers can match failures
// with errors.Is and inspect them with errors.As.
//
// This package is a leaf dependency: it imports only the standard library.
package types
