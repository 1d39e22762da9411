// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidTargetName is the sentinel error wrapped by InvalidTargetNameError.
var ErrInvalidTargetName = errors.New("invalid target name")

type (
	// TargetName identifies a build target on the command line. Names are
	// case-sensitive and used verbatim as subcommand names, so they must be
	// non-empty, contain no whitespace and must not start with '-'.
	TargetName string

	// InvalidTargetNameError is returned when a TargetName cannot be used as
	// a subcommand name.
	InvalidTargetNameError struct {
		Value  TargetName
		Reason string
	}
)

// String returns the string representation of the TargetName.
func (n TargetName) String() string { return string(n) }

// IsValid returns whether the TargetName can be dispatched from a command line.
func (n TargetName) IsValid() (bool, []error) {
	switch {
	case n == "":
		return false, []error{&InvalidTargetNameError{Value: n, Reason: "must not be empty"}}
	case strings.HasPrefix(string(n), "-"):
		return false, []error{&InvalidTargetNameError{Value: n, Reason: "must not start with '-'"}}
	case strings.IndexFunc(string(n), unicode.IsSpace) >= 0:
		return false, []error{&InvalidTargetNameError{Value: n, Reason: "must not contain whitespace"}}
	}
	return true, nil
}

// Error implements the error interface for InvalidTargetNameError.
func (e *InvalidTargetNameError) Error() string {
	return fmt.Sprintf("invalid target name %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidTargetName for errors.Is() compatibility.
func (e *InvalidTargetNameError) Unwrap() error { return ErrInvalidTargetName }
