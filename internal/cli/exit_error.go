// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/bakehouse/bake/internal/issue"
	"github.com/bakehouse/bake/pkg/types"
)

type (
	// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
	// An ExitError with a nil Err exits silently.
	ExitError struct {
		Code types.ExitCode
		Err  error
		// Hints are alternative target names offered after the error.
		Hints []string
		// Issue selects the catalog page shown in verbose mode; zero means none.
		Issue issue.Id
	}

	// ExitCoder is implemented by errors that pick their own process exit code.
	ExitCoder interface {
		ExitStatus() types.ExitCode
	}

	// quietError is implemented by errors whose cause has already been made
	// visible (e.g. by the target's own output) and need no extra message.
	quietError interface {
		Quiet() bool
	}

	// issuer is implemented by errors that have an issue catalog page.
	issuer interface {
		IssueID() issue.Id
	}
)

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCodeOf returns the process exit code for err: 0 for nil, the code
// chosen by an ExitError or ExitCoder in the chain, ExitFailure otherwise.
func ExitCodeOf(err error) types.ExitCode {
	if err == nil {
		return types.ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code.AsFailure()
	}
	var coder ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitStatus().AsFailure()
	}
	return types.ExitFailure
}

// newExitError wraps a dispatch failure for the error handler.
func newExitError(err error) *ExitError {
	exitErr := &ExitError{Code: ExitCodeOf(err), Err: err}

	var quiet quietError
	if errors.As(err, &quiet) && quiet.Quiet() {
		exitErr.Err = nil
	}
	exitErr.Issue = IssueOf(err)
	return exitErr
}

// IssueOf returns the issue catalog page attached to err, or zero.
func IssueOf(err error) issue.Id {
	var iss issuer
	if errors.As(err, &iss) {
		return iss.IssueID()
	}
	return 0
}

// WriteIssuePage renders the catalog page id to w. Unknown ids and render
// failures write nothing.
func WriteIssuePage(w io.Writer, id issue.Id) {
	page := issue.Get(id)
	if page == nil {
		return
	}
	rendered, err := page.Render("notty")
	if err != nil {
		return
	}
	_, _ = fmt.Fprint(w, rendered)
}
