// SPDX-License-Identifier: MPL-2.0

package cmd

import "strconv"

// ExitError carries the process exit code out of a RunE handler that has
// already printed its own error. Code 1 means the user can fix the problem,
// 2 that something unexpected failed.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return "exit status " + strconv.Itoa(e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }
