// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. Errors may link a catalogued Issue whose Markdown guide is
// rendered with glamour when the CLI runs with --verbose.
package issue
