// SPDX-License-Identifier: MPL-2.0

// Package tui provides terminal UI components built on Bubble Tea.
//
// Confirm asks a yes/no question. It refuses to run when stdin is not a
// terminal so scripted runs fail fast instead of hanging.
package tui
