// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

var (
	// ErrCancelled is returned when the user cancels a prompt with esc or ctrl+c.
	ErrCancelled = errors.New("user cancelled")

	// ErrNotInteractive is returned when a prompt needs a terminal on stdin.
	ErrNotInteractive = errors.New("stdin is not a terminal")
)

// Config holds common configuration for TUI components.
type Config struct {
	// Input is where key presses are read from.
	Input io.Reader
	// Output is where the component renders. Prompts go to stderr by default
	// so they stay visible when stdout is piped.
	Output io.Writer
	// Interactive reports whether Input is a terminal.
	Interactive bool
}

// DefaultConfig returns a Config reading stdin and rendering to stderr.
func DefaultConfig() Config {
	return Config{
		Input:       os.Stdin,
		Output:      os.Stderr,
		Interactive: IsTerminal(os.Stdin),
	}
}

// IsTerminal reports whether f is attached to a terminal, including Cygwin
// and MSYS pseudo terminals on Windows.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
