// SPDX-License-Identifier: MPL-2.0

package output

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/mattn/go-isatty"
)

const (
	// CopyMethodNone means nothing was copied.
	CopyMethodNone CopyMethod = iota
	// CopyMethodSystem means the system clipboard received the text.
	CopyMethodSystem
	// CopyMethodOSC52 means an OSC 52 escape sequence was written to the terminal.
	CopyMethodOSC52
)

// ErrClipboardUnavailable is returned when no clipboard mechanism can be used.
var ErrClipboardUnavailable = errors.New("clipboard is not available on this system")

type (
	// CopyMethod identifies how text reached a clipboard.
	CopyMethod int

	// Clipboard copies text to the system clipboard, falling back to an OSC 52
	// terminal sequence when the system clipboard cannot be reached.
	Clipboard struct {
		writeSystem func(string) error
		unsupported bool
		terminal    io.Writer
		isTerminal  bool
		osc52       bool
		getenv      func(string) string
	}

	// ClipboardOption configures a Clipboard during construction.
	ClipboardOption func(*Clipboard)
)

// String returns a human-readable name for the copy method.
func (m CopyMethod) String() string {
	switch m {
	case CopyMethodNone:
		return "none"
	case CopyMethodSystem:
		return "system"
	case CopyMethodOSC52:
		return "osc52"
	}
	return "none"
}

// WithSystemClipboard replaces the system clipboard writer, primarily for tests.
// A nil writer marks the system clipboard as unsupported.
func WithSystemClipboard(write func(string) error) ClipboardOption {
	return func(c *Clipboard) {
		c.writeSystem = write
		c.unsupported = write == nil
	}
}

// WithTerminal sets the writer used for OSC 52 output and whether it is an
// interactive terminal.
func WithTerminal(w io.Writer, isTerminal bool) ClipboardOption {
	return func(c *Clipboard) {
		c.terminal = w
		c.isTerminal = isTerminal
	}
}

// WithOSC52Fallback enables or disables the OSC 52 fallback.
func WithOSC52Fallback(enabled bool) ClipboardOption {
	return func(c *Clipboard) {
		c.osc52 = enabled
	}
}

// WithGetenv overrides environment lookups used to detect tmux and screen.
func WithGetenv(getenv func(string) string) ClipboardOption {
	return func(c *Clipboard) {
		c.getenv = getenv
	}
}

// NewClipboard creates a Clipboard backed by the system clipboard, with the
// OSC 52 fallback writing to stdout when stdout is a terminal.
func NewClipboard(opts ...ClipboardOption) *Clipboard {
	fd := os.Stdout.Fd()
	c := &Clipboard{
		writeSystem: clipboard.WriteAll,
		unsupported: clipboard.Unsupported,
		terminal:    os.Stdout,
		isTerminal:  isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
		osc52:       true,
		getenv:      os.Getenv,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Copy places text on a clipboard and reports which mechanism was used.
// The system clipboard is tried first; the OSC 52 fallback is only used when
// enabled and the terminal writer is interactive.
func (c *Clipboard) Copy(text string) (CopyMethod, error) {
	var systemErr error
	if !c.unsupported && c.writeSystem != nil {
		systemErr = c.writeSystem(text)
		if systemErr == nil {
			return CopyMethodSystem, nil
		}
		slog.Debug("system clipboard write failed", "error", systemErr)
	}

	if !c.osc52 || !c.isTerminal || c.terminal == nil {
		if systemErr != nil {
			return CopyMethodNone, fmt.Errorf("%w: %w", ErrClipboardUnavailable, systemErr)
		}
		return CopyMethodNone, ErrClipboardUnavailable
	}

	seq := osc52.New(text)
	switch {
	case c.getenv("TMUX") != "":
		seq = seq.Tmux()
	case strings.HasPrefix(c.getenv("TERM"), "screen"):
		seq = seq.Screen()
	}
	if _, err := seq.WriteTo(c.terminal); err != nil {
		return CopyMethodNone, fmt.Errorf("writing OSC 52 sequence: %w", err)
	}
	return CopyMethodOSC52, nil
}
