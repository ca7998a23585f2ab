// SPDX-License-Identifier: MPL-2.0

// Package output delivers generated passwords to their sinks.
//
// The joined password text is forwarded unmodified: Join builds it with the
// platform line separator, Export writes it to a new file and Clipboard
// places it on the system clipboard (or the terminal's, through OSC 52).
package output
