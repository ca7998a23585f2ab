// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
//
// It centralizes GOOS name constants and the platform line separator used
// when joining multiple passwords for display, export and the clipboard.
package platform
