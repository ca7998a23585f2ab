// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/pwdgen/config.cue (or the XDG equivalent on Linux,
// ~/Library/Application Support/pwdgen/config.cue on macOS, %APPDATA%\pwdgen\config.cue
// on Windows), falling back to ./config.cue. Every key can be overridden through
// PWDGEN_-prefixed environment variables (PWDGEN_GENERATE_LENGTH=20).
//
// Files are validated against an embedded CUE schema (config_schema.cue) before being
// merged into Viper, so invalid values are reported with their path in the file.
package config
