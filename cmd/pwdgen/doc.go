// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the pwdgen command line interface.
//
// The root command generates passwords; the upgrade and config subcommands
// manage the installed binary and its configuration file. Command handlers
// parse flags and delegate to run* functions that take explicit writers and
// services so they can be tested without a process or a network.
package cmd
