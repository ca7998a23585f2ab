// SPDX-License-Identifier: MPL-2.0

// Package testutil holds test helpers that fail the test instead of returning
// errors. The environment and working directory helpers return a restore
// func for t.Cleanup.
package testutil
