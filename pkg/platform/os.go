// SPDX-License-Identifier: MPL-2.0

package platform

import "runtime"

// OS name constants for runtime.GOOS comparisons.
// Centralizes the string literals to avoid scattered magic strings.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// LineSeparator returns the line separator for the running platform.
func LineSeparator() string {
	return LineSeparatorFor(runtime.GOOS)
}

// LineSeparatorFor returns "\r\n" for Windows and "\n" for every other GOOS.
func LineSeparatorFor(goos string) string {
	if goos == Windows {
		return "\r\n"
	}
	return "\n"
}
