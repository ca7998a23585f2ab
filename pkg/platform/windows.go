// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"path/filepath"
	"strings"
)

// windowsDeviceNames are the device names Windows reserves in every
// directory, with or without an extension.
var windowsDeviceNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {},
	"COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {},
	"LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// IsWindowsReservedName reports whether the last element of path names a
// Windows device (CON, NUL, COM1, ...). Opening such a path on Windows
// reaches the device instead of creating a file. The check ignores case,
// the extension and the trailing dots and spaces Windows strips.
func IsWindowsReservedName(path string) bool {
	base := filepath.Base(strings.ReplaceAll(path, `\`, "/"))
	if idx := strings.IndexByte(base, '.'); idx != -1 {
		base = base[:idx]
	}
	base = strings.TrimRight(base, " ")
	_, reserved := windowsDeviceNames[strings.ToUpper(base)]
	return reserved
}
