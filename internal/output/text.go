// SPDX-License-Identifier: MPL-2.0

package output

import (
	"strings"

	"github.com/ideatopia/pwdgen/pkg/platform"
)

// Join joins passwords with the platform line separator. Surrounding
// whitespace is trimmed so the result never ends with a separator.
func Join(passwords []string) string {
	return JoinWith(passwords, platform.LineSeparator())
}

// JoinWith joins passwords with sep and trims surrounding whitespace.
func JoinWith(passwords []string, sep string) string {
	return strings.TrimSpace(strings.Join(passwords, sep))
}
