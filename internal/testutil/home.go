// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"

	"github.com/ideatopia/pwdgen/pkg/platform"
)

// SetHomeDir points os.UserHomeDir at dir through USERPROFILE on Windows and
// HOME elsewhere.
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()
	if runtime.GOOS == platform.Windows {
		return MustSetenv(t, "USERPROFILE", dir)
	}
	return MustSetenv(t, "HOME", dir)
}
