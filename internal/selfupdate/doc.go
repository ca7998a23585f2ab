// SPDX-License-Identifier: MPL-2.0

// Package selfupdate replaces the running pwdgen binary with a release
// published on GitHub.
//
// Every release carries one raw binary per operating system (see AssetName)
// and may carry a sha256sum manifest called checksums.txt. Binaries owned by
// Homebrew or go install are never touched; the Updater reports the package
// manager command instead.
package selfupdate
