// SPDX-License-Identifier: MPL-2.0

package selfupdate

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
)

// modulePath is the module a go install build records as its main module.
const modulePath = "github.com/ideatopia/pwdgen"

// InstallMethod says who owns the running binary.
type InstallMethod int

const (
	// InstallMethodRelease is a release binary placed by hand or by a previous
	// upgrade. It is the only kind replaced in place.
	InstallMethodRelease InstallMethod = iota
	// InstallMethodHomebrew is a binary inside a Homebrew prefix.
	InstallMethodHomebrew
	// InstallMethodGoInstall is a binary built by go install into GOBIN.
	InstallMethodGoInstall
)

var (
	// installMethodHint lets packagers pin the method at build time:
	// -ldflags "-X github.com/ideatopia/pwdgen/internal/selfupdate.installMethodHint=homebrew"
	//
	//nolint:gochecknoglobals // set through -ldflags
	installMethodHint string

	//nolint:gochecknoglobals // test seam
	readBuildInfo = debug.ReadBuildInfo

	//nolint:gochecknoglobals // read-only table
	homebrewPrefixes = []string{"/opt/homebrew/", "/usr/local/Cellar/", "/home/linuxbrew/.linuxbrew/"}
)

func (m InstallMethod) String() string {
	switch m {
	case InstallMethodHomebrew:
		return "Homebrew"
	case InstallMethodGoInstall:
		return "go install"
	default:
		return "release binary"
	}
}

// Managed reports whether a package manager owns the binary.
func (m InstallMethod) Managed() bool {
	return m == InstallMethodHomebrew || m == InstallMethodGoInstall
}

// UpgradeCommand returns the package manager command that upgrades a managed
// install, or "" for a release binary.
func (m InstallMethod) UpgradeCommand() string {
	switch m {
	case InstallMethodHomebrew:
		return "brew upgrade pwdgen"
	case InstallMethodGoInstall:
		return "go install " + modulePath + "@latest"
	default:
		return ""
	}
}

// DetectInstallMethod classifies the binary at execPath. A build-time hint
// wins; otherwise Homebrew prefixes and go install builds sitting in GOBIN are
// recognized, and everything else is a release binary.
func DetectInstallMethod(execPath string) InstallMethod {
	switch strings.ToLower(installMethodHint) {
	case "homebrew":
		return InstallMethodHomebrew
	case "goinstall":
		return InstallMethodGoInstall
	case "release":
		return InstallMethodRelease
	}

	slashed := filepath.ToSlash(execPath)
	for _, prefix := range homebrewPrefixes {
		if strings.Contains(slashed, prefix) {
			return InstallMethodHomebrew
		}
	}

	if dir := goBinDir(); dir != "" && filepath.Dir(filepath.Clean(execPath)) == dir && builtByGoInstall() {
		return InstallMethodGoInstall
	}
	return InstallMethodRelease
}

// goBinDir returns the directory go install writes to: $GOBIN, else the bin
// directory of the first $GOPATH entry, else ~/go/bin.
func goBinDir() string {
	if dir := os.Getenv("GOBIN"); dir != "" {
		return filepath.Clean(dir)
	}
	gopath, _, _ := strings.Cut(os.Getenv("GOPATH"), string(os.PathListSeparator))
	if gopath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		gopath = filepath.Join(home, "go")
	}
	return filepath.Join(gopath, "bin")
}

// builtByGoInstall reports whether the binary's main module is pwdgen, which
// rules out a release binary copied into GOBIN by hand.
func builtByGoInstall() bool {
	info, ok := readBuildInfo()
	return ok && info != nil && info.Main.Path == modulePath
}
