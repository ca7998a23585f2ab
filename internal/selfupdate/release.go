// SPDX-License-Identifier: MPL-2.0

package selfupdate

import (
	"fmt"
	"slices"

	"github.com/ideatopia/pwdgen/pkg/platform"

	"golang.org/x/mod/semver"
)

type (
	// Release is a published GitHub release, decoded straight from the API.
	Release struct {
		TagName    string  `json:"tag_name"`
		Name       string  `json:"name"`
		Body       string  `json:"body"` // markdown release notes
		Prerelease bool    `json:"prerelease"`
		Draft      bool    `json:"draft"`
		HTMLURL    string  `json:"html_url"`
		Assets     []Asset `json:"assets"`
	}

	// Asset is a file attached to a release.
	Asset struct {
		Name        string `json:"name"`
		DownloadURL string `json:"browser_download_url"`
		Size        int64  `json:"size"`
	}
)

// Stable reports whether the release is published and not a pre-release.
func (r Release) Stable() bool { return !r.Draft && !r.Prerelease }

// FindAsset returns the attached file called name.
func (r Release) FindAsset(name string) (Asset, bool) {
	i := slices.IndexFunc(r.Assets, func(a Asset) bool { return a.Name == name })
	if i < 0 {
		return Asset{}, false
	}
	return r.Assets[i], true
}

// AssetName returns the binary a release publishes for goos.
func AssetName(goos string) (string, error) {
	switch goos {
	case platform.Linux:
		return "pwdgen-ubuntu", nil
	case platform.Darwin:
		return "pwdgen-macos", nil
	case platform.Windows:
		return "pwdgen-windows.exe", nil
	}
	return "", fmt.Errorf("%w: no release binary for %s", ErrUnsupportedPlatform, goos)
}

// newestFirst orders releases by semantic version, newest first. Tags that
// are not semantic versions sort last.
func newestFirst(releases []Release) {
	slices.SortStableFunc(releases, func(a, b Release) int {
		return semver.Compare(b.TagName, a.TagName)
	})
}
