// SPDX-License-Identifier: MPL-2.0

package selfupdate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ideatopia/pwdgen/pkg/platform"

	"golang.org/x/mod/semver"
)

const (
	// maxBinaryBytes bounds a downloaded release binary.
	maxBinaryBytes = 200 << 20

	// staleSuffix marks the binary moved aside by a Windows upgrade.
	staleSuffix = ".old"
)

var (
	// ErrInvalidVersion is returned for a version that is not semantic.
	ErrInvalidVersion = errors.New("invalid semantic version")

	// ErrUnsupportedPlatform is returned when releases carry no binary for
	// the running operating system.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrBinaryTooLarge is returned when a download exceeds maxBinaryBytes.
	ErrBinaryTooLarge = errors.New("release binary exceeds size limit")

	//nolint:gochecknoglobals // test seam
	currentGOOS = runtime.GOOS
)

type (
	// UpgradeCheck is the outcome of Updater.Check.
	UpgradeCheck struct {
		CurrentVersion string
		// LatestVersion is the tag of the release compared against; empty for
		// managed installs.
		LatestVersion string
		// TargetRelease is set only when UpgradeAvailable is true.
		TargetRelease    *Release
		InstallMethod    InstallMethod
		UpgradeAvailable bool
		Message          string
	}

	// Updater checks for and installs releases of the running binary.
	Updater struct {
		client     *Client
		version    string
		executable func() (string, error)
		detect     func(execPath string) InstallMethod
	}

	// UpdaterOption configures an Updater.
	UpdaterOption func(*Updater)
)

// WithClient replaces the default api.github.com client.
func WithClient(c *Client) UpdaterOption {
	return func(u *Updater) { u.client = c }
}

// WithExecutable makes the Updater check and replace the binary at path
// instead of the running executable.
func WithExecutable(path string) UpdaterOption {
	return func(u *Updater) {
		u.executable = func() (string, error) { return path, nil }
	}
}

// WithInstallMethod skips install method detection.
func WithInstallMethod(m InstallMethod) UpdaterOption {
	return func(u *Updater) {
		u.detect = func(string) InstallMethod { return m }
	}
}

// NewUpdater returns an Updater for a binary built as version.
func NewUpdater(version string, opts ...UpdaterOption) *Updater {
	u := &Updater{
		version:    version,
		executable: executablePath,
		detect:     DetectInstallMethod,
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.client == nil {
		u.client = NewClient()
	}
	return u
}

// Check compares the running version with target, or with the newest stable
// release when target is empty. An explicit target older than the running
// version is offered as a downgrade. Managed installs are reported without
// contacting GitHub.
func (u *Updater) Check(ctx context.Context, target string) (*UpgradeCheck, error) {
	exe, err := u.executable()
	if err != nil {
		return nil, err
	}

	check := &UpgradeCheck{CurrentVersion: u.version, InstallMethod: u.detect(exe)}
	if check.InstallMethod.Managed() {
		check.Message = fmt.Sprintf("pwdgen at %s is managed by %s.\n\nTo upgrade, run:\n  %s",
			exe, check.InstallMethod, check.InstallMethod.UpgradeCommand())
		return check, nil
	}

	current, err := normalizeVersion(u.version)
	if err != nil {
		return nil, fmt.Errorf("current version: %w", err)
	}

	release, err := u.pickRelease(ctx, target)
	if err != nil {
		return nil, err
	}
	check.LatestVersion = release.TagName

	candidate, err := normalizeVersion(release.TagName)
	if err != nil {
		return nil, fmt.Errorf("release %s: %w", release.TagName, err)
	}

	switch order := semver.Compare(current, candidate); {
	case order >= 0 && semver.Prerelease(current) != "":
		check.Message = fmt.Sprintf("Running pre-release %s (ahead of %s).", u.version, release.TagName)
	case order == 0 && target != "":
		check.Message = fmt.Sprintf("Already running %s.", release.TagName)
	case order >= 0 && target == "":
		check.Message = "Already up to date."
	default:
		verb := "Upgrade"
		if order > 0 {
			verb = "Downgrade"
		}
		check.TargetRelease = release
		check.UpgradeAvailable = true
		check.Message = fmt.Sprintf("%s available: %s -> %s", verb, u.version, release.TagName)
	}
	return check, nil
}

func (u *Updater) pickRelease(ctx context.Context, target string) (*Release, error) {
	if target != "" {
		tag, err := normalizeVersion(target)
		if err != nil {
			return nil, err
		}
		return u.client.GetReleaseByTag(ctx, tag)
	}

	releases, err := u.client.ListReleases(ctx)
	if err != nil {
		return nil, err
	}
	if len(releases) == 0 {
		return nil, fmt.Errorf("%w: %s has no stable release", ErrReleaseNotFound, u.client.Repo())
	}
	return &releases[0], nil
}

// Apply downloads the binary release publishes for this platform, verifies it
// against checksums.txt when the release has one, and swaps it in for the
// executable. The download is staged in the executable's directory so the
// swap is a rename on one filesystem.
func (u *Updater) Apply(ctx context.Context, release *Release) error {
	if release == nil {
		return errors.New("no release to apply")
	}

	name, err := AssetName(currentGOOS)
	if err != nil {
		return err
	}
	binary, ok := release.FindAsset(name)
	if !ok {
		return fmt.Errorf("%w: %s in release %s", ErrAssetNotFound, name, release.TagName)
	}

	want, err := u.publishedChecksum(ctx, release, name)
	if err != nil {
		return err
	}

	exe, err := u.executable()
	if err != nil {
		return err
	}
	info, err := os.Stat(exe)
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", exe, err)
	}

	staged, got, err := u.stage(ctx, binary.DownloadURL, filepath.Dir(exe), info.Mode().Perm()|0o111)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", name, err)
	}
	if want != "" && !strings.EqualFold(want, got) {
		_ = os.Remove(staged)
		return &ChecksumError{Filename: name, Expected: want, Got: got}
	}

	if err := replaceExecutable(staged, exe); err != nil {
		_ = os.Remove(staged)
		return err
	}
	slog.Debug("replaced executable", "path", exe, "release", release.TagName)
	return nil
}

// publishedChecksum returns the digest checksums.txt lists for name, or ""
// when the release has no manifest.
func (u *Updater) publishedChecksum(ctx context.Context, release *Release, name string) (string, error) {
	manifest, ok := release.FindAsset(checksumsAssetName)
	if !ok {
		slog.Warn("release publishes no checksums, skipping verification", "release", release.TagName)
		return "", nil
	}

	body, err := u.client.DownloadAsset(ctx, manifest.DownloadURL)
	if err != nil {
		return "", err
	}
	defer func() { _ = body.Close() }()

	sums, err := ParseChecksums(io.LimitReader(body, maxMetadataBytes))
	if err != nil {
		return "", err
	}
	return sums.Lookup(name)
}

// stage writes the download at url to a new file in dir with mode and
// returns its path and hex SHA-256. The file is removed on error.
func (u *Updater) stage(ctx context.Context, url, dir string, mode os.FileMode) (path, digest string, err error) {
	body, err := u.client.DownloadAsset(ctx, url)
	if err != nil {
		return "", "", err
	}
	defer func() { _ = body.Close() }()

	f, err := os.CreateTemp(dir, ".pwdgen-upgrade-*")
	if err != nil {
		return "", "", fmt.Errorf("staging download: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	h := sha256.New()
	// Reading one byte past the limit tells an oversized binary apart.
	n, err := io.Copy(io.MultiWriter(f, h), io.LimitReader(body, maxBinaryBytes+1))
	if err != nil {
		return "", "", fmt.Errorf("writing download: %w", err)
	}
	if n > maxBinaryBytes {
		return "", "", ErrBinaryTooLarge
	}
	if err := f.Chmod(mode); err != nil {
		return "", "", fmt.Errorf("setting permissions: %w", err)
	}
	return f.Name(), hex.EncodeToString(h.Sum(nil)), nil
}

// replaceExecutable renames staged over exe. A running Windows executable can
// be renamed but not overwritten, so it is moved to exe+".old" first and put
// back if the second rename fails.
func replaceExecutable(staged, exe string) error {
	if currentGOOS != platform.Windows {
		if err := os.Rename(staged, exe); err != nil {
			return fmt.Errorf("installing new binary: %w", err)
		}
		return nil
	}

	old := exe + staleSuffix
	_ = os.Remove(old)
	if err := os.Rename(exe, old); err != nil {
		return fmt.Errorf("moving %s aside: %w", exe, err)
	}
	if err := os.Rename(staged, exe); err != nil {
		return errors.Join(fmt.Errorf("installing new binary: %w", err), os.Rename(old, exe))
	}
	return nil
}

// RemoveStale deletes the binary a Windows upgrade moved aside.
func RemoveStale() error {
	exe, err := executablePath()
	if err != nil {
		return err
	}
	return removeStale(exe)
}

func removeStale(exe string) error {
	if err := os.Remove(exe + staleSuffix); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing previous binary: %w", err)
	}
	return nil
}

// executablePath returns the symlink-free path of the running binary.
func executablePath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", exe, err)
	}
	return resolved, nil
}

// normalizeVersion prefixes v when missing and rejects non-semantic versions.
func normalizeVersion(v string) (string, error) {
	norm := strings.TrimSpace(v)
	if !strings.HasPrefix(norm, "v") {
		norm = "v" + norm
	}
	if !semver.IsValid(norm) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, v)
	}
	return norm, nil
}
