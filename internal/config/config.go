// SPDX-License-Identifier: MPL-2.0

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/ideatopia/pwdgen/pkg/platform"
)

const (
	// AppName names the configuration directory, the logger prefix and the
	// User-Agent sent to GitHub.
	AppName = "pwdgen"
	// ConfigFileName and ConfigFileExt make up "config.cue".
	ConfigFileName = "config"
	ConfigFileExt  = "cue"
	// EnvPrefix starts every environment override, as in PWDGEN_GENERATE_LENGTH.
	EnvPrefix = "PWDGEN"

	maxConfigFileBytes = 1 << 20
)

var (
	//go:embed config_schema.cue
	configSchema string

	//nolint:gochecknoglobals // test seam
	configDirOverride string
)

// SetConfigDirOverride makes ConfigDir return dir until Reset is called.
func SetConfigDirOverride(dir string) { configDirOverride = dir }

// Reset undoes SetConfigDirOverride.
func Reset() { configDirOverride = "" }

// ConfigDir returns <user config root>/pwdgen. The root is %APPDATA% on
// Windows, ~/Library/Application Support on macOS and $XDG_CONFIG_HOME or
// ~/.config elsewhere.
//
//nolint:revive // config.ConfigDir reads better at call sites than config.Dir
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	root, err := userConfigRoot(runtime.GOOS)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, AppName), nil
}

func userConfigRoot(goos string) (string, error) {
	switch goos {
	case platform.Windows:
		if appData := os.Getenv("APPDATA"); appData != "" {
			return appData, nil
		}
		return filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming"), nil
	case platform.Linux:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	if goos == platform.Darwin {
		return filepath.Join(home, "Library", "Application Support"), nil
	}
	return filepath.Join(home, ".config"), nil
}

// ResolvePath returns the file Load reads for opts and whether it exists.
// Without an explicit file the config directory is tried first, then
// ./config.cue. When neither exists the config directory path is returned
// with found set to false.
func ResolvePath(opts LoadOptions) (path string, found bool, err error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath, fileExists(opts.ConfigFilePath), nil
	}

	dir := opts.ConfigDirPath
	if dir == "" {
		if dir, err = ConfigDir(); err != nil {
			return "", false, err
		}
	}

	name := ConfigFileName + "." + ConfigFileExt
	inDir := filepath.Join(dir, name)
	for _, candidate := range []string{inDir, name} {
		if fileExists(candidate) {
			return candidate, true, nil
		}
	}
	return inDir, false, nil
}

// CreateDefaultConfig writes the defaults to <ConfigDir>/config.cue unless a
// file is already there, and returns its path.
func CreateDefaultConfig() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return path, nil
	}
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := f.WriteString(GenerateCUE(DefaultConfig())); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// fileExists reports whether path names a regular file or a symlink to one.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
