// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ideatopia/pwdgen/internal/generator"
	"github.com/ideatopia/pwdgen/internal/issue"

	"github.com/spf13/viper"
)

type (
	// LoadOptions selects the configuration source. Both fields are optional.
	LoadOptions struct {
		ConfigFilePath string // exact file; an error when it does not exist
		ConfigDirPath  string // replaces ConfigDir
	}

	// Provider loads configuration. The CLI depends on this interface so tests
	// can substitute a fixed configuration.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	fileProvider struct{}
)

// NewProvider returns the Provider that reads config.cue and PWDGEN_*
// environment variables.
func NewProvider() Provider { return fileProvider{} }

func (fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	return cfg, err
}

// loadWithOptions layers defaults, the config file and the environment, in
// increasing priority, and validates the result. The returned path is "" when
// no file was read.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", fmt.Errorf("loading configuration: %w", err)
	}

	if opts.ConfigFilePath != "" && !fileExists(opts.ConfigFilePath) {
		return nil, "", loadError(opts.ConfigFilePath, fmt.Errorf("config file not found: %s", opts.ConfigFilePath),
			"Verify the file path is correct",
			"Check that the file exists and is readable",
			"Use 'pwdgen config show' to see the default configuration")
	}

	v := newViper(DefaultConfig())

	path, found, err := ResolvePath(opts)
	if err != nil {
		return nil, "", err
	}
	if !found {
		path = ""
	} else {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", loadError(path, err,
				"Check that the file contains valid CUE syntax",
				"Verify the configuration values match the expected schema",
				"See 'pwdgen config --help' for configuration options")
		}
		slog.Debug("loaded configuration file", "path", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("decoding configuration: %w", err)
	}

	// The schema never sees environment overrides.
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion(fmt.Sprintf("Check %s_* environment variables for out-of-range values", EnvPrefix)).
			WithSuggestion(fmt.Sprintf("generate.length must be at least %d and generate.quantity between 1 and %d",
				MinLength, generator.MaxQuantity)).
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(errs[0]).
			BuildError()
	}
	return &cfg, path, nil
}

// newViper returns a viper instance holding defaults and reading PWDGEN_*
// overrides, where "." in a key becomes "_".
func newViper(defaults *Config) *viper.Viper {
	v := viper.New()
	for key, value := range map[string]any{
		"generate.length":       defaults.Generate.Length,
		"generate.quantity":     defaults.Generate.Quantity,
		"generate.complexity":   defaults.Generate.Complexity.String(),
		"generate.special":      defaults.Generate.Special,
		"output.hide":           defaults.Output.Hide,
		"output.copy":           defaults.Output.Copy,
		"output.osc52_fallback": defaults.Output.OSC52Fallback,
		"update.owner":          defaults.Update.Owner.String(),
		"update.repo":           defaults.Update.Repo.String(),
		"ui.verbose":            defaults.UI.Verbose,
		"ui.color_scheme":       defaults.UI.ColorScheme.String(),
	} {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func loadError(path string, cause error, suggestions ...string) error {
	ec := issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithIssue(issue.ConfigLoadFailedId).
		Wrap(cause)
	for _, s := range suggestions {
		ec.WithSuggestion(s)
	}
	return ec.BuildError()
}
