// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ideatopia/pwdgen/internal/generator"
)

const (
	// MinLength is the shortest password length the CLI accepts.
	MinLength = 8

	// Glamour styles for rendered guides and release notes. Auto follows the
	// terminal background.
	ColorSchemeAuto  ColorScheme = "auto"
	ColorSchemeDark  ColorScheme = "dark"
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is wrapped by InvalidColorSchemeError.
	ErrInvalidColorScheme = errors.New("unknown color scheme")
	// ErrInvalidRepoName is the sentinel error wrapped by InvalidRepoNameError.
	ErrInvalidRepoName = errors.New("invalid repository name")
	// ErrInvalidGenerateConfig is the sentinel error wrapped by InvalidGenerateConfigError.
	ErrInvalidGenerateConfig = errors.New("invalid generate config")
	// ErrInvalidConfig is wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid configuration")
)

type (
	validator interface {
		IsValid() (bool, []error)
	}

	// ComplexityName is the configured complexity token. It is kept as text so
	// that file, environment and flag values all pass through ParseComplexity.
	ComplexityName string

	// ColorScheme is ui.color_scheme.
	ColorScheme string

	// InvalidColorSchemeError names a ui.color_scheme value other than auto,
	// dark or light.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// RepoName is a GitHub owner or repository name.
	RepoName string

	// InvalidRepoNameError is returned when a RepoName is empty or contains
	// characters GitHub does not allow.
	InvalidRepoNameError struct {
		Value RepoName
	}

	// InvalidGenerateConfigError is returned when a GenerateConfig has invalid fields.
	InvalidGenerateConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError collects every field error found in a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config mirrors config.cue. Each section maps to one top-level key.
	Config struct {
		// Generate holds the defaults for password generation flags.
		Generate GenerateConfig `json:"generate" mapstructure:"generate" toml:"generate"`
		// Output configures the password sinks.
		Output OutputConfig `json:"output" mapstructure:"output" toml:"output"`
		// Update configures the release feed used for self-update.
		Update UpdateConfig `json:"update" mapstructure:"update" toml:"update"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui" toml:"ui"`
	}

	// GenerateConfig holds generation defaults applied when the matching flag
	// is not given.
	GenerateConfig struct {
		Length     int            `json:"length" mapstructure:"length" toml:"length"`
		Quantity   int            `json:"quantity" mapstructure:"quantity" toml:"quantity"`
		Complexity ComplexityName `json:"complexity" mapstructure:"complexity" toml:"complexity"`
		Special    bool           `json:"special" mapstructure:"special" toml:"special"`
	}

	// OutputConfig configures where generated passwords go.
	OutputConfig struct {
		// Hide suppresses printing passwords to stdout.
		Hide bool `json:"hide" mapstructure:"hide" toml:"hide"`
		// Copy copies passwords to the clipboard.
		Copy bool `json:"copy" mapstructure:"copy" toml:"copy"`
		// OSC52Fallback allows the terminal clipboard sequence when the system
		// clipboard is unavailable.
		OSC52Fallback bool `json:"osc52_fallback" mapstructure:"osc52_fallback" toml:"osc52_fallback"`
	}

	// UpdateConfig names the GitHub repository whose releases feed self-update.
	UpdateConfig struct {
		Owner RepoName `json:"owner" mapstructure:"owner" toml:"owner"`
		Repo  RepoName `json:"repo" mapstructure:"repo" toml:"repo"`
	}

	// UIConfig is the ui section.
	UIConfig struct {
		// Verbose enables debug logging and full error chains.
		Verbose bool `json:"verbose" mapstructure:"verbose" toml:"verbose"`
		// ColorScheme selects the glamour style for rendered markdown.
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme" toml:"color_scheme"`
	}
)

// String returns the string representation of the ComplexityName.
func (n ComplexityName) String() string { return string(n) }

// Complexity parses the name into a generator tier.
func (n ComplexityName) Complexity() (generator.Complexity, error) {
	return generator.ParseComplexity(string(n))
}

// IsValid returns whether the name is one of the canonical tier tokens.
func (n ComplexityName) IsValid() (bool, []error) {
	if _, err := n.Complexity(); err != nil {
		return false, []error{err}
	}
	return true, nil
}

// IsValid returns whether the GenerateConfig has valid fields.
func (c GenerateConfig) IsValid() (bool, []error) {
	var errs []error
	if c.Length < MinLength {
		errs = append(errs, &generator.InvalidLengthError{Length: c.Length, Minimum: MinLength})
	}
	if err := generator.ValidateQuantity(c.Quantity); err != nil {
		errs = append(errs, err)
	}
	if valid, fieldErrs := c.Complexity.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidGenerateConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidGenerateConfigError.
func (e *InvalidGenerateConfigError) Error() string {
	return fmt.Sprintf("invalid generate config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidGenerateConfig for errors.Is() compatibility.
func (e *InvalidGenerateConfigError) Unwrap() error { return ErrInvalidGenerateConfig }

// String returns the string representation of the RepoName.
func (r RepoName) String() string { return string(r) }

// IsValid returns whether the RepoName is non-empty and limited to the
// characters GitHub accepts in owner and repository names.
func (r RepoName) IsValid() (bool, []error) {
	if r == "" {
		return false, []error{&InvalidRepoNameError{Value: r}}
	}
	for _, c := range r {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			return false, []error{&InvalidRepoNameError{Value: r}}
		}
	}
	return true, nil
}

// Error implements the error interface for InvalidRepoNameError.
func (e *InvalidRepoNameError) Error() string {
	return fmt.Sprintf("invalid repository name %q", e.Value)
}

// Unwrap returns ErrInvalidRepoName for errors.Is() compatibility.
func (e *InvalidRepoNameError) Unwrap() error { return ErrInvalidRepoName }

func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("unknown color scheme %q, want auto, dark or light", e.Value)
}

func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

func (s ColorScheme) String() string { return string(s) }

// IsValid accepts auto, dark and light.
func (s ColorScheme) IsValid() (bool, []error) {
	if s == ColorSchemeAuto || s == ColorSchemeDark || s == ColorSchemeLight {
		return true, nil
	}
	return false, []error{&InvalidColorSchemeError{Value: s}}
}

// IsValid checks every section and reports all problems at once.
// It delegates to Generate.IsValid(), the update repository names and
// UI.ColorScheme.IsValid(). Output has only bool fields and needs no validation.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for _, field := range []validator{c.Generate, c.Update.Owner, c.Update.Repo, c.UI.ColorScheme} {
		if valid, fieldErrs := field.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", joinErrors(e.FieldErrors))
}

func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the values used for anything config.cue and the
// environment leave unset.
func DefaultConfig() *Config {
	return &Config{
		Generate: GenerateConfig{
			Length:     12,
			Quantity:   1,
			Complexity: ComplexityName(generator.ComplexitySecure.String()),
			Special:    false,
		},
		Output: OutputConfig{
			Hide:          false,
			Copy:          false,
			OSC52Fallback: true,
		},
		Update: UpdateConfig{
			Owner: "ideatopia",
			Repo:  "password-generator",
		},
		UI: UIConfig{
			Verbose:     false,
			ColorScheme: ColorSchemeAuto,
		},
	}
}

func joinErrors(errs []error) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}
