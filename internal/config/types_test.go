// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"

	"github.com/ideatopia/pwdgen/internal/generator"
)

func TestComplexityName_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  ComplexityName
		valid bool
	}{
		{"simple", true},
		{"SECURE", true},
		{" complex ", true},
		{"", false},
		{"extreme", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			t.Parallel()
			valid, errs := tt.name.IsValid()
			if valid != tt.valid {
				t.Fatalf("IsValid() = %v, want %v", valid, tt.valid)
			}
			if !tt.valid && !errors.Is(errs[0], generator.ErrUnsupportedComplexity) {
				t.Errorf("expected ErrUnsupportedComplexity, got %v", errs[0])
			}
		})
	}
}

func TestGenerateConfig_IsValid(t *testing.T) {
	t.Parallel()

	base := DefaultConfig().Generate

	tests := []struct {
		name    string
		mutate  func(*GenerateConfig)
		wantErr error
	}{
		{"defaults", func(*GenerateConfig) {}, nil},
		{"minimum length", func(c *GenerateConfig) { c.Length = MinLength }, nil},
		{"short length", func(c *GenerateConfig) { c.Length = MinLength - 1 }, generator.ErrInvalidLength},
		{"zero quantity", func(c *GenerateConfig) { c.Quantity = 0 }, generator.ErrInvalidQuantity},
		{"maximum quantity", func(c *GenerateConfig) { c.Quantity = generator.MaxQuantity }, nil},
		{"huge quantity", func(c *GenerateConfig) { c.Quantity = 2_000_000_000 }, generator.ErrInvalidQuantity},
		{"bad complexity", func(c *GenerateConfig) { c.Complexity = "x" }, generator.ErrUnsupportedComplexity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := base
			tt.mutate(&c)
			valid, errs := c.IsValid()
			if tt.wantErr == nil {
				if !valid {
					t.Errorf("IsValid() = false: %v", errs)
				}
				return
			}
			if valid {
				t.Fatal("IsValid() = true, want false")
			}
			var ge *InvalidGenerateConfigError
			if !errors.As(errs[0], &ge) {
				t.Fatalf("expected *InvalidGenerateConfigError, got %T", errs[0])
			}
			if !errors.Is(ge.FieldErrors[0], tt.wantErr) {
				t.Errorf("field error = %v, want %v", ge.FieldErrors[0], tt.wantErr)
			}
			if !errors.Is(errs[0], ErrInvalidGenerateConfig) {
				t.Error("expected error to wrap ErrInvalidGenerateConfig")
			}
		})
	}
}

func TestRepoName_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  RepoName
		valid bool
	}{
		{"password-generator", true},
		{"ideatopia", true},
		{"my_repo.go", true},
		{"", false},
		{"a/b", false},
		{"has space", false},
	}
	for _, tt := range tests {
		valid, errs := tt.name.IsValid()
		if valid != tt.valid {
			t.Errorf("RepoName(%q).IsValid() = %v, want %v", tt.name, valid, tt.valid)
		}
		if !tt.valid && !errors.Is(errs[0], ErrInvalidRepoName) {
			t.Errorf("RepoName(%q) error should wrap ErrInvalidRepoName", tt.name)
		}
	}
}

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	for _, cs := range []ColorScheme{ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight} {
		if valid, _ := cs.IsValid(); !valid {
			t.Errorf("ColorScheme(%q).IsValid() = false", cs)
		}
	}

	valid, errs := ColorScheme("neon").IsValid()
	if valid {
		t.Fatal("ColorScheme(neon).IsValid() = true")
	}
	if !errors.Is(errs[0], ErrInvalidColorScheme) {
		t.Errorf("expected ErrInvalidColorScheme, got %v", errs[0])
	}
}

func TestConfig_IsValidCollectsAllFields(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Generate.Length = 1
	cfg.Update.Owner = ""
	cfg.UI.ColorScheme = "neon"

	valid, errs := cfg.IsValid()
	if valid {
		t.Fatal("IsValid() = true, want false")
	}
	var ce *InvalidConfigError
	if !errors.As(errs[0], &ce) {
		t.Fatalf("expected *InvalidConfigError, got %T", errs[0])
	}
	if len(ce.FieldErrors) != 3 {
		t.Errorf("FieldErrors = %d, want 3: %v", len(ce.FieldErrors), ce.FieldErrors)
	}
	if !errors.Is(errs[0], ErrInvalidConfig) {
		t.Error("expected error to wrap ErrInvalidConfig")
	}
}
