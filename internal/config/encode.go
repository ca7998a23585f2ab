// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// GenerateCUE renders cfg as a config.cue file that passes the schema.
func GenerateCUE(cfg *Config) string {
	var b strings.Builder
	b.WriteString("// pwdgen configuration file\n")
	b.WriteString("// See https://github.com/ideatopia/password-generator for documentation.\n")

	section := func(name string, fields ...string) {
		fmt.Fprintf(&b, "\n%s: {\n", name)
		for i := 0; i+1 < len(fields); i += 2 {
			fmt.Fprintf(&b, "\t%s %s\n", fields[i], fields[i+1])
		}
		b.WriteString("}\n")
	}

	section("generate",
		"length:    ", fmt.Sprint(cfg.Generate.Length),
		"quantity:  ", fmt.Sprint(cfg.Generate.Quantity),
		"complexity:", fmt.Sprintf("%q", cfg.Generate.Complexity),
		"special:   ", fmt.Sprint(cfg.Generate.Special))
	section("output",
		"hide:          ", fmt.Sprint(cfg.Output.Hide),
		"copy:          ", fmt.Sprint(cfg.Output.Copy),
		"osc52_fallback:", fmt.Sprint(cfg.Output.OSC52Fallback))
	section("update",
		"owner:", fmt.Sprintf("%q", cfg.Update.Owner),
		"repo: ", fmt.Sprintf("%q", cfg.Update.Repo))
	section("ui",
		"verbose:     ", fmt.Sprint(cfg.UI.Verbose),
		"color_scheme:", fmt.Sprintf("%q", cfg.UI.ColorScheme))

	return b.String()
}

// GenerateTOML renders cfg as TOML for `pwdgen config dump --format toml`.
func GenerateTOML(cfg *Config) (string, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encoding config as TOML: %w", err)
	}
	return string(data), nil
}
