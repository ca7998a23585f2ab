// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/ideatopia/pwdgen/internal/config"

	"github.com/spf13/cobra"
)

const (
	dumpFormatCUE  = "cue"
	dumpFormatTOML = "toml"
)

// newConfigCommand creates the `pwdgen config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App, opts *rootOptions) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pwdgen configuration",
		Long: `Manage pwdgen configuration.

Configuration is stored in:
  - Linux: ~/.config/pwdgen/config.cue
  - macOS: ~/Library/Application Support/pwdgen/config.cue
  - Windows: %APPDATA%\pwdgen\config.cue

A config.cue in the current directory is used when the user file is absent.
Every value can be overridden with a PWDGEN_* environment variable,
e.g. PWDGEN_GENERATE_LENGTH=20.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, opts.configPath)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app.stdout)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app.stdout, opts.configPath)
		},
	})

	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE or TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			return dumpConfig(cmd.Context(), app, opts.configPath, format)
		},
	}
	dumpCmd.Flags().String("format", dumpFormatCUE, "output format: cue or toml")
	cfgCmd.AddCommand(dumpCmd)

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, configPath string) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: configPath})
	if err != nil {
		return err
	}

	w := app.stdout
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	path, found, pathErr := config.ResolvePath(config.LoadOptions{ConfigFilePath: configPath})
	if pathErr == nil && found {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}

	section := func(name string, values [][2]string) {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s:\n", keyStyle.Render(name))
		for _, kv := range values {
			fmt.Fprintf(w, "  %s: %s\n", kv[0], valueStyle.Render(kv[1]))
		}
	}

	section("generate", [][2]string{
		{"length", fmt.Sprint(cfg.Generate.Length)},
		{"quantity", fmt.Sprint(cfg.Generate.Quantity)},
		{"complexity", cfg.Generate.Complexity.String()},
		{"special", fmt.Sprint(cfg.Generate.Special)},
	})
	section("output", [][2]string{
		{"hide", fmt.Sprint(cfg.Output.Hide)},
		{"copy", fmt.Sprint(cfg.Output.Copy)},
		{"osc52_fallback", fmt.Sprint(cfg.Output.OSC52Fallback)},
	})
	section("update", [][2]string{
		{"owner", cfg.Update.Owner.String()},
		{"repo", cfg.Update.Repo.String()},
	})
	section("ui", [][2]string{
		{"verbose", fmt.Sprint(cfg.UI.Verbose)},
		{"color_scheme", cfg.UI.ColorScheme.String()},
	})

	return nil
}

func initConfig(w io.Writer) error {
	path, err := config.CreateDefaultConfig()
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Fprintf(w, "%s Configuration file at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func showConfigPath(w io.Writer, configPath string) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	path, found, err := config.ResolvePath(config.LoadOptions{ConfigFilePath: configPath})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Config directory: %s\n", cfgDir)
	if found {
		fmt.Fprintf(w, "Config file: %s\n", path)
	} else {
		fmt.Fprintf(w, "Config file: %s %s\n", path, SubtitleStyle.Render("(not created yet)"))
	}
	return nil
}

func dumpConfig(ctx context.Context, app *App, configPath, format string) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: configPath})
	if err != nil {
		return err
	}

	switch format {
	case dumpFormatCUE:
		fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
	case dumpFormatTOML:
		out, err := config.GenerateTOML(cfg)
		if err != nil {
			return err
		}
		fmt.Fprint(app.stdout, out)
	default:
		return fmt.Errorf("unknown format %q (valid: %s, %s)", format, dumpFormatCUE, dumpFormatTOML)
	}
	return nil
}
