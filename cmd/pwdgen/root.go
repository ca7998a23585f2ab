// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/ideatopia/pwdgen/internal/config"
	"github.com/ideatopia/pwdgen/internal/generator"
	"github.com/ideatopia/pwdgen/internal/issue"
	"github.com/ideatopia/pwdgen/internal/selfupdate"
	"github.com/ideatopia/pwdgen/pkg/platform"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootOptions holds the flag values and the configuration loaded for one
// invocation.
type rootOptions struct {
	generate   generateOptions
	configPath string
	verbose    bool
	cfg        *config.Config
}

// newRootCommand creates the `pwdgen` command. Running it without a
// subcommand generates passwords.
func newRootCommand(app *App) *cobra.Command {
	defaults := config.DefaultConfig()
	opts := &rootOptions{
		generate: generateOptions{
			length:     defaults.Generate.Length,
			quantity:   defaults.Generate.Quantity,
			complexity: generator.ComplexitySecure,
		},
	}

	rootCmd := &cobra.Command{
		Use:   "pwdgen",
		Short: "Generate random passwords",
		Long: TitleStyle.Render("pwdgen") + SubtitleStyle.Render(" - Generate random passwords") + `

pwdgen generates passwords from three complexity tiers. Every password
contains at least one character of each class its tier requires.

` + SubtitleStyle.Render("Complexity tiers:") + `
  simple    lowercase letters
  secure    lowercase, uppercase and digits
  complex   lowercase, uppercase, digits and special characters

Flags that are not given fall back to the configuration file
(see 'pwdgen config path') and PWDGEN_* environment variables.`,
		Example: `  # One 12 character password
  pwdgen

  # Five 20 character passwords with special characters
  pwdgen -l 20 -q 5 -s

  # Copy a complex password without printing it
  pwdgen -c complex --hide --copy

  # Write passwords to a new file
  pwdgen -q 10 --export passwords.txt`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.loadConfig(cmd.Context(), app)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true
			return runRoot(cmd, app, opts)
		},
	}

	flags := rootCmd.Flags()
	flags.IntVarP(&opts.generate.length, "length", "l", opts.generate.length, fmt.Sprintf("password length (minimum %d)", config.MinLength))
	flags.IntVarP(&opts.generate.quantity, "quantity", "q", opts.generate.quantity, "number of passwords to generate")
	flags.VarP(&opts.generate.complexity, "complexity", "c", "complexity tier: simple, secure or complex")
	flags.BoolVarP(&opts.generate.special, "special", "s", false, "include special characters")
	flags.BoolVar(&opts.generate.hide, "hide", false, "do not print passwords to stdout")
	flags.BoolVar(&opts.generate.copy, "copy", false, "copy passwords to the clipboard")
	flags.StringVar(&opts.generate.export, "export", "", "write passwords to a new file")
	flags.BoolVar(&opts.generate.update, "update", false, "update pwdgen to the latest release before generating")

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is <config dir>/pwdgen/config.cue)")

	rootCmd.AddCommand(newUpgradeCommand(app, opts))
	rootCmd.AddCommand(newConfigCommand(app, opts))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the application and runs the root command.
// This is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// handleError prints errors that no handler has reported yet.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// loadConfig loads the configuration, installs the logger and removes any
// binary left behind by a Windows upgrade. A configuration that cannot be
// loaded is reported and replaced by the defaults.
func (o *rootOptions) loadConfig(ctx context.Context, app *App) {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: o.configPath})
	if err != nil {
		fmt.Fprintln(app.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, o.verbose))
		if o.verbose {
			printGuide(app.stderr, err, config.ColorSchemeAuto)
		}
		cfg = config.DefaultConfig()
	}
	if !o.verbose {
		o.verbose = cfg.UI.Verbose
	}
	o.cfg = cfg

	initLogger(app.stderr, o.verbose)

	if runtime.GOOS == platform.Windows {
		if err := selfupdate.RemoveStale(); err != nil {
			slog.Debug("could not remove previous binary", "error", err)
		}
	}
}

// initLogger installs a charmbracelet/log handler as the slog default.
func initLogger(w io.Writer, verbose bool) {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
	slog.SetDefault(slog.New(logger))
}

// runRoot generates passwords, running a self-update first when --update is set.
func runRoot(cmd *cobra.Command, app *App, opts *rootOptions) error {
	ctx := cmd.Context()

	if opts.generate.update {
		applied, err := runUpgrade(ctx, upgradeParams{
			stdout:      app.stderr,
			stderr:      app.stderr,
			updater:     app.Updater(opts.cfg),
			yes:         true,
			colorScheme: opts.cfg.UI.ColorScheme,
		})
		if err != nil {
			return reportUpgradeError(app.stderr, err, opts)
		}
		if applied {
			return nil
		}
	}

	resolved, err := resolveGenerateOptions(cmd.Flags(), opts.generate, opts.cfg)
	if err != nil {
		return reportGenerateError(app.stderr, err, opts)
	}

	p := generateParams{
		stdout:      app.stdout,
		stderr:      app.stderr,
		clipboard:   app.Clipboard(opts.cfg),
		opts:        resolved,
		verbose:     opts.verbose,
		colorScheme: opts.cfg.UI.ColorScheme,
	}
	if err := runGenerate(ctx, p); err != nil {
		return reportGenerateError(app.stderr, err, opts)
	}
	return nil
}

func reportGenerateError(w io.Writer, err error, opts *rootOptions) error {
	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, opts.verbose))
	if opts.verbose {
		printGuide(w, err, opts.cfg.UI.ColorScheme)
	}
	return &ExitError{Code: classifyGenerateExitCode(err), Err: err}
}

// formatErrorForDisplay formats an error for user display.
// ActionableErrors list their suggestions; verbose mode adds the error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
