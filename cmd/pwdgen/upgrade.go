// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ideatopia/pwdgen/internal/config"
	"github.com/ideatopia/pwdgen/internal/issue"
	"github.com/ideatopia/pwdgen/internal/selfupdate"
	"github.com/ideatopia/pwdgen/internal/tui"

	"github.com/spf13/cobra"
)

const releasesPage = "https://github.com/ideatopia/password-generator/releases"

type (
	// upgradeParams is everything runUpgrade needs. Both `pwdgen upgrade` and
	// `pwdgen --update` build one.
	upgradeParams struct {
		stdout      io.Writer
		stderr      io.Writer
		updater     *selfupdate.Updater
		target      string // empty selects the newest stable release
		check       bool
		yes         bool
		notes       bool
		prompt      tui.Config
		colorScheme config.ColorScheme
	}

	// upgradeFailure maps a class of upgrade errors to an exit code and the
	// advice printed under the error.
	upgradeFailure struct {
		matches func(error) bool
		code    int
		advice  func(error) string
	}
)

//nolint:gochecknoglobals // read-only table
var upgradeFailures = []upgradeFailure{
	{
		matches: asError[*selfupdate.RateLimitError],
		code:    2,
		advice: func(error) string {
			return "To increase your rate limit, set a GitHub token:\n  export GITHUB_TOKEN=ghp_...\nThen retry: pwdgen upgrade"
		},
	},
	{
		matches: asError[*selfupdate.ChecksumError],
		code:    2,
		advice: func(err error) string {
			var ce *selfupdate.ChecksumError
			errors.As(err, &ce)
			return fmt.Sprintf("Expected: %s\nGot:      %s\n\nThe download may be corrupted. Please try again.\nIf this persists, report at https://github.com/ideatopia/password-generator/issues",
				ce.Expected, ce.Got)
		},
	},
	{
		matches: isErr(tui.ErrNotInteractive),
		code:    1,
		advice: func(error) string {
			return "stdin is not a terminal, so pwdgen cannot ask for confirmation.\nRe-run with --yes to upgrade without a prompt:\n  pwdgen upgrade --yes"
		},
	},
	{
		matches: isErr(selfupdate.ErrReleaseNotFound),
		code:    1,
		advice:  func(error) string { return "List published versions at " + releasesPage },
	},
	{
		matches: isErr(selfupdate.ErrInvalidVersion),
		code:    1,
		advice: func(error) string {
			return "Versions look like v1.2.0. Builds from source report \"dev\" and cannot be compared;\ninstall a release from " + releasesPage
		},
	},
	{
		matches: isErr(selfupdate.ErrUnsupportedPlatform),
		code:    1,
		advice: func(error) string {
			return "Releases publish binaries for Linux, macOS and Windows only.\nBuild from source instead:\n  go install github.com/ideatopia/pwdgen@latest"
		},
	},
	{
		matches: isErr(os.ErrPermission),
		code:    1,
		advice: func(error) string {
			return "pwdgen lacks the permissions to replace its binary.\nTry running with elevated privileges:\n  sudo pwdgen upgrade"
		},
	},
}

func isErr(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

func asError[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

func findUpgradeFailure(err error) (upgradeFailure, bool) {
	for _, f := range upgradeFailures {
		if f.matches(err) {
			return f, true
		}
	}
	return upgradeFailure{}, false
}

func newUpgradeCommand(app *App, opts *rootOptions) *cobra.Command {
	var p upgradeParams

	cmd := &cobra.Command{
		Use:   "upgrade [version]",
		Short: "Update pwdgen to the latest stable release or a specific version",
		Long: `Update pwdgen to the latest stable release or a specific version.

The binary published for this platform is downloaded from GitHub Releases,
checked against checksums.txt when the release has one, and swapped in for
the running executable. Homebrew and go install users are told which
command to run instead.`,
		Example: `  pwdgen upgrade            # newest stable release
  pwdgen upgrade --check    # only report what is available
  pwdgen upgrade v1.2.0     # a specific version, older ones included
  pwdgen upgrade --yes      # no confirmation prompt`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			p.stdout, p.stderr = app.stdout, app.stderr
			p.updater = app.Updater(opts.cfg)
			p.notes = true
			p.prompt = app.Prompt
			p.colorScheme = opts.cfg.UI.ColorScheme
			if len(args) == 1 {
				p.target = args[0]
			}

			if _, err := runUpgrade(cmd.Context(), p); err != nil {
				return reportUpgradeError(p.stderr, err, opts)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&p.check, "check", false, "Check for available upgrade without installing")
	cmd.Flags().BoolVarP(&p.yes, "yes", "y", false, "Skip confirmation prompt")

	return cmd
}

// runUpgrade checks for a release newer than (or, with a target, different
// from) the running one and installs it. It reports whether the executable
// was replaced. Managed installs only get the package manager command.
func runUpgrade(ctx context.Context, p upgradeParams) (applied bool, err error) {
	check, err := p.updater.Check(ctx, p.target)
	if err != nil {
		return false, fmt.Errorf("checking for upgrade: %w", err)
	}
	if check.InstallMethod.Managed() {
		fmt.Fprintln(p.stdout, check.Message)
		return false, nil
	}

	fmt.Fprintf(p.stdout, "Current version: %s\n", check.CurrentVersion)
	if check.LatestVersion != "" {
		fmt.Fprintf(p.stdout, "Latest version:  %s\n", check.LatestVersion)
	}
	if !check.UpgradeAvailable {
		fmt.Fprintf(p.stdout, "\n%s\n", check.Message)
		return false, nil
	}

	if p.notes {
		printReleaseNotes(p, check.TargetRelease)
	}
	if p.check {
		fmt.Fprintf(p.stdout, "\n%s\nRun 'pwdgen upgrade %s' to install.\n", check.Message, check.LatestVersion)
		return false, nil
	}

	if !p.yes {
		ok, err := confirmUpgrade(p, check)
		if err != nil || !ok {
			return false, err
		}
	}

	fmt.Fprintf(p.stdout, "\nDownloading pwdgen %s...\n", check.LatestVersion)
	if err := p.updater.Apply(ctx, check.TargetRelease); err != nil {
		return false, fmt.Errorf("applying upgrade: %w", err)
	}
	fmt.Fprintln(p.stdout, SuccessStyle.Render("pwdgen "+check.LatestVersion+" installed"))
	return true, nil
}

// confirmUpgrade asks before replacing the binary. Declining and cancelling
// both print "Upgrade cancelled." and return false with a nil error.
func confirmUpgrade(p upgradeParams, check *selfupdate.UpgradeCheck) (bool, error) {
	ok, err := tui.Confirm(tui.ConfirmOptions{
		Title:       fmt.Sprintf("Replace pwdgen %s with %s?", check.CurrentVersion, check.LatestVersion),
		Affirmative: "Yes",
		Negative:    "No",
		Config:      p.prompt,
	})
	switch {
	case errors.Is(err, tui.ErrCancelled):
		ok = false
	case err != nil:
		return false, fmt.Errorf("confirmation prompt: %w", err)
	}
	if !ok {
		fmt.Fprintln(p.stdout, "Upgrade cancelled.")
	}
	return ok, nil
}

// printReleaseNotes renders the markdown notes of release, or prints them
// raw when rendering fails.
func printReleaseNotes(p upgradeParams, release *selfupdate.Release) {
	if release == nil || strings.TrimSpace(release.Body) == "" {
		return
	}

	fmt.Fprintln(p.stdout)
	fmt.Fprintln(p.stdout, TitleStyle.Render("Release notes for "+release.TagName))
	if rendered, err := renderMarkdown(release.Body, p.colorScheme); err == nil {
		fmt.Fprint(p.stdout, rendered)
		return
	}
	fmt.Fprintln(p.stdout, release.Body)
}

func reportUpgradeError(w io.Writer, err error, opts *rootOptions) error {
	fmt.Fprintln(w, formatUpgradeError(err))
	if opts.verbose {
		id := issue.UpgradeFailedId
		if errors.Is(err, selfupdate.ErrUnsupportedPlatform) {
			id = issue.UnsupportedPlatformId
		}
		printIssue(w, id, opts.cfg.UI.ColorScheme)
	}
	return &ExitError{Code: classifyUpgradeExitCode(err), Err: err}
}

// classifyUpgradeExitCode returns 1 for failures the user can fix and 2 for
// everything else.
func classifyUpgradeExitCode(err error) int {
	if f, ok := findUpgradeFailure(err); ok {
		return f.code
	}
	return 2
}

// formatUpgradeError returns the error followed by advice for its class.
func formatUpgradeError(err error) string {
	advice := "Check your network connection and try again.\nIf behind a firewall, set GITHUB_TOKEN for authenticated access."
	if f, ok := findUpgradeFailure(err); ok {
		advice = f.advice(err)
	}
	return err.Error() + "\n\n" + advice
}
