// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/ideatopia/pwdgen/internal/config"
	"github.com/ideatopia/pwdgen/internal/generator"
	"github.com/ideatopia/pwdgen/internal/issue"
	"github.com/ideatopia/pwdgen/internal/output"

	"github.com/spf13/pflag"
)

type (
	// generateOptions are the root command's generation flags.
	generateOptions struct {
		length     int
		quantity   int
		complexity generator.Complexity
		special    bool
		hide       bool
		copy       bool
		export     string
		update     bool
	}

	// generateParams bundles the dependencies and resolved flags for
	// runGenerate so it can be tested without a Cobra command.
	generateParams struct {
		stdout      io.Writer
		stderr      io.Writer
		clipboard   ClipboardWriter
		opts        generateOptions
		verbose     bool
		colorScheme config.ColorScheme
	}
)

// resolveGenerateOptions fills every flag the user did not set with the
// configured value.
func resolveGenerateOptions(flags *pflag.FlagSet, opts generateOptions, cfg *config.Config) (generateOptions, error) {
	if !flags.Changed("length") {
		opts.length = cfg.Generate.Length
	}
	if !flags.Changed("quantity") {
		opts.quantity = cfg.Generate.Quantity
	}
	if !flags.Changed("complexity") {
		complexity, err := cfg.Generate.Complexity.Complexity()
		if err != nil {
			return opts, err
		}
		opts.complexity = complexity
	}
	if !flags.Changed("special") {
		opts.special = cfg.Generate.Special
	}
	if !flags.Changed("hide") {
		opts.hide = cfg.Output.Hide
	}
	if !flags.Changed("copy") {
		opts.copy = cfg.Output.Copy
	}
	return opts, nil
}

// runGenerate generates the passwords and hands the joined text to each
// requested sink in order: stdout, the export file, the clipboard.
// Clipboard failures are reported as warnings and never fail the command.
func runGenerate(ctx context.Context, p generateParams) error {
	if err := validateGenerateOptions(p.opts); err != nil {
		return err
	}

	req := generator.Request{
		Length:         p.opts.length,
		Complexity:     p.opts.complexity,
		IncludeSpecial: p.opts.special,
	}
	passwords, err := generator.Batch(ctx, req, p.opts.quantity)
	if err != nil {
		return fmt.Errorf("generating passwords: %w", err)
	}
	slog.Debug("generated passwords", "count", len(passwords), "length", req.Length, "complexity", req.Complexity.String())

	text := output.Join(passwords)

	if !p.opts.hide {
		fmt.Fprintln(p.stdout, text)
	}

	if p.opts.export != "" {
		if err := output.Export(p.opts.export, text); err != nil {
			return issue.NewErrorContext().
				WithOperation("export passwords").
				WithResource(p.opts.export).
				WithSuggestion("Choose a file name that does not exist yet").
				WithSuggestion("Check that the parent directory exists and is writable").
				WithIssue(issue.ExportFailedId).
				Wrap(err).
				BuildError()
		}
		fmt.Fprintln(p.stderr, SuccessStyle.Render("Password(s) exported to "+p.opts.export))
	}

	if p.opts.copy {
		copyToClipboard(p, text)
	}

	return nil
}

// validateGenerateOptions applies the CLI limits, which are stricter than
// the generator's own class-count floor.
func validateGenerateOptions(opts generateOptions) error {
	var suggestion string
	quantityErr := generator.ValidateQuantity(opts.quantity)
	cause := quantityErr
	switch {
	case opts.length < config.MinLength:
		cause = &generator.InvalidLengthError{Length: opts.length, Minimum: config.MinLength}
		suggestion = fmt.Sprintf("Pass --length %d or more", config.MinLength)
	case quantityErr != nil:
		suggestion = fmt.Sprintf("Pass --quantity between 1 and %d", generator.MaxQuantity)
	default:
		return nil
	}

	return issue.NewErrorContext().
		WithOperation("generate passwords").
		WithSuggestion(suggestion).
		WithSuggestion("Check generate.* in 'pwdgen config show' when the flag was not given").
		WithIssue(issue.InvalidOptionsId).
		Wrap(cause).
		BuildError()
}

func copyToClipboard(p generateParams, text string) {
	method, err := p.clipboard.Copy(text)
	if err != nil {
		fmt.Fprintln(p.stderr, WarningStyle.Render("Warning: ")+"could not copy to clipboard: "+err.Error())
		if p.verbose {
			printIssue(p.stderr, issue.ClipboardUnavailableId, p.colorScheme)
		}
		return
	}
	slog.Debug("copied passwords", "method", method.String())
	fmt.Fprintln(p.stderr, SuccessStyle.Render("Password(s) copied to clipboard."))
}

// classifyGenerateExitCode maps a generation error to a process exit code.
// Invalid options and unusable export paths use exit code 1 (user-correctable);
// all other failures use exit code 2.
func classifyGenerateExitCode(err error) int {
	switch {
	case errors.Is(err, generator.ErrInvalidLength),
		errors.Is(err, generator.ErrInvalidQuantity),
		errors.Is(err, generator.ErrUnsupportedComplexity),
		errors.Is(err, output.ErrExportFileExists),
		errors.Is(err, output.ErrReservedExportName),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission):
		return 1
	default:
		return 2
	}
}
