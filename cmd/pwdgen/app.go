// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/ideatopia/pwdgen/internal/config"
	"github.com/ideatopia/pwdgen/internal/output"
	"github.com/ideatopia/pwdgen/internal/selfupdate"
	"github.com/ideatopia/pwdgen/internal/tui"
)

type (
	// App wires CLI services and shared dependencies. Cobra handlers receive an
	// App reference and reach configuration, the clipboard and the updater
	// through it.
	App struct {
		Config    ConfigProvider
		Clipboard ClipboardFactory
		Updater   UpdaterFactory
		Prompt    tui.Config
		stdout    io.Writer
		stderr    io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config    ConfigProvider
		Clipboard ClipboardFactory
		Updater   UpdaterFactory
		Prompt    *tui.Config
		Stdout    io.Writer
		Stderr    io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// ClipboardWriter places text on a clipboard.
	ClipboardWriter interface {
		Copy(text string) (output.CopyMethod, error)
	}

	// ClipboardFactory builds the clipboard sink for the loaded configuration.
	ClipboardFactory func(cfg *config.Config) ClipboardWriter

	// UpdaterFactory builds the self-updater for the loaded configuration.
	UpdaterFactory func(cfg *config.Config) *selfupdate.Updater
)

// NewApp creates the CLI application, filling unset dependencies with
// production implementations.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Clipboard == nil {
		deps.Clipboard = defaultClipboard
	}
	if deps.Updater == nil {
		deps.Updater = defaultUpdater
	}
	prompt := tui.DefaultConfig()
	if deps.Prompt != nil {
		prompt = *deps.Prompt
	}

	return &App{
		Config:    deps.Config,
		Clipboard: deps.Clipboard,
		Updater:   deps.Updater,
		Prompt:    prompt,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
	}, nil
}

func defaultClipboard(cfg *config.Config) ClipboardWriter {
	return output.NewClipboard(output.WithOSC52Fallback(cfg.Output.OSC52Fallback))
}

// defaultUpdater points the GitHub client at the configured repository and
// authenticates with GITHUB_TOKEN when it is set (5000 requests/hour instead of 60).
func defaultUpdater(cfg *config.Config) *selfupdate.Updater {
	clientOpts := []selfupdate.ClientOption{
		selfupdate.WithUserAgent(config.AppName + "/" + Version),
		selfupdate.WithRepo(cfg.Update.Owner.String(), cfg.Update.Repo.String()),
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		clientOpts = append(clientOpts, selfupdate.WithToken(token))
	}

	return selfupdate.NewUpdater(Version, selfupdate.WithClient(selfupdate.NewClient(clientOpts...)))
}
