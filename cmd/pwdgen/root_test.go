// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/ideatopia/pwdgen/internal/config"
	"github.com/ideatopia/pwdgen/internal/issue"
	"github.com/ideatopia/pwdgen/internal/output"
	"github.com/ideatopia/pwdgen/internal/selfupdate"
	"github.com/ideatopia/pwdgen/internal/tui"
)

// stubConfigProvider returns a fixed configuration or error.
type stubConfigProvider struct {
	cfg  *config.Config
	err  error
	seen []config.LoadOptions
}

func (s *stubConfigProvider) Load(_ context.Context, opts config.LoadOptions) (*config.Config, error) {
	s.seen = append(s.seen, opts)
	if s.err != nil {
		return nil, s.err
	}
	return s.cfg, nil
}

// commandHarness runs the root command against stub services.
type commandHarness struct {
	provider *stubConfigProvider
	clip     *fakeClipboard
	updater  *selfupdate.Updater // nil fails any run that asks for one
	stdout   bytes.Buffer
	stderr   bytes.Buffer
}

func newCommandHarness(t *testing.T, cfg *config.Config) *commandHarness {
	t.Helper()

	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	h := &commandHarness{
		provider: &stubConfigProvider{cfg: cfg},
		clip:     &fakeClipboard{method: output.CopyMethodSystem},
	}

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	return h
}

func (h *commandHarness) run(t *testing.T, args ...string) error {
	t.Helper()

	prompt := tui.Config{Interactive: false}
	app, err := NewApp(Dependencies{
		Config:    h.provider,
		Clipboard: func(*config.Config) ClipboardWriter { return h.clip },
		Updater: func(*config.Config) *selfupdate.Updater {
			if h.updater == nil {
				t.Fatal("updater must not be used")
			}
			return h.updater
		},
		Prompt: &prompt,
		Stdout: &h.stdout,
		Stderr: &h.stderr,
	})
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}

	root := newRootCommand(app)
	root.SetArgs(args)
	root.SetOut(&h.stdout)
	root.SetErr(&h.stderr)
	return root.ExecuteContext(context.Background())
}

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2025-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2025-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"

		if got := getVersionString(); got != "dev (built from source)" {
			t.Errorf("getVersionString() = %q, want %q", got, "dev (built from source)")
		}
	})
}

// The root command tests below are not parallel: each run installs the
// process-wide slog default.

func TestRootCommand_UsesConfiguredDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Generate.Length = 20
	cfg.Generate.Quantity = 2
	cfg.Generate.Complexity = "simple"
	h := newCommandHarness(t, cfg)

	if err := h.run(t); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	passwords := splitPasswords(h.stdout.String())
	if len(passwords) != 2 {
		t.Fatalf("got %d passwords, want 2: %q", len(passwords), h.stdout.String())
	}
	for _, pw := range passwords {
		if len(pw) != 20 || strings.ToLower(pw) != pw {
			t.Errorf("password %q is not a 20 character simple password", pw)
		}
	}
}

func TestRootCommand_FlagsOverrideConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Generate.Length = 40
	h := newCommandHarness(t, cfg)

	if err := h.run(t, "-l", "9", "-q", "3", "-c", "complex"); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	passwords := splitPasswords(h.stdout.String())
	if len(passwords) != 3 {
		t.Fatalf("got %d passwords, want 3", len(passwords))
	}
	for _, pw := range passwords {
		if len(pw) != 9 {
			t.Errorf("password %q has length %d, want 9", pw, len(pw))
		}
	}
}

func TestRootCommand_LengthBelowMinimum(t *testing.T) {
	h := newCommandHarness(t, nil)

	err := h.run(t, "--length", "4")

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("run() error = %v, want *ExitError", err)
	}
	if exitErr.Code != 1 {
		t.Errorf("exit code = %d, want 1", exitErr.Code)
	}
	if h.stdout.Len() != 0 {
		t.Errorf("passwords printed despite invalid length: %q", h.stdout.String())
	}
	if !strings.Contains(h.stderr.String(), "must be at least 8") {
		t.Errorf("stderr %q does not explain the minimum", h.stderr.String())
	}
}

func TestRootCommand_VerboseErrorPrintsGuide(t *testing.T) {
	h := newCommandHarness(t, nil)

	_ = h.run(t, "-v", "--quantity", "0")

	out := h.stderr.String()
	for _, want := range []string{"Error chain:", "Invalid generation options"} {
		if !strings.Contains(out, want) {
			t.Errorf("stderr %q does not contain %q", out, want)
		}
	}
}

func TestRootCommand_InvalidComplexityFlag(t *testing.T) {
	h := newCommandHarness(t, nil)

	err := h.run(t, "-c", "extreme")
	if err == nil {
		t.Fatal("run() succeeded with an unknown complexity")
	}
	if !strings.Contains(err.Error(), "unsupported complexity") {
		t.Errorf("run() error = %q, want unsupported complexity", err)
	}
}

func TestRootCommand_CopyAndHide(t *testing.T) {
	h := newCommandHarness(t, nil)

	if err := h.run(t, "--hide", "--copy"); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if h.stdout.Len() != 0 {
		t.Errorf("--hide printed %q", h.stdout.String())
	}
	if len(h.clip.text) != config.DefaultConfig().Generate.Length {
		t.Errorf("clipboard received %q", h.clip.text)
	}
	if !strings.Contains(h.stderr.String(), "copied to clipboard") {
		t.Errorf("stderr %q missing clipboard confirmation", h.stderr.String())
	}
}

func TestRootCommand_ConfigLoadFailureFallsBackToDefaults(t *testing.T) {
	h := newCommandHarness(t, nil)
	h.provider.err = issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource("broken.cue").
		WithSuggestion("Check that the file contains valid CUE syntax").
		Wrap(errors.New("generate.length: invalid value 3")).
		BuildError()

	if err := h.run(t, "--config", "broken.cue"); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if got := h.provider.seen[0].ConfigFilePath; got != "broken.cue" {
		t.Errorf("LoadOptions.ConfigFilePath = %q, want broken.cue", got)
	}
	if !strings.Contains(h.stderr.String(), "Warning") || !strings.Contains(h.stderr.String(), "broken.cue") {
		t.Errorf("stderr %q does not warn about the config", h.stderr.String())
	}
	if passwords := splitPasswords(h.stdout.String()); len(passwords) != 1 || len(passwords[0]) != 12 {
		t.Errorf("expected one default password, got %q", h.stdout.String())
	}
}

func TestRootCommand_RejectsArguments(t *testing.T) {
	h := newCommandHarness(t, nil)

	if err := h.run(t, "unexpected"); err == nil {
		t.Fatal("run() accepted a positional argument")
	}
}

func TestRootCommand_UpdateFromDevBuild(t *testing.T) {
	feed := newReleaseFeed(t)
	feed.add("v1.1.0", "")
	h := newCommandHarness(t, nil)
	h.updater, _ = feed.updater(t, "dev")

	err := h.run(t, "--update")

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("run() error = %v, want exit code 1", err)
	}
	if !errors.Is(err, selfupdate.ErrInvalidVersion) {
		t.Errorf("run() error = %v, want ErrInvalidVersion", err)
	}
	if h.stdout.Len() != 0 {
		t.Errorf("password printed after a failed update: %q", h.stdout.String())
	}
}

func TestRootCommand_UpdateManagedInstallStillGenerates(t *testing.T) {
	feed := newReleaseFeed(t)
	feed.add("v1.1.0", "")
	h := newCommandHarness(t, nil)
	h.updater, _ = feed.updater(t, "v1.0.0", selfupdate.WithInstallMethod(selfupdate.InstallMethodGoInstall))

	if err := h.run(t, "--update"); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if !strings.Contains(h.stderr.String(), "go install github.com/ideatopia/pwdgen@latest") {
		t.Errorf("stderr %q does not carry the go install guidance", h.stderr.String())
	}
	if passwords := splitPasswords(h.stdout.String()); len(passwords) != 1 || len(passwords[0]) != 12 {
		t.Errorf("stdout = %q, want one 12 character password", h.stdout.String())
	}
}

func TestRootCommand_UpdateAppliedSkipsGeneration(t *testing.T) {
	feed := newReleaseFeed(t)
	feed.add("v1.1.0", "")
	h := newCommandHarness(t, nil)
	var exe string
	h.updater, exe = feed.updater(t, "v1.0.0")

	if err := h.run(t, "--update"); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if h.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want nothing after an applied update", h.stdout.String())
	}
	if got, _ := os.ReadFile(exe); string(got) != feed.binary {
		t.Errorf("executable holds %q, want the release build", got)
	}
	if !strings.Contains(h.stderr.String(), "pwdgen v1.1.0 installed") {
		t.Errorf("stderr %q does not confirm the install", h.stderr.String())
	}
}
