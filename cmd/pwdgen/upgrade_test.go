// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ideatopia/pwdgen/internal/selfupdate"
	"github.com/ideatopia/pwdgen/internal/tui"
)

// releaseFeed serves pwdgen releases the way api.github.com does. Every
// release carries the three per-OS binaries, all with the same content.
type releaseFeed struct {
	srv      *httptest.Server
	releases []selfupdate.Release
	binary   string
	requests atomic.Int32

	// fail, when set, answers every request.
	fail http.HandlerFunc
}

func newReleaseFeed(t *testing.T) *releaseFeed {
	t.Helper()

	f := &releaseFeed{binary: "pwdgen release build"}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/ideatopia/password-generator/releases", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(f.releases)
	})
	mux.HandleFunc("GET /repos/ideatopia/password-generator/releases/tags/{tag}", func(w http.ResponseWriter, r *http.Request) {
		for _, rel := range f.releases {
			if rel.TagName == r.PathValue("tag") {
				_ = json.NewEncoder(w).Encode(rel)
				return
			}
		}
		http.NotFound(w, r)
	})
	mux.HandleFunc("GET /download/{tag}/{name}", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, f.binary)
	})

	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		if f.fail != nil {
			f.fail(w, r)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *releaseFeed) add(tag, notes string) {
	rel := selfupdate.Release{TagName: tag, Name: tag, Body: notes}
	for _, name := range []string{"pwdgen-ubuntu", "pwdgen-macos", "pwdgen-windows.exe"} {
		rel.Assets = append(rel.Assets, selfupdate.Asset{
			Name:        name,
			DownloadURL: f.srv.URL + "/download/" + tag + "/" + name,
		})
	}
	f.releases = append(f.releases, rel)
}

// updater returns an Updater for a release binary installed at a temporary
// path. Later options override the defaults.
func (f *releaseFeed) updater(t *testing.T, version string, opts ...selfupdate.UpdaterOption) (*selfupdate.Updater, string) {
	t.Helper()

	exe := filepath.Join(t.TempDir(), "pwdgen")
	if err := os.WriteFile(exe, []byte("pwdgen "+version), 0o755); err != nil {
		t.Fatal(err)
	}
	defaults := []selfupdate.UpdaterOption{
		selfupdate.WithClient(selfupdate.NewClient(selfupdate.WithBaseURL(f.srv.URL))),
		selfupdate.WithExecutable(exe),
		selfupdate.WithInstallMethod(selfupdate.InstallMethodRelease),
	}
	return selfupdate.NewUpdater(version, append(defaults, opts...)...), exe
}

func TestRunUpgrade(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		version string
		p       upgradeParams
		want    []string
		absent  []string
	}{
		{
			name:    "check reports the upgrade with its notes",
			version: "v1.0.0",
			p:       upgradeParams{check: true, notes: true},
			want: []string{
				"Current version: v1.0.0",
				"Latest version:  v1.1.0",
				"Upgrade available: v1.0.0 -> v1.1.0",
				"Release notes for v1.1.0",
				"faster batch generation",
				"Run 'pwdgen upgrade v1.1.0' to install.",
			},
		},
		{
			name:    "notes off",
			version: "v1.0.0",
			p:       upgradeParams{check: true},
			absent:  []string{"faster batch generation"},
		},
		{
			name:    "up to date",
			version: "v1.1.0",
			p:       upgradeParams{yes: true},
			want:    []string{"Already up to date."},
			absent:  []string{"Downloading"},
		},
		{
			name:    "pre-release ahead of the newest release",
			version: "v1.2.0-alpha.1",
			p:       upgradeParams{yes: true},
			want:    []string{"Running pre-release v1.2.0-alpha.1 (ahead of v1.1.0)."},
		},
		{
			name:    "explicit older version is a downgrade",
			version: "v1.1.0",
			p:       upgradeParams{target: "1.0.0", check: true},
			want:    []string{"Downgrade available: v1.1.0 -> v1.0.0"},
		},
		{
			name:    "explicit current version",
			version: "v1.1.0",
			p:       upgradeParams{target: "v1.1.0", yes: true},
			want:    []string{"Already running v1.1.0."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			feed := newReleaseFeed(t)
			feed.add("v1.0.0", "")
			feed.add("v1.1.0", "## Changes\n\n- faster batch generation\n")

			var stdout, stderr bytes.Buffer
			p := tt.p
			p.stdout, p.stderr = &stdout, &stderr
			p.updater, _ = feed.updater(t, tt.version)

			applied, err := runUpgrade(context.Background(), p)
			if err != nil {
				t.Fatalf("runUpgrade() error = %v", err)
			}
			if applied {
				t.Error("runUpgrade() replaced the binary")
			}
			for _, s := range tt.want {
				if !strings.Contains(stdout.String(), s) {
					t.Errorf("stdout %q does not contain %q", stdout.String(), s)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(stdout.String(), s) {
					t.Errorf("stdout %q contains %q", stdout.String(), s)
				}
			}
		})
	}
}

func TestRunUpgrade_Installs(t *testing.T) {
	t.Parallel()

	feed := newReleaseFeed(t)
	feed.add("v1.1.0", "")
	updater, exe := feed.updater(t, "v1.0.0")

	var stdout bytes.Buffer
	applied, err := runUpgrade(context.Background(), upgradeParams{stdout: &stdout, stderr: &stdout, updater: updater, yes: true})
	if err != nil {
		t.Fatalf("runUpgrade() error = %v", err)
	}
	if !applied {
		t.Error("runUpgrade() did not report the replacement")
	}
	if got, _ := os.ReadFile(exe); string(got) != feed.binary {
		t.Errorf("executable holds %q, want the release build", got)
	}
	if !strings.Contains(stdout.String(), "pwdgen v1.1.0 installed") {
		t.Errorf("stdout %q does not confirm the install", stdout.String())
	}
}

func TestRunUpgrade_ManagedInstall(t *testing.T) {
	t.Parallel()

	for method, command := range map[selfupdate.InstallMethod]string{
		selfupdate.InstallMethodHomebrew:  "brew upgrade pwdgen",
		selfupdate.InstallMethodGoInstall: "go install github.com/ideatopia/pwdgen@latest",
	} {
		feed := newReleaseFeed(t)
		feed.add("v1.1.0", "")
		updater, exe := feed.updater(t, "v1.0.0", selfupdate.WithInstallMethod(method))

		var stdout bytes.Buffer
		applied, err := runUpgrade(context.Background(), upgradeParams{stdout: &stdout, stderr: &stdout, updater: updater, yes: true})
		if err != nil || applied {
			t.Fatalf("%v: runUpgrade() = %v, %v", method, applied, err)
		}
		if !strings.Contains(stdout.String(), command) {
			t.Errorf("%v: stdout %q does not suggest %q", method, stdout.String(), command)
		}
		if got, _ := os.ReadFile(exe); string(got) != "pwdgen v1.0.0" {
			t.Errorf("%v: managed binary was rewritten", method)
		}
		if n := feed.requests.Load(); n != 0 {
			t.Errorf("%v: %d requests sent to GitHub", method, n)
		}
	}
}

func TestRunUpgrade_Failures(t *testing.T) {
	t.Parallel()

	rateLimited := func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "60")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10))
		w.WriteHeader(http.StatusForbidden)
	}
	serverError := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}

	tests := []struct {
		name     string
		version  string
		p        upgradeParams
		fail     http.HandlerFunc
		wantIs   error
		wantCode int
		advice   string
	}{
		{
			name:     "no terminal and no --yes",
			version:  "v1.0.0",
			p:        upgradeParams{prompt: tui.Config{Interactive: false}},
			wantIs:   tui.ErrNotInteractive,
			wantCode: 1,
			advice:   "pwdgen upgrade --yes",
		},
		{
			name:     "dev build",
			version:  "dev",
			p:        upgradeParams{yes: true},
			wantIs:   selfupdate.ErrInvalidVersion,
			wantCode: 1,
			advice:   "install a release",
		},
		{
			name:     "unknown version",
			version:  "v1.0.0",
			p:        upgradeParams{target: "v9.9.9", yes: true},
			wantIs:   selfupdate.ErrReleaseNotFound,
			wantCode: 1,
			advice:   "/releases",
		},
		{
			name:     "rate limited",
			version:  "v1.0.0",
			p:        upgradeParams{yes: true},
			fail:     rateLimited,
			wantCode: 2,
			advice:   "GITHUB_TOKEN",
		},
		{
			name:     "server error",
			version:  "v1.0.0",
			p:        upgradeParams{yes: true},
			fail:     serverError,
			wantCode: 2,
			advice:   "network connection",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			feed := newReleaseFeed(t)
			feed.add("v1.1.0", "")
			feed.fail = tt.fail

			var stdout bytes.Buffer
			p := tt.p
			p.stdout, p.stderr = &stdout, &stdout
			p.updater, _ = feed.updater(t, tt.version)

			applied, err := runUpgrade(context.Background(), p)
			if err == nil || applied {
				t.Fatalf("runUpgrade() = %v, %v; want a failure", applied, err)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("runUpgrade() error = %v, want %v", err, tt.wantIs)
			}
			if got := classifyUpgradeExitCode(err); got != tt.wantCode {
				t.Errorf("classifyUpgradeExitCode() = %d, want %d", got, tt.wantCode)
			}
			if got := formatUpgradeError(err); !strings.Contains(got, tt.advice) {
				t.Errorf("formatUpgradeError() = %q, want advice containing %q", got, tt.advice)
			}
		})
	}
}

func TestFormatUpgradeError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err      error
		wantCode int
		want     []string
	}{
		{
			err:      &selfupdate.ChecksumError{Filename: "pwdgen-macos", Expected: "aaaa", Got: "bbbb"},
			wantCode: 2,
			want:     []string{"pwdgen-macos", "Expected: aaaa", "Got:      bbbb", "corrupted"},
		},
		{
			err:      fmt.Errorf("%w: no release binary for freebsd", selfupdate.ErrUnsupportedPlatform),
			wantCode: 1,
			want:     []string{"freebsd", "go install github.com/ideatopia/pwdgen@latest"},
		},
		{
			err:      fmt.Errorf("installing new binary: %w", os.ErrPermission),
			wantCode: 1,
			want:     []string{"permission", "sudo pwdgen upgrade"},
		},
	}

	for _, tt := range tests {
		got := formatUpgradeError(tt.err)
		for _, s := range tt.want {
			if !strings.Contains(got, s) {
				t.Errorf("formatUpgradeError(%v) = %q, missing %q", tt.err, got, s)
			}
		}
		if code := classifyUpgradeExitCode(tt.err); code != tt.wantCode {
			t.Errorf("classifyUpgradeExitCode(%v) = %d, want %d", tt.err, code, tt.wantCode)
		}
	}
}
