// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// restoreEnv records the current state of key and returns a func that puts
// it back, unsetting key if it was unset.
func restoreEnv(t testing.TB, key string) func() {
	prev, had := os.LookupEnv(key)
	return func() {
		var err error
		if had {
			err = os.Setenv(key, prev)
		} else {
			err = os.Unsetenv(key)
		}
		if err != nil {
			t.Errorf("restoring %s: %v", key, err)
		}
	}
}

// MustSetenv sets key to value and returns the func restoring it, meant for
// t.Cleanup. Unlike t.Setenv it can be called from helpers shared with
// benchmarks.
func MustSetenv(t testing.TB, key, value string) func() {
	t.Helper()
	restore := restoreEnv(t, key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("setting %s: %v", key, err)
	}
	return restore
}

// MustUnsetenv is MustSetenv for removing key.
func MustUnsetenv(t testing.TB, key string) func() {
	t.Helper()
	restore := restoreEnv(t, key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unsetting %s: %v", key, err)
	}
	return restore
}

// MustChdir enters dir and returns the func going back.
func MustChdir(t testing.TB, dir string) func() {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	return func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("chdir back to %s: %v", prev, err)
		}
	}
}

// MustWriteFile creates dir/name holding data and returns its path.
func MustWriteFile(t testing.TB, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func MustReadFile(t testing.TB, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
