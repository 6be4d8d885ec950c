// Package testutil provides test helpers for CLI tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// RepoPath returns an absolute path under the module root, found by walking
// up from the working directory to the nearest go.mod.
func RepoPath(t *testing.T, parts ...string) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(append([]string{dir}, parts...)...)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find go.mod from %s", wd)
		}
		dir = parent
	}
}

// ManifestFixture returns the path of a manifest under internal/manifest/testdata.
func ManifestFixture(t *testing.T, name string) string {
	t.Helper()
	return RepoPath(t, "internal", "manifest", "testdata", name)
}

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// IsolateHome points HOME at a fresh temporary directory and clears every
// MODKIT_* override for the duration of the test. It returns the new home.
func IsolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"MODKIT_CONFIG", "MODKIT_DOMAINS", "MODKIT_MATCH", "MODKIT_CLEANUP", "MODKIT_LOG_TIMESTAMPS", "MODKIT_TRACING_EXPORTER"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return home
}
