package cmd

import (
	"bytes"
	"testing"

	"github.com/opmodel/modkit/internal/testutil"
)

// execute runs the root command with args and returns what it wrote to its
// output stream.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// domainArgs returns --domain flags for the core and game fixtures.
func domainArgs(t *testing.T) []string {
	t.Helper()
	return []string{
		"--domain", testutil.ManifestFixture(t, "core.yaml"),
		"--domain", testutil.ManifestFixture(t, "game.yaml"),
	}
}

func withDomains(t *testing.T, args ...string) []string {
	t.Helper()
	return append(args, domainArgs(t)...)
}
