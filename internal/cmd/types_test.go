package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/modkit/internal/errors"
	"github.com/opmodel/modkit/internal/testutil"
)

func TestTypesCmd_Subcommands(t *testing.T) {
	cmd := NewTypesCmd()
	var subs []string
	for _, c := range cmd.Commands() {
		subs = append(subs, c.Name())
		assert.NotEmpty(t, c.Short, c.Name())
	}
	assert.ElementsMatch(t, []string{"list", "bases", "derived", "relate", "tree", "closure", "diff"}, subs)
}

func TestTypesList(t *testing.T) {
	testutil.IsolateHome(t)

	t.Run("table", func(t *testing.T) {
		out, err := execute(t, withDomains(t, "types", "list")...)
		require.NoError(t, err)
		for _, name := range []string{"core.Object", "core.Tickable", "game.Shield", "game.Damageable"} {
			assert.Contains(t, out, name)
		}
	})

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, withDomains(t, "types", "list", "-o", "json")...)
		require.NoError(t, err)

		var infos []typeInfo
		require.NoError(t, json.Unmarshal([]byte(out), &infos))
		require.Len(t, infos, 7)
		assert.Equal(t, "core.Object", infos[0].Name)

		byName := make(map[string]typeInfo)
		for _, info := range infos {
			byName[info.Name] = info
		}
		health := byName["game.Health"]
		assert.Equal(t, "class", health.Kind)
		assert.Equal(t, "game.Component", health.Parent)
		assert.Equal(t, []string{"game.Combat"}, health.Interfaces)
		assert.True(t, health.Module)
		assert.Equal(t, "interface", byName["game.Combat"].Kind)
	})
}

func TestTypesBasesAndDerived(t *testing.T) {
	testutil.IsolateHome(t)

	out, err := execute(t, withDomains(t, "types", "bases", "game.Shield", "-o", "json")...)
	require.NoError(t, err)
	assert.Equal(t, []string{"game.Health", "game.Component", "core.Object"}, names(t, out))

	out, err = execute(t, withDomains(t, "types", "derived", "Component", "-o", "json")...)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"game.Health", "game.Shield"}, names(t, out))

	t.Run("interface has no bases", func(t *testing.T) {
		out, err := execute(t, withDomains(t, "types", "bases", "game.Combat")...)
		require.NoError(t, err)
		assert.Contains(t, out, "(none)")
	})
}

func names(t *testing.T, out string) []string {
	t.Helper()
	var infos []typeInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	got := make([]string, 0, len(infos))
	for _, info := range infos {
		got = append(got, info.Name)
	}
	return got
}

func TestTypesRelate(t *testing.T) {
	testutil.IsolateHome(t)

	tests := []struct {
		existing, requested string
		want                relation
	}{
		{"Component", "Shield", relation{Relation: "ancestor", Assignable: false}},
		{"Shield", "Component", relation{Relation: "descendant", Assignable: true}},
		{"Health", "Health", relation{Relation: "same", Assignable: true}},
		{"Health", "Damageable", relation{Relation: "unrelated", Assignable: true, Implements: true}},
		{"core.Object", "game.Combat", relation{Relation: "unrelated"}},
	}

	for _, tt := range tests {
		t.Run(tt.existing+" "+tt.requested, func(t *testing.T) {
			out, err := execute(t, withDomains(t, "types", "relate", tt.existing, tt.requested, "-o", "json")...)
			require.NoError(t, err)

			var got relation
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			assert.Equal(t, tt.want.Relation, got.Relation)
			assert.Equal(t, tt.want.Assignable, got.Assignable)
			assert.Equal(t, tt.want.Implements, got.Implements)
		})
	}

	t.Run("table", func(t *testing.T) {
		out, err := execute(t, withDomains(t, "types", "relate", "Health", "game.Combat")...)
		require.NoError(t, err)
		assert.Contains(t, out, "game.Health is")
		assert.Contains(t, out, "implements: yes")
	})
}

func TestTypesClosure(t *testing.T) {
	testutil.IsolateHome(t)

	t.Run("module flag", func(t *testing.T) {
		out, err := execute(t, withDomains(t, "types", "closure", "game.Shield", "-o", "json")...)
		require.NoError(t, err)
		assert.Equal(t,
			[]string{"game.Shield", "game.Combat", "game.Damageable", "core.Tickable", "game.Health", "game.Component"},
			names(t, out))
	})

	t.Run("contract", func(t *testing.T) {
		out, err := execute(t, withDomains(t, "types", "closure", "game.Shield", "--contract", "game.Combat", "-o", "json")...)
		require.NoError(t, err)
		assert.Equal(t,
			[]string{"game.Shield", "game.Combat", "game.Damageable", "core.Tickable", "game.Health"},
			names(t, out))
	})
	t.Run("class contract", func(t *testing.T) {
		_, err := execute(t, withDomains(t, "types", "closure", "game.Shield", "--contract", "game.Component")...)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not an interface")
		assert.Equal(t, oerrors.ExitInvalidArgument, oerrors.ExitCodeFromError(err))
	})
}

func TestTypesTree(t *testing.T) {
	testutil.IsolateHome(t)

	out, err := execute(t, withDomains(t, "types", "tree")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Classes")
	assert.Contains(t, out, "Interfaces")
	assert.Contains(t, out, "game.Shield")
	assert.Contains(t, out, "implements game.Combat")
	assert.Contains(t, out, "extends game.Damageable")
}

func TestTypesDiff(t *testing.T) {
	testutil.IsolateHome(t)

	t.Run("formats compare equal", func(t *testing.T) {
		out, err := execute(t, "types", "diff", "--color", "never",
			testutil.ManifestFixture(t, "game.yaml"), testutil.ManifestFixture(t, "game.toml"))
		require.NoError(t, err)
		assert.Contains(t, out, "No differences")
	})

	t.Run("changes are reported", func(t *testing.T) {
		out, err := execute(t, "types", "diff", "--color", "never",
			testutil.ManifestFixture(t, "game.yaml"), testutil.ManifestFixture(t, "game_v2.yaml"))
		require.NoError(t, err)
		assert.NotContains(t, out, "No differences")
		assert.Contains(t, out, "Summary: 1 added, 1 removed, 1 modified")
	})

	t.Run("summary lists types", func(t *testing.T) {
		out, err := execute(t, "types", "diff", "--summary",
			testutil.ManifestFixture(t, "game.yaml"), testutil.ManifestFixture(t, "game_v2.yaml"))
		require.NoError(t, err)
		assert.Contains(t, out, "Added:")
		assert.Contains(t, out, "Armor")
		assert.Contains(t, out, "Removed:")
		assert.Contains(t, out, "Shield")
		assert.Contains(t, out, "interfaces: [Combat] -> []")
	})

	t.Run("bad color", func(t *testing.T) {
		_, err := execute(t, "types", "diff", "--color", "rainbow", "a.yaml", "b.yaml")
		assert.Equal(t, oerrors.ExitInvalidArgument, oerrors.ExitCodeFromError(err))
	})
}

func TestTypes_Errors(t *testing.T) {
	testutil.IsolateHome(t)

	t.Run("no domains", func(t *testing.T) {
		_, err := execute(t, "types", "list")
		require.Error(t, err)
		assert.Equal(t, oerrors.ExitNotFound, oerrors.ExitCodeFromError(err))
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := execute(t, withDomains(t, "types", "bases", "game.Missing")...)
		require.Error(t, err)
		assert.Equal(t, oerrors.ExitNotFound, oerrors.ExitCodeFromError(err))
	})

	t.Run("invalid manifest", func(t *testing.T) {
		_, err := execute(t, "types", "list", "--domain", testutil.ManifestFixture(t, "cycle.yaml"))
		require.Error(t, err)

		var exitErr *oerrors.ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, oerrors.ExitValidationError, exitErr.Code)
		assert.True(t, exitErr.Printed)
	})

	t.Run("wrong argument count", func(t *testing.T) {
		_, err := execute(t, withDomains(t, "types", "relate", "Health")...)
		assert.Error(t, err)
	})
}
