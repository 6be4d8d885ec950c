package manifest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/opmodel/modkit/internal/manifest"
	"github.com/opmodel/modkit/pkg/hierarchy"
)

func typeNames(types []*hierarchy.Type) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.Name()
	}
	return names
}

func TestBuild_AcrossDomains(t *testing.T) {
	domains, err := manifest.Build(load(t, "core.yaml"), load(t, "game.yaml"))
	require.NoError(t, err)
	require.Len(t, domains, 2)

	core, game := domains[0], domains[1]
	assert.Equal(t, "core", core.Name())
	assert.Equal(t, "game", game.Name())

	t.Run("references declared first", func(t *testing.T) {
		assert.Equal(t, []string{"Object", "Tickable"}, typeNames(core.Types()))
		assert.Equal(t, []string{"Component", "Damageable", "Combat", "Health", "Shield"}, typeNames(game.Types()))
	})

	object, _ := core.Lookup("Object")
	tickable, _ := core.Lookup("Tickable")
	component, _ := game.Lookup("Component")
	health, _ := game.Lookup("Health")
	shield, _ := game.Lookup("Shield")
	damageable, _ := game.Lookup("Damageable")

	t.Run("declarations", func(t *testing.T) {
		assert.Same(t, object, component.Parent())
		assert.Equal(t, []*hierarchy.Type{tickable}, component.Interfaces())
		assert.True(t, component.IsModule())
		assert.True(t, health.IsModule())
		assert.False(t, shield.IsModule())
		assert.True(t, damageable.IsInterface())
	})

	t.Run("cache over built domains", func(t *testing.T) {
		cache := hierarchy.NewCache()
		cache.Initialize(game, core)
		assert.Equal(t, []*hierarchy.Type{health, component, object}, cache.BaseTypes(shield))
		assert.True(t, cache.IsAssignable(shield, damageable))
		assert.True(t, cache.IsAssignable(shield, tickable))
		assert.Equal(t, hierarchy.RelationAncestor, cache.Relate(object, shield))
	})
}

func TestBuild_EveryFormatBuildsTheSameDomain(t *testing.T) {
	for _, name := range []string{"game.yaml", "game.json", "game.cue", "game.toml", "game.hcl"} {
		t.Run(name, func(t *testing.T) {
			domains, err := manifest.Build(load(t, "core.yaml"), load(t, name))
			require.NoError(t, err)
			assert.Equal(t, 5, domains[1].Len())
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name      string
		manifests []*manifest.Manifest
		wantType  field.ErrorType
		wantField string
	}{
		{
			name:      "unknown domain",
			manifests: []*manifest.Manifest{{Domain: "a", Types: []manifest.TypeDecl{{Name: "X", Parent: "b.Y"}}}},
			wantType:  field.ErrorTypeNotFound,
			wantField: "manifests[0].types[0].parent",
		},
		{
			name: "cross-domain kind mismatch",
			manifests: []*manifest.Manifest{
				{Domain: "a", Types: []manifest.TypeDecl{{Name: "I", Kind: "interface"}}},
				{Domain: "b", Types: []manifest.TypeDecl{{Name: "X", Parent: "a.I"}}},
			},
			wantType:  field.ErrorTypeInvalid,
			wantField: "manifests[1].types[0].parent",
		},
		{
			name: "duplicate domain",
			manifests: []*manifest.Manifest{
				{Domain: "a", Types: []manifest.TypeDecl{{Name: "X"}}},
				{Domain: "a", Types: []manifest.TypeDecl{{Name: "Y"}}},
			},
			wantType:  field.ErrorTypeDuplicate,
			wantField: "manifests[1].domain",
		},
		{
			name: "cross-domain cycle",
			manifests: []*manifest.Manifest{
				{Domain: "a", Types: []manifest.TypeDecl{{Name: "X", Parent: "b.Y"}}},
				{Domain: "b", Types: []manifest.TypeDecl{{Name: "Y", Parent: "a.X"}}},
			},
			wantType:  field.ErrorTypeInvalid,
			wantField: "manifests",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			domains, err := manifest.Build(tt.manifests...)
			assert.Nil(t, domains)
			errs := fieldErrors(t, err)
			require.NotEmpty(t, errs)
			assert.Equal(t, tt.wantType, errs[0].Type)
			assert.Equal(t, tt.wantField, errs[0].Field)
		})
	}

	t.Run("game without core", func(t *testing.T) {
		_, err := manifest.Build(load(t, "game.yaml"))
		errs := fieldErrors(t, err)
		assert.Len(t, errs, 2, "core.Object and core.Tickable")
	})

	t.Run("invalid manifest stops before resolution", func(t *testing.T) {
		_, err := manifest.Build(load(t, "cycle.yaml"))
		assert.Contains(t, err.Error(), "cycle.yaml")
	})
}
