package manifest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/modkit/internal/manifest"
	"github.com/opmodel/modkit/pkg/hierarchy"
)

func indexDomains() []*hierarchy.Domain {
	core := hierarchy.NewDomain("core")
	core.MustClass("Object", nil)
	game := hierarchy.NewDomain("game")
	game.MustModuleClass("Health", nil)
	return []*hierarchy.Domain{core, game}
}

func TestTypeIndex(t *testing.T) {
	domains := indexDomains()
	idx := manifest.NewTypeIndex(domains...)

	health, err := idx.Resolve("Health")
	require.NoError(t, err)
	assert.Equal(t, "game.Health", manifest.Qualified(health))

	object, err := idx.Resolve("core.Object")
	require.NoError(t, err)
	assert.Equal(t, "Object", object.Name())

	_, err = idx.Resolve("game.Object")
	assert.ErrorContains(t, err, "unknown type")

	_, err = idx.Resolve("Nope")
	assert.ErrorContains(t, err, "unknown type")

	t.Run("ambiguous bare name", func(t *testing.T) {
		extra := hierarchy.NewDomain("extra")
		extra.MustClass("Health", nil)
		idx := manifest.NewTypeIndex(append(domains, extra)...)
		_, err := idx.Resolve("Health")
		assert.ErrorContains(t, err, "ambiguous")
		assert.ErrorContains(t, err, "extra.Health")

		_, err = idx.Resolve("extra.Health")
		assert.NoError(t, err)
	})
}
