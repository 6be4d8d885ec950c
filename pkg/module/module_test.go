package module_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/opmodel/modkit/pkg/hierarchy"
	"github.com/opmodel/modkit/pkg/module"
)

func TestDynamic(t *testing.T) {
	var removedOwner module.Owner
	d := module.NewDynamic(derivedType, "hero", func(m *module.Dynamic) {
		removedOwner = m.Owner()
	})

	assert.Equal(t, "hero(Derived)", d.String())
	assert.Equal(t, "hero", d.Name())
	assert.Same(t, derivedType, d.ModuleType())

	c := module.NewCollection("O", newCache(t))
	require.True(t, c.Add(d, true))
	assert.Equal(t, 1, c.Remove(baseType, true))
	assert.Equal(t, "O", removedOwner)

	t.Run("nil hook", func(t *testing.T) {
		d := module.NewDynamic(plainType, "p", nil)
		assert.NotPanics(t, d.OnRemove)
	})
}

var classTypes = []*hierarchy.Type{baseType, derivedType, specialType, siblingType, plainType}

// TestCollection_Properties checks round-trip and slot uniqueness over random
// sequences of checked adds.
func TestCollection_Properties(t *testing.T) {
	cache := newCache(t)

	rapid.Check(t, func(rt *rapid.T) {
		c := module.NewCollection("O", cache)
		n := rapid.IntRange(1, 20).Draw(rt, "n")

		for i := 0; i < n; i++ {
			typ := rapid.SampledFrom(classTypes).Draw(rt, fmt.Sprintf("type%d", i))
			m := module.NewDynamic(typ, fmt.Sprintf("m%d", i), nil)
			before := c.Len()

			if c.Add(m, true) {
				if got := c.Get(typ, true); got == nil {
					rt.Fatalf("added %s but exact get misses", m)
				}
				if got := c.Get(typ, false); got == nil {
					rt.Fatalf("added %s but assignable get misses", m)
				}
				continue
			}
			if c.Len() != before {
				rt.Fatalf("rejected add of %s changed size", m)
			}
		}

		// No two held modules may be hierarchy-related.
		held := c.Modules()
		for i := range held {
			for j := range held {
				if i == j {
					continue
				}
				if cache.Relate(held[i].ModuleType(), held[j].ModuleType()).Related() {
					rt.Fatalf("%v and %v share a slot", held[i], held[j])
				}
			}
		}
	})
}
