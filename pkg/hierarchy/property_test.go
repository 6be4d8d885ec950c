package hierarchy_test

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/opmodel/modkit/pkg/hierarchy"
)

// genForest declares a random class forest split across two domains. Each type's
// parent is drawn from the types declared before it, so both domains are valid,
// but children may land in a domain scanned before their parents.
func genForest(rt *rapid.T) ([]*hierarchy.Type, []*hierarchy.Domain) {
	n := rapid.IntRange(1, 40).Draw(rt, "n")
	left := hierarchy.NewDomain("left")
	right := hierarchy.NewDomain("right")

	types := make([]*hierarchy.Type, 0, n)
	for i := 0; i < n; i++ {
		var parent *hierarchy.Type
		if i > 0 && rapid.Bool().Draw(rt, fmt.Sprintf("hasParent%d", i)) {
			parent = types[rapid.IntRange(0, i-1).Draw(rt, fmt.Sprintf("parent%d", i))]
		}
		d := left
		if rapid.Bool().Draw(rt, fmt.Sprintf("right%d", i)) {
			d = right
		}
		types = append(types, d.MustClass(fmt.Sprintf("T%d", i), parent))
	}

	domains := []*hierarchy.Domain{left, right}
	if rapid.Bool().Draw(rt, "swap") {
		domains[0], domains[1] = domains[1], domains[0]
	}
	return types, domains
}

// naiveChain walks the parent links directly.
func naiveChain(t *hierarchy.Type) []*hierarchy.Type {
	var out []*hierarchy.Type
	for cur := t.Parent(); cur != nil; cur = cur.Parent() {
		out = append(out, cur)
	}
	return out
}

func TestCache_ChainProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		types, domains := genForest(rt)
		c := hierarchy.NewCache()
		c.Initialize(domains...)

		for _, typ := range types {
			chain := c.BaseTypes(typ)
			want := naiveChain(typ)

			if len(chain) != len(want) {
				rt.Fatalf("%s: chain length %d, want %d", typ, len(chain), len(want))
			}
			for i := range want {
				if chain[i] != want[i] {
					rt.Fatalf("%s: chain[%d] = %s, want %s", typ, i, chain[i], want[i])
				}
				if chain[i] == typ {
					rt.Fatalf("%s: chain contains itself", typ)
				}
			}
		}
	})
}

func TestCache_DerivedProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		types, domains := genForest(rt)
		c := hierarchy.NewCache()
		c.Initialize(domains...)

		for _, typ := range types {
			derived := c.DerivedTypes(typ)
			seen := make(map[*hierarchy.Type]bool, len(derived))
			for _, d := range derived {
				if seen[d] {
					rt.Fatalf("%s: derived set lists %s twice", typ, d)
				}
				seen[d] = true
			}

			// Every type whose chain contains typ must be in typ's derived set.
			for _, other := range types {
				inChain := false
				for _, a := range naiveChain(other) {
					if a == typ {
						inChain = true
						break
					}
				}
				if inChain != seen[other] {
					rt.Fatalf("%s derives from %s: %v, derived set says %v", other, typ, inChain, seen[other])
				}
			}
		}
	})
}

func TestCache_RelateIsAntisymmetric(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		types, domains := genForest(rt)
		c := hierarchy.NewCache()
		c.Initialize(domains...)

		a := rapid.SampledFrom(types).Draw(rt, "a")
		b := rapid.SampledFrom(types).Draw(rt, "b")

		ab, ba := c.Relate(a, b), c.Relate(b, a)
		switch ab {
		case hierarchy.RelationSame:
			if ba != hierarchy.RelationSame {
				rt.Fatalf("Relate(%s,%s)=same but reverse is %s", a, b, ba)
			}
		case hierarchy.RelationAncestor:
			if ba != hierarchy.RelationDescendant {
				rt.Fatalf("Relate(%s,%s)=ancestor but reverse is %s", a, b, ba)
			}
		case hierarchy.RelationDescendant:
			if ba != hierarchy.RelationAncestor {
				rt.Fatalf("Relate(%s,%s)=descendant but reverse is %s", a, b, ba)
			}
		default:
			if ba != hierarchy.RelationUnrelated {
				rt.Fatalf("Relate(%s,%s)=unrelated but reverse is %s", a, b, ba)
			}
		}
	})
}
