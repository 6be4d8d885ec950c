package hierarchy

import (
	"k8s.io/apimachinery/pkg/util/sets"
)

// Relation classifies how an existing type relates to a requested type.
type Relation uint8

const (
	// RelationUnrelated means neither type is in the other's ancestor chain.
	RelationUnrelated Relation = iota

	// RelationSame means both types are identical.
	RelationSame

	// RelationAncestor means the existing type is an ancestor of the requested type.
	RelationAncestor

	// RelationDescendant means the existing type derives from the requested type.
	RelationDescendant
)

// String returns the lowercase name of the relation.
func (r Relation) String() string {
	switch r {
	case RelationSame:
		return "same"
	case RelationAncestor:
		return "ancestor"
	case RelationDescendant:
		return "descendant"
	default:
		return "unrelated"
	}
}

// Related reports whether r is anything other than RelationUnrelated.
func (r Relation) Related() bool {
	return r != RelationUnrelated
}

// Relate classifies existing against requested using only class ancestry. The
// direction matters: RelationAncestor means existing sits above requested.
//
// Interfaces have empty ancestor chains, so an interface is only ever "same" as
// itself.
func (c *Cache) Relate(existing, requested *Type) Relation {
	switch {
	case existing == nil || requested == nil:
		return RelationUnrelated
	case existing == requested:
		return RelationSame
	case contains(c.BaseTypes(requested), existing):
		return RelationAncestor
	case contains(c.BaseTypes(existing), requested):
		// Equivalent to existing being in requested's derived set, without the copy.
		return RelationDescendant
	default:
		return RelationUnrelated
	}
}

// Interfaces returns every interface t implements: its own declared interfaces,
// the interfaces those extend, and the same for every ancestor. Nearest
// declarations come first; each interface appears once.
func Interfaces(t *Type) []*Type {
	if t == nil {
		return nil
	}

	seen := sets.New[*Type]()
	var out []*Type

	var visit func(iface *Type)
	visit = func(iface *Type) {
		if seen.Has(iface) {
			return
		}
		seen.Insert(iface)
		out = append(out, iface)
		for _, ext := range iface.interfaces {
			visit(ext)
		}
	}

	for cur := t; cur != nil; cur = cur.parent {
		if cur.kind == KindInterface {
			// An interface's declared list is what it extends.
			for _, ext := range cur.interfaces {
				visit(ext)
			}
			continue
		}
		for _, iface := range cur.interfaces {
			visit(iface)
		}
	}
	return out
}

// Assignable is the uncached form of Cache.IsAssignable. It walks parent links
// directly and is meant for one-off checks outside a cache's domains.
func Assignable(t, target *Type) bool {
	if t == nil || target == nil {
		return false
	}
	for cur := t; cur != nil; cur = cur.parent {
		if cur == target {
			return true
		}
	}
	return Implements(t, target)
}

// Implements reports whether t implements iface, directly or through an ancestor
// or an extended interface.
func Implements(t, iface *Type) bool {
	if t == nil || iface == nil || !iface.IsInterface() {
		return false
	}
	return contains(Interfaces(t), iface)
}
