package module

import (
	"github.com/opmodel/modkit/pkg/hierarchy"
)

// Collection is the module list of a single owner. Insertion order is kept and
// every first-match query follows it.
type Collection struct {
	owner   Owner
	cache   *hierarchy.Cache
	modules []Module
}

// NewCollection returns an empty collection for owner. The cache answers every
// hierarchy question; it is initialized on first use if it is not already.
func NewCollection(owner Owner, cache *hierarchy.Cache) *Collection {
	return &Collection{owner: owner, cache: cache}
}

// Owner returns the owner modules are attached to.
func (c *Collection) Owner() Owner {
	return c.owner
}

// Len returns the number of held modules.
func (c *Collection) Len() int {
	return len(c.modules)
}

// Modules returns a snapshot of the held modules in insertion order.
func (c *Collection) Modules() []Module {
	out := make([]Module, len(c.modules))
	copy(out, c.modules)
	return out
}

// Add attaches m under its own concrete type. See AddAs.
func (c *Collection) Add(m Module, check bool) bool {
	if m == nil {
		return false
	}
	return c.AddAs(m, m.ModuleType(), check)
}

// AddAs attaches m, treating typ as the requested type. typ must be m's type or
// one of its ancestors or interfaces.
//
// With check set, the add is rejected when a held module has the concrete type
// of m, or when a held module's concrete type is typ, an ancestor of typ or a
// descendant of typ. At most one module per hierarchy slot is held that way.
//
// It reports whether m was appended. A rejected add changes nothing.
func (c *Collection) AddAs(m Module, typ *hierarchy.Type, check bool) bool {
	if m == nil || typ == nil {
		return false
	}
	concrete := m.ModuleType()
	if !c.cache.IsAssignable(concrete, typ) {
		return false
	}

	if check {
		for _, held := range c.modules {
			existing := held.ModuleType()
			if existing == concrete || c.cache.Relate(existing, typ).Related() {
				return false
			}
		}
	}

	m.attach(c.owner)
	c.modules = append(c.modules, m)
	return true
}

// Remove detaches modules assignable to typ and returns how many it removed.
//
// With absolute set every match is removed, scanning from the back. Otherwise
// only the first match in insertion order is removed. Each removed module's
// OnRemove runs before it leaves the list.
func (c *Collection) Remove(typ *hierarchy.Type, absolute bool) int {
	if typ == nil {
		return 0
	}

	if !absolute {
		for i, m := range c.modules {
			if c.cache.IsAssignable(m.ModuleType(), typ) {
				m.OnRemove()
				c.detach(i)
				return 1
			}
		}
		return 0
	}

	removed := 0
	for i := len(c.modules) - 1; i >= 0; i-- {
		m := c.modules[i]
		if !c.cache.IsAssignable(m.ModuleType(), typ) {
			continue
		}
		m.OnRemove()
		c.detach(i)
		removed++
	}
	return removed
}

// RemoveWith is Remove with an explicit mode. An unknown mode fails with
// ErrInvalidArgument and removes nothing.
func (c *Collection) RemoveWith(typ *hierarchy.Type, mode RemoveMode) (int, error) {
	if err := mode.Validate(); err != nil {
		return 0, err
	}
	return c.Remove(typ, mode == RemoveAll), nil
}

// Get returns the first module matching typ, or nil. With direct set the
// module's concrete type must equal typ; otherwise any assignable module matches.
func (c *Collection) Get(typ *hierarchy.Type, direct bool) Module {
	if typ == nil {
		return nil
	}
	for _, m := range c.modules {
		if direct {
			if m.ModuleType() == typ {
				return m
			}
			continue
		}
		if c.cache.IsAssignable(m.ModuleType(), typ) {
			return m
		}
	}
	return nil
}

// TryGet is Get reporting whether a module was found.
func (c *Collection) TryGet(typ *hierarchy.Type, direct bool) (Module, bool) {
	m := c.Get(typ, direct)
	return m, m != nil
}

// Lookup is Get with an explicit match mode. A missing module is not an error:
// it returns nil, nil. An unknown mode fails with ErrInvalidArgument.
func (c *Collection) Lookup(typ *hierarchy.Type, mode MatchMode) (Module, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}
	return c.Get(typ, mode == MatchExact), nil
}

// Has reports whether any module is assignable to typ.
func (c *Collection) Has(typ *hierarchy.Type) bool {
	return c.Get(typ, false) != nil
}

func (c *Collection) detach(i int) {
	copy(c.modules[i:], c.modules[i+1:])
	c.modules[len(c.modules)-1] = nil
	c.modules = c.modules[:len(c.modules)-1]
}
