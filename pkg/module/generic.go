package module

import "github.com/opmodel/modkit/pkg/hierarchy"

// GetAs returns the first module in c matching typ, asserted to T. The zero T is
// returned when nothing matches or the match is not a T.
func GetAs[T any](c *Collection, typ *hierarchy.Type, direct bool) T {
	v, _ := TryGetAs[T](c, typ, direct)
	return v
}

// TryGetAs is GetAs reporting whether a T was found.
func TryGetAs[T any](c *Collection, typ *hierarchy.Type, direct bool) (T, bool) {
	var zero T
	m := c.Get(typ, direct)
	if m == nil {
		return zero, false
	}
	v, ok := m.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// RegistryGetAs returns the first module of owner indexed under typ, asserted
// to T.
func RegistryGetAs[T any](r *Registry, owner Owner, typ *hierarchy.Type) (T, bool) {
	var zero T
	m, ok := r.TryGetModule(owner, typ)
	if !ok {
		return zero, false
	}
	v, ok := m.(T)
	if !ok {
		return zero, false
	}
	return v, true
}
