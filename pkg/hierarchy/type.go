// Package hierarchy describes type shapes and answers ancestry questions about them.
//
// A Type is an opaque identifier with an explicitly declared parent and interface
// set. Nothing is discovered at runtime: every relation is declared up front through
// a Domain, and a Cache memoizes ancestor chains and reverse derived-type sets for
// the types of one or more domains.
package hierarchy

import "fmt"

// Kind distinguishes class shapes from interface shapes.
type Kind uint8

const (
	// KindClass is a concrete or abstract class with at most one parent.
	KindClass Kind = iota + 1

	// KindInterface is an interface that may extend other interfaces.
	KindInterface
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind parses "class" or "interface".
func ParseKind(s string) (Kind, error) {
	switch s {
	case "class", "":
		return KindClass, nil
	case "interface":
		return KindInterface, nil
	default:
		return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidArgument, s)
	}
}

// Type is a declared class or interface. Types are compared by pointer identity.
type Type struct {
	name       string
	kind       Kind
	parent     *Type
	interfaces []*Type
	module     bool
	domain     *Domain
}

// Name returns the declared name.
func (t *Type) Name() string {
	if t == nil {
		return "<nil>"
	}
	return t.name
}

// String implements fmt.Stringer.
func (t *Type) String() string {
	return t.Name()
}

// Kind returns whether t is a class or an interface.
func (t *Type) Kind() Kind {
	return t.kind
}

// IsInterface reports whether t is an interface.
func (t *Type) IsInterface() bool {
	return t != nil && t.kind == KindInterface
}

// Parent returns the immediate parent class, or nil for roots and interfaces.
func (t *Type) Parent() *Type {
	return t.parent
}

// Interfaces returns the directly declared interfaces. For an interface this is
// the set of interfaces it extends.
func (t *Type) Interfaces() []*Type {
	out := make([]*Type, len(t.interfaces))
	copy(out, t.interfaces)
	return out
}

// IsModule reports whether t satisfies the module contract. A class is a module
// when it was declared as one or when any ancestor was.
func (t *Type) IsModule() bool {
	for cur := t; cur != nil; cur = cur.parent {
		if cur.module {
			return true
		}
	}
	return false
}

// Domain returns the domain t was declared in.
func (t *Type) Domain() *Domain {
	return t.domain
}
