package hierarchy

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidArgument is returned when a declaration or query argument is malformed.
var ErrInvalidArgument = errors.New("invalid argument")

// Universe is the default domain. Cache.Initialize scans it when called without
// explicit domains.
var Universe = NewDomain("universe")

// Domain is an ordered set of declared types. A parent or extended interface must
// be declared before the types that refer to it, so declaration order is always a
// valid topological order within a single domain.
type Domain struct {
	name string

	mu     sync.RWMutex
	types  []*Type
	byName map[string]*Type
}

// NewDomain creates an empty domain.
func NewDomain(name string) *Domain {
	return &Domain{
		name:   name,
		byName: make(map[string]*Type),
	}
}

// Name returns the domain name.
func (d *Domain) Name() string {
	return d.name
}

// Class declares a class with an optional parent and implemented interfaces.
func (d *Domain) Class(name string, parent *Type, ifaces ...*Type) (*Type, error) {
	return d.declare(name, KindClass, parent, ifaces, false)
}

// ModuleClass declares a class that satisfies the module contract.
func (d *Domain) ModuleClass(name string, parent *Type, ifaces ...*Type) (*Type, error) {
	return d.declare(name, KindClass, parent, ifaces, true)
}

// Interface declares an interface extending zero or more interfaces.
func (d *Domain) Interface(name string, extends ...*Type) (*Type, error) {
	return d.declare(name, KindInterface, nil, extends, false)
}

// MustClass is like Class but panics on error. Intended for package-level declarations.
func (d *Domain) MustClass(name string, parent *Type, ifaces ...*Type) *Type {
	return must(d.Class(name, parent, ifaces...))
}

// MustModuleClass is like ModuleClass but panics on error.
func (d *Domain) MustModuleClass(name string, parent *Type, ifaces ...*Type) *Type {
	return must(d.ModuleClass(name, parent, ifaces...))
}

// MustInterface is like Interface but panics on error.
func (d *Domain) MustInterface(name string, extends ...*Type) *Type {
	return must(d.Interface(name, extends...))
}

// Lookup returns the type declared under name.
func (d *Domain) Lookup(name string) (*Type, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.byName[name]
	return t, ok
}

// Types returns the declared types in declaration order.
func (d *Domain) Types() []*Type {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Type, len(d.types))
	copy(out, d.types)
	return out
}

// Len returns the number of declared types.
func (d *Domain) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.types)
}

func (d *Domain) declare(name string, kind Kind, parent *Type, ifaces []*Type, module bool) (*Type, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: type name is empty", ErrInvalidArgument)
	}
	if parent != nil && parent.kind != KindClass {
		return nil, fmt.Errorf("%w: %s: parent %s is not a class", ErrInvalidArgument, name, parent.name)
	}
	for _, iface := range ifaces {
		if iface == nil {
			return nil, fmt.Errorf("%w: %s: nil interface", ErrInvalidArgument, name)
		}
		if iface.kind != KindInterface {
			return nil, fmt.Errorf("%w: %s: %s is not an interface", ErrInvalidArgument, name, iface.name)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.byName[name]; exists {
		return nil, fmt.Errorf("%w: type %q already declared in domain %q", ErrInvalidArgument, name, d.name)
	}

	t := &Type{
		name:       name,
		kind:       kind,
		parent:     parent,
		interfaces: append([]*Type(nil), ifaces...),
		module:     module,
		domain:     d,
	}
	d.types = append(d.types, t)
	d.byName[name] = t
	return t, nil
}

func must(t *Type, err error) *Type {
	if err != nil {
		panic(err)
	}
	return t
}
