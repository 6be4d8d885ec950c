// Package module attaches typed capability objects to owners and retrieves them
// by any type in their hierarchy.
//
// Two storage designs share the same Module contract. A Collection belongs to a
// single owner and scans its ordered list using hierarchy queries. A Registry
// serves many owners and indexes each module under every type in its closure, so
// queries are plain map lookups.
//
// Neither design synchronizes internally. Callers serialize Add, Remove and Get
// calls per owner.
package module

import (
	"github.com/opmodel/modkit/pkg/hierarchy"
)

// Owner identifies the entity modules are attached to. It must be comparable.
type Owner = any

// Module is a capability attached to exactly one owner.
//
// The interface is sealed: implementations embed Base, which is the only way to
// satisfy the unexported attach method.
type Module interface {
	// ModuleType returns the concrete declared type of the module.
	ModuleType() *hierarchy.Type

	// Owner returns the owner recorded at attach time, or nil before attach.
	Owner() Owner

	// OnRemove is called exactly once per detachment, before the module is
	// dropped. Owner is still readable while it runs.
	OnRemove()

	attach(owner Owner)
}

// Base provides the owner back-reference and a no-op removal hook. Embed it in
// module types and use them through pointers.
type Base struct {
	owner    Owner
	attached bool
}

// Owner returns the owner this module was first attached to.
func (b *Base) Owner() Owner {
	return b.owner
}

// Attached reports whether an owner has been recorded.
func (b *Base) Attached() bool {
	return b.attached
}

// OnRemove does nothing. Override it to react to detachment.
func (b *Base) OnRemove() {}

// attach records owner the first time only; re-attaching an instance elsewhere
// keeps the original owner.
func (b *Base) attach(owner Owner) {
	if b.attached {
		return
	}
	b.owner = owner
	b.attached = true
}

// Dynamic is a module whose type is chosen at construction time. It backs
// modules built from data, such as scenario files, where no Go type exists per
// declared type.
type Dynamic struct {
	Base

	typ      *hierarchy.Type
	name     string
	onRemove func(*Dynamic)
}

// NewDynamic creates a module of the given declared type. onRemove may be nil.
func NewDynamic(typ *hierarchy.Type, name string, onRemove func(*Dynamic)) *Dynamic {
	return &Dynamic{typ: typ, name: name, onRemove: onRemove}
}

// ModuleType returns the declared type.
func (d *Dynamic) ModuleType() *hierarchy.Type {
	return d.typ
}

// Name returns the instance name given at construction.
func (d *Dynamic) Name() string {
	return d.name
}

// OnRemove runs the callback given at construction.
func (d *Dynamic) OnRemove() {
	if d.onRemove != nil {
		d.onRemove(d)
	}
}

// String returns "name(Type)".
func (d *Dynamic) String() string {
	return d.name + "(" + d.typ.Name() + ")"
}
