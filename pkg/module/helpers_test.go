package module_test

import (
	"testing"

	"github.com/opmodel/modkit/pkg/hierarchy"
	"github.com/opmodel/modkit/pkg/module"
)

// Test domain:
//
//	Object <- Base (module, Contract) <- Derived (Tickable) <- Special
//	                                  <- Sibling
//	Object <- Plain (module)
var (
	testDomain = hierarchy.NewDomain("module_test")

	contractType = testDomain.MustInterface("Contract")
	tickableType = testDomain.MustInterface("Tickable")
	objectType   = testDomain.MustClass("Object", nil)
	baseType     = testDomain.MustModuleClass("Base", objectType, contractType)
	derivedType  = testDomain.MustClass("Derived", baseType, tickableType)
	specialType  = testDomain.MustClass("Special", derivedType)
	siblingType  = testDomain.MustClass("Sibling", baseType)
	plainType    = testDomain.MustModuleClass("Plain", objectType)
)

func newCache(t *testing.T) *hierarchy.Cache {
	t.Helper()
	c := hierarchy.NewCache()
	c.Initialize(testDomain)
	return c
}

type ticker interface {
	Tick() int
}

// baseModule counts hook calls and remembers the owner seen by the hook.
type baseModule struct {
	module.Base
	removed       int
	ownerAtRemove module.Owner
}

func (*baseModule) ModuleType() *hierarchy.Type { return baseType }

func (m *baseModule) OnRemove() {
	m.removed++
	m.ownerAtRemove = m.Owner()
}

type derivedModule struct {
	baseModule
	ticks int
}

func (*derivedModule) ModuleType() *hierarchy.Type { return derivedType }

func (m *derivedModule) Tick() int {
	m.ticks++
	return m.ticks
}

type specialModule struct {
	derivedModule
}

func (*specialModule) ModuleType() *hierarchy.Type { return specialType }

type siblingModule struct {
	baseModule
}

func (*siblingModule) ModuleType() *hierarchy.Type { return siblingType }

type plainModule struct {
	baseModule
}

func (*plainModule) ModuleType() *hierarchy.Type { return plainType }

// hookCounter is implemented by every test module.
type hookCounter interface {
	module.Module
	removals() int
}

func (m *baseModule) removals() int { return m.removed }
