package scenario_test

import (
	"github.com/opmodel/modkit/pkg/hierarchy"
)

// testDomains mirrors the game manifests:
//
//	core: Object, Tickable (interface)
//	game: Damageable, Combat (interfaces), Component (module) <- Health (module) <- Shield
//	      Component <- Armor (module)
func testDomains() []*hierarchy.Domain {
	core := hierarchy.NewDomain("core")
	object := core.MustClass("Object", nil)
	tickable := core.MustInterface("Tickable")

	game := hierarchy.NewDomain("game")
	damageable := game.MustInterface("Damageable")
	combat := game.MustInterface("Combat", damageable)
	component := game.MustModuleClass("Component", object, tickable)
	health := game.MustModuleClass("Health", component, combat)
	game.MustClass("Shield", health)
	game.MustModuleClass("Armor", component)

	return []*hierarchy.Domain{core, game}
}

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }
