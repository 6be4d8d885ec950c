package module

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/opmodel/modkit/pkg/hierarchy"
)

// Registry indexes the modules of many owners. A module added as type T is
// stored under every type in T's closure, so a query for any of those types is
// a map lookup.
type Registry struct {
	contract *hierarchy.Type
	policy   CleanupPolicy
	logger   *log.Logger

	closures map[*hierarchy.Type][]*hierarchy.Type
	owners   map[Owner]map[*hierarchy.Type][]Module
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithCleanupPolicy selects how RemoveModule cleans up. The default is
// CleanupClosure. An invalid policy is rejected by NewRegistry.
func WithCleanupPolicy(p CleanupPolicy) RegistryOption {
	return func(r *Registry) {
		r.policy = p
	}
}

// WithRegistryLogger sets a logger for index maintenance messages.
func WithRegistryLogger(logger *log.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry returns an empty registry.
//
// contract is the interface a type must implement to count as a module when the
// closure walks up through ancestors. With a nil contract, the module flag given
// at declaration (hierarchy.Domain.ModuleClass) decides instead. A contract that
// is not an interface fails with ErrInvalidArgument.
func NewRegistry(contract *hierarchy.Type, opts ...RegistryOption) (*Registry, error) {
	r := &Registry{
		contract: contract,
		policy:   CleanupClosure,
		closures: make(map[*hierarchy.Type][]*hierarchy.Type),
		owners:   make(map[Owner]map[*hierarchy.Type][]Module),
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.policy.Validate(); err != nil {
		return nil, err
	}
	if contract != nil && !contract.IsInterface() {
		return nil, fmt.Errorf("%w: contract %s is a %s, not an interface", ErrInvalidArgument, contract.Name(), contract.Kind())
	}
	return r, nil
}

// Policy returns the cleanup policy in effect.
func (r *Registry) Policy() CleanupPolicy {
	return r.policy
}

// Closure returns the index keys for typ: typ itself, every interface it
// implements, then each ancestor for as long as the ancestors satisfy the module
// contract. The result is memoized per type and must not be modified.
func (r *Registry) Closure(typ *hierarchy.Type) []*hierarchy.Type {
	if typ == nil {
		return nil
	}
	if keys, ok := r.closures[typ]; ok {
		return keys
	}

	keys := []*hierarchy.Type{typ}
	keys = append(keys, hierarchy.Interfaces(typ)...)
	for cur := typ.Parent(); cur != nil && r.satisfiesContract(cur); cur = cur.Parent() {
		keys = append(keys, cur)
	}

	r.closures[typ] = keys
	return keys
}

func (r *Registry) satisfiesContract(t *hierarchy.Type) bool {
	if r.contract == nil {
		return t.IsModule()
	}
	return hierarchy.Implements(t, r.contract)
}

// AddModule indexes m for owner under the closure of its concrete type.
func (r *Registry) AddModule(owner Owner, m Module) bool {
	if m == nil {
		return false
	}
	return r.AddModuleAs(owner, m, m.ModuleType())
}

// AddModuleAs indexes m for owner under the closure of typ, which must be m's
// type or one of its ancestors or interfaces. The registry does not reject
// duplicates: each add appends to the per-key lists.
func (r *Registry) AddModuleAs(owner Owner, m Module, typ *hierarchy.Type) bool {
	if m == nil || typ == nil || !hierarchy.Assignable(m.ModuleType(), typ) {
		return false
	}

	m.attach(owner)

	index, ok := r.owners[owner]
	if !ok {
		index = make(map[*hierarchy.Type][]Module)
		r.owners[owner] = index
	}

	keys := r.Closure(typ)
	for _, key := range keys {
		index[key] = append(index[key], m)
	}

	r.debug("module indexed", "owner", owner, "type", typ.Name(), "keys", len(keys))
	return true
}

// RemoveModule fires OnRemove for the modules of owner indexed under typ and
// returns how many hooks ran. Under CleanupClosure each distinct module is
// detached once even when it was indexed more than once. What happens to the
// other keys depends on the cleanup policy.
func (r *Registry) RemoveModule(owner Owner, typ *hierarchy.Type) int {
	index, ok := r.owners[owner]
	if !ok {
		return 0
	}
	list, ok := index[typ]
	if !ok {
		return 0
	}

	var fired int
	switch r.policy {
	case CleanupLegacy:
		for _, m := range list {
			m.OnRemove()
		}
		fired = len(list)
		for _, key := range r.Closure(typ) {
			delete(index, key)
		}
	default:
		removed := sets.New[Module]()
		for _, m := range list {
			if removed.Has(m) {
				continue
			}
			removed.Insert(m)
			m.OnRemove()
		}
		fired = removed.Len()
		r.purge(owner, index, removed)
	}

	r.debug("modules removed", "owner", owner, "type", typ.Name(), "count", fired, "policy", r.policy)
	return fired
}

// RemoveOwner fires OnRemove once for every distinct module of owner, drops the
// owner and returns how many hooks ran.
func (r *Registry) RemoveOwner(owner Owner) int {
	index, ok := r.owners[owner]
	if !ok {
		return 0
	}

	fired := sets.New[Module]()
	for _, key := range sortedKeys(index) {
		for _, m := range index[key] {
			if fired.Has(m) {
				continue
			}
			fired.Insert(m)
			m.OnRemove()
		}
	}

	delete(r.owners, owner)
	r.debug("owner removed", "owner", owner, "modules", fired.Len())
	return fired.Len()
}

// GetModuleUnsafe returns the first module indexed under typ for owner, or nil.
// It is a plain map lookup with no assignability check.
func (r *Registry) GetModuleUnsafe(owner Owner, typ *hierarchy.Type) Module {
	list := r.owners[owner][typ]
	if len(list) == 0 {
		return nil
	}
	return list[0]
}

// TryGetModule returns the first module indexed under typ for owner and whether
// one was found. AddModuleAs only stores a module under keys it is assignable
// to, so the assignability check here never fails for a registry populated
// through this API; it returns the same module as GetModuleUnsafe.
func (r *Registry) TryGetModule(owner Owner, typ *hierarchy.Type) (Module, bool) {
	m := r.GetModuleUnsafe(owner, typ)
	if m == nil || !hierarchy.Assignable(m.ModuleType(), typ) {
		return nil, false
	}
	return m, true
}

// GetModule returns the first module indexed under typ for owner, or nil.
func (r *Registry) GetModule(owner Owner, typ *hierarchy.Type) Module {
	m, _ := r.TryGetModule(owner, typ)
	return m
}

// HasModule reports whether owner has a module indexed under typ.
func (r *Registry) HasModule(owner Owner, typ *hierarchy.Type) bool {
	return len(r.owners[owner][typ]) > 0
}

// Modules returns the modules indexed under typ for owner, in insertion order.
func (r *Registry) Modules(owner Owner, typ *hierarchy.Type) []Module {
	list := r.owners[owner][typ]
	out := make([]Module, len(list))
	copy(out, list)
	return out
}

// Keys returns the types owner has modules indexed under, sorted by name.
func (r *Registry) Keys(owner Owner) []*hierarchy.Type {
	return sortedKeys(r.owners[owner])
}

// Owners returns every owner with an index entry. Order is unspecified.
func (r *Registry) Owners() []Owner {
	out := make([]Owner, 0, len(r.owners))
	for owner := range r.owners {
		out = append(out, owner)
	}
	return out
}

// Reset drops every owner without running any hooks. Memoized closures are kept.
func (r *Registry) Reset() {
	r.owners = make(map[Owner]map[*hierarchy.Type][]Module)
}

// purge drops the removed modules from every key of owner, then drops keys and
// the owner itself when nothing is left.
func (r *Registry) purge(owner Owner, index map[*hierarchy.Type][]Module, removed sets.Set[Module]) {
	for key, list := range index {
		kept := list[:0]
		for _, m := range list {
			if !removed.Has(m) {
				kept = append(kept, m)
			}
		}
		for i := len(kept); i < len(list); i++ {
			list[i] = nil
		}
		if len(kept) == 0 {
			delete(index, key)
			continue
		}
		index[key] = kept
	}
	if len(index) == 0 {
		delete(r.owners, owner)
	}
}

func sortedKeys(index map[*hierarchy.Type][]Module) []*hierarchy.Type {
	keys := make([]*hierarchy.Type, 0, len(index))
	for key := range index {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b *hierarchy.Type) int {
		if c := cmp.Compare(a.Name(), b.Name()); c != 0 {
			return c
		}
		return cmp.Compare(domainName(a), domainName(b))
	})
	return keys
}

func domainName(t *hierarchy.Type) string {
	if d := t.Domain(); d != nil {
		return d.Name()
	}
	return ""
}

func (r *Registry) debug(msg string, keyvals ...interface{}) {
	if r.logger != nil {
		r.logger.Debug(msg, keyvals...)
	}
}
