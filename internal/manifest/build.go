package manifest

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/opmodel/modkit/internal/output"
	"github.com/opmodel/modkit/pkg/hierarchy"
)

type typeKey struct {
	domain string
	name   string
}

func (k typeKey) String() string {
	return k.domain + "." + k.name
}

// Build declares the types of every manifest into one domain per manifest,
// returned in manifest order. References may cross manifests; the whole set is
// validated before anything is declared, so a failed Build declares nothing.
func Build(manifests ...*Manifest) ([]*hierarchy.Domain, error) {
	for _, m := range manifests {
		if err := Validate(m); err != nil {
			return nil, err
		}
	}

	b := &builder{
		decls: make(map[typeKey]TypeDecl),
		edges: make(map[typeKey][]typeKey),
	}
	if errs := b.index(manifests); len(errs) > 0 {
		return nil, newValidationError("", errs)
	}
	if errs := b.resolve(manifests); len(errs) > 0 {
		return nil, newValidationError("", errs)
	}

	order, errs := b.sort(manifests)
	if len(errs) > 0 {
		return nil, newValidationError("", errs)
	}

	domains := make([]*hierarchy.Domain, len(manifests))
	byName := make(map[string]*hierarchy.Domain, len(manifests))
	for i, m := range manifests {
		domains[i] = hierarchy.NewDomain(m.Domain)
		byName[m.Domain] = domains[i]
	}

	declared := make(map[typeKey]*hierarchy.Type, len(order))
	for _, k := range order {
		t, err := b.declare(byName[k.domain], k, declared)
		if err != nil {
			return nil, fmt.Errorf("declaring %s: %w", k, err)
		}
		declared[k] = t
	}

	for _, d := range domains {
		output.DomainLogger(d.Name()).Debug("domain declared", "types", d.Len())
	}
	return domains, nil
}

type builder struct {
	decls map[typeKey]TypeDecl
	edges map[typeKey][]typeKey

	// parent and ifaces hold resolved references per declaration.
	parent map[typeKey]typeKey
	ifaces map[typeKey][]typeKey
}

func (b *builder) index(manifests []*Manifest) field.ErrorList {
	var errs field.ErrorList
	seen := make(map[string]string, len(manifests))
	for i, m := range manifests {
		if prev, dup := seen[m.Domain]; dup {
			errs = append(errs, field.Duplicate(field.NewPath("manifests").Index(i).Child("domain"),
				fmt.Sprintf("%s (also in %s)", m.Domain, sourceName(prev))))
			continue
		}
		seen[m.Domain] = m.Source
		for _, t := range m.Types {
			b.decls[typeKey{m.Domain, t.Name}] = t
		}
	}
	return errs
}

func (b *builder) resolve(manifests []*Manifest) field.ErrorList {
	b.parent = make(map[typeKey]typeKey)
	b.ifaces = make(map[typeKey][]typeKey)

	var errs field.ErrorList
	for i, m := range manifests {
		typesPath := field.NewPath("manifests").Index(i).Child("types")
		for j, t := range m.Types {
			k := typeKey{m.Domain, t.Name}
			p := typesPath.Index(j)

			if t.Parent != "" {
				target, err := b.lookup(m.Domain, p.Child("parent"), t.Parent, hierarchy.KindClass)
				if err != nil {
					errs = append(errs, err)
				} else {
					b.parent[k] = target
					b.edges[k] = append(b.edges[k], target)
				}
			}
			for n, ref := range t.Interfaces {
				target, err := b.lookup(m.Domain, p.Child("interfaces").Index(n), ref, hierarchy.KindInterface)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				b.ifaces[k] = append(b.ifaces[k], target)
				b.edges[k] = append(b.edges[k], target)
			}
		}
	}
	return errs
}

func (b *builder) lookup(home string, p *field.Path, ref string, want hierarchy.Kind) (typeKey, *field.Error) {
	domain, name := splitRef(ref)
	if domain == "" {
		domain = home
	}
	k := typeKey{domain, name}
	decl, ok := b.decls[k]
	if !ok {
		return typeKey{}, field.NotFound(p, ref)
	}
	if kind, _ := hierarchy.ParseKind(decl.Kind); kind != want {
		return typeKey{}, field.Invalid(p, ref, fmt.Sprintf("must refer to a %s", want))
	}
	return k, nil
}

// sort returns every declaration with its references ahead of it. Ties keep
// manifest order and then file order.
func (b *builder) sort(manifests []*Manifest) ([]typeKey, field.ErrorList) {
	var errs field.ErrorList
	cycleState := make(map[typeKey]visitState, len(b.decls))
	for _, m := range manifests {
		for _, t := range m.Types {
			if cycle := findCycle(typeKey{m.Domain, t.Name}, b.edges, cycleState); cycle != nil {
				names := make([]string, len(cycle))
				for i, k := range cycle {
					names[i] = k.String()
				}
				errs = append(errs, field.Invalid(field.NewPath("manifests"), cycle[0].String(),
					"reference cycle: "+strings.Join(names, " -> ")))
			}
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	order := make([]typeKey, 0, len(b.decls))
	done := make(map[typeKey]bool, len(b.decls))
	var visit func(k typeKey)
	visit = func(k typeKey) {
		if done[k] {
			return
		}
		done[k] = true
		for _, dep := range b.edges[k] {
			visit(dep)
		}
		order = append(order, k)
	}
	for _, m := range manifests {
		for _, t := range m.Types {
			visit(typeKey{m.Domain, t.Name})
		}
	}
	return order, nil
}

func (b *builder) declare(d *hierarchy.Domain, k typeKey, declared map[typeKey]*hierarchy.Type) (*hierarchy.Type, error) {
	decl := b.decls[k]

	ifaces := make([]*hierarchy.Type, 0, len(b.ifaces[k]))
	for _, ik := range b.ifaces[k] {
		ifaces = append(ifaces, declared[ik])
	}

	if kind, _ := hierarchy.ParseKind(decl.Kind); kind == hierarchy.KindInterface {
		return d.Interface(decl.Name, ifaces...)
	}

	var parent *hierarchy.Type
	if pk, ok := b.parent[k]; ok {
		parent = declared[pk]
	}
	if decl.Module {
		return d.ModuleClass(decl.Name, parent, ifaces...)
	}
	return d.Class(decl.Name, parent, ifaces...)
}

func sourceName(source string) string {
	if source == "" {
		return "<inline>"
	}
	return source
}
