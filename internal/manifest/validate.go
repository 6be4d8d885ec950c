package manifest

import (
	"fmt"
	"regexp"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation/field"

	oerrors "github.com/opmodel/modkit/internal/errors"
	"github.com/opmodel/modkit/pkg/hierarchy"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidationError collects every problem found in a set of manifests.
type ValidationError struct {
	// Source is the file the problems belong to. Empty for cross-manifest checks.
	Source string

	// Errs lists the problems by field path.
	Errs field.ErrorList
}

func (e *ValidationError) Error() string {
	msg := e.Errs.ToAggregate().Error()
	if e.Source != "" {
		return fmt.Sprintf("manifest %s: %s", e.Source, msg)
	}
	return "manifests: " + msg
}

// Unwrap lets callers match oerrors.ErrValidation.
func (e *ValidationError) Unwrap() error {
	return oerrors.ErrValidation
}

func newValidationError(source string, errs field.ErrorList) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Source: source, Errs: errs}
}

// Validate checks a single manifest in isolation: names, kinds, references
// within the manifest and cycles among them. Qualified references to other
// domains are checked by Build.
func Validate(m *Manifest) error {
	return newValidationError(m.Source, validate(m))
}

func validate(m *Manifest) field.ErrorList {
	var errs field.ErrorList

	if m.Domain == "" {
		errs = append(errs, field.Required(field.NewPath("domain"), ""))
	} else if !identRe.MatchString(m.Domain) {
		errs = append(errs, field.Invalid(field.NewPath("domain"), m.Domain, "must be an identifier"))
	}

	typesPath := field.NewPath("types")
	seen := make(map[string]int, len(m.Types))
	for i, t := range m.Types {
		p := typesPath.Index(i)

		switch {
		case t.Name == "":
			errs = append(errs, field.Required(p.Child("name"), ""))
		case !identRe.MatchString(t.Name):
			errs = append(errs, field.Invalid(p.Child("name"), t.Name, "must be an identifier"))
		default:
			if _, dup := seen[t.Name]; dup {
				errs = append(errs, field.Duplicate(p.Child("name"), t.Name))
			} else {
				seen[t.Name] = i
			}
		}

		kind, err := hierarchy.ParseKind(t.Kind)
		if err != nil {
			errs = append(errs, field.NotSupported(p.Child("kind"), t.Kind, []string{"class", "interface"}))
			continue
		}
		if kind == hierarchy.KindInterface {
			if t.Parent != "" {
				errs = append(errs, field.Forbidden(p.Child("parent"), "interfaces have no parent"))
			}
			if t.Module {
				errs = append(errs, field.Forbidden(p.Child("module"), "only classes can be modules"))
			}
		}
	}

	// Local references. Skip them when names are broken, the messages would
	// only repeat the same problem.
	if len(errs) > 0 {
		return errs
	}
	for i, t := range m.Types {
		p := typesPath.Index(i)
		if t.Parent != "" {
			errs = append(errs, checkLocalRef(m, p.Child("parent"), t.Parent, hierarchy.KindClass)...)
		}
		for j, ref := range t.Interfaces {
			errs = append(errs, checkLocalRef(m, p.Child("interfaces").Index(j), ref, hierarchy.KindInterface)...)
		}
	}
	if len(errs) > 0 {
		return errs
	}

	return append(errs, localCycles(m)...)
}

func checkLocalRef(m *Manifest, p *field.Path, ref string, want hierarchy.Kind) field.ErrorList {
	domain, name := splitRef(ref)
	if domain != "" && domain != m.Domain {
		return nil
	}
	if !identRe.MatchString(name) {
		return field.ErrorList{field.Invalid(p, ref, "must be a type name or domain.Type")}
	}
	decl, ok := m.Lookup(name)
	if !ok {
		return field.ErrorList{field.NotFound(p, ref)}
	}
	if kind, _ := hierarchy.ParseKind(decl.Kind); kind != want {
		return field.ErrorList{field.Invalid(p, ref, fmt.Sprintf("must refer to a %s", want))}
	}
	return nil
}

// localCycles reports each reference cycle within the manifest once, at the
// declaration where the walk closed it.
func localCycles(m *Manifest) field.ErrorList {
	edges := make(map[string][]string, len(m.Types))
	for _, t := range m.Types {
		for _, ref := range refs(t) {
			if domain, name := splitRef(ref); domain == "" || domain == m.Domain {
				edges[t.Name] = append(edges[t.Name], name)
			}
		}
	}

	index := make(map[string]int, len(m.Types))
	for i, t := range m.Types {
		index[t.Name] = i
	}

	var errs field.ErrorList
	state := make(map[string]visitState, len(m.Types))
	for _, t := range m.Types {
		if cycle := findCycle(t.Name, edges, state); cycle != nil {
			errs = append(errs, field.Invalid(field.NewPath("types").Index(index[cycle[0]]).Child("name"), cycle[0],
				"reference cycle: "+strings.Join(cycle, " -> ")))
		}
	}
	return errs
}

type visitState uint8

const (
	unvisited visitState = iota
	visiting
	visited
)

// findCycle walks from start and returns the first cycle it closes, as the
// path from the repeated node back to itself. Nodes on a reported cycle are
// marked visited so the cycle is reported once.
func findCycle[K comparable](start K, edges map[K][]K, state map[K]visitState) []K {
	var stack []K
	var walk func(n K) []K
	walk = func(n K) []K {
		switch state[n] {
		case visited:
			return nil
		case visiting:
			for i := range stack {
				if stack[i] == n {
					return append(append([]K(nil), stack[i:]...), n)
				}
			}
			return []K{n, n}
		}
		state[n] = visiting
		stack = append(stack, n)
		for _, next := range edges[n] {
			if c := walk(next); c != nil {
				state[n] = visited
				return c
			}
		}
		stack = stack[:len(stack)-1]
		state[n] = visited
		return nil
	}
	return walk(start)
}

func refs(t TypeDecl) []string {
	out := make([]string, 0, len(t.Interfaces)+1)
	if t.Parent != "" {
		out = append(out, t.Parent)
	}
	return append(out, t.Interfaces...)
}
