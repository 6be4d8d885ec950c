package manifest

import (
	"fmt"
	"strings"

	"github.com/opmodel/modkit/pkg/hierarchy"
)

// TypeIndex resolves type references against a set of domains. A reference
// is "domain.Type", or a bare name that must be unique across the domains.
type TypeIndex struct {
	qualified map[string]*hierarchy.Type
	bare      map[string][]*hierarchy.Type
}

// NewTypeIndex indexes every type of the given domains.
func NewTypeIndex(domains ...*hierarchy.Domain) *TypeIndex {
	idx := &TypeIndex{
		qualified: make(map[string]*hierarchy.Type),
		bare:      make(map[string][]*hierarchy.Type),
	}
	for _, d := range domains {
		for _, t := range d.Types() {
			idx.qualified[d.Name()+"."+t.Name()] = t
			idx.bare[t.Name()] = append(idx.bare[t.Name()], t)
		}
	}
	return idx
}

// Resolve returns the type named by ref.
func (idx *TypeIndex) Resolve(ref string) (*hierarchy.Type, error) {
	if strings.Contains(ref, ".") {
		if t, ok := idx.qualified[ref]; ok {
			return t, nil
		}
		return nil, fmt.Errorf("unknown type %q", ref)
	}

	switch matches := idx.bare[ref]; len(matches) {
	case 0:
		return nil, fmt.Errorf("unknown type %q", ref)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, t := range matches {
			names[i] = t.Domain().Name() + "." + t.Name()
		}
		return nil, fmt.Errorf("type %q is ambiguous, use one of %s", ref, strings.Join(names, ", "))
	}
}

// Qualified returns the "domain.Type" form of t.
func Qualified(t *hierarchy.Type) string {
	if t == nil {
		return ""
	}
	if d := t.Domain(); d != nil {
		return d.Name() + "." + t.Name()
	}
	return t.Name()
}
