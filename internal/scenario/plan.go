package scenario

import (
	"fmt"

	"github.com/google/uuid"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation/field"

	oerrors "github.com/opmodel/modkit/internal/errors"
	"github.com/opmodel/modkit/internal/manifest"
	"github.com/opmodel/modkit/pkg/hierarchy"
	"github.com/opmodel/modkit/pkg/module"
)

// ownerNamespace scopes owner UUIDs so the same owner name maps to the same
// UUID in every run.
var ownerNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://opmodel.dev/modkit/owners"))

// OwnerID returns the deterministic owner UUID for name.
func OwnerID(name string) uuid.UUID {
	return uuid.NewSHA1(ownerNamespace, []byte(name))
}

// plan is a scenario with every reference resolved.
type plan struct {
	contract *hierarchy.Type
	cleanup  module.CleanupPolicy
	steps    []plannedStep
}

type plannedStep struct {
	Step
	owner uuid.UUID
	typ   *hierarchy.Type
	as    *hierarchy.Type
	check bool
	mode  module.RemoveMode
	match module.MatchMode
}

// Validate resolves s against idx without running it.
func Validate(s *Scenario, idx *manifest.TypeIndex) error {
	_, err := newPlan(s, idx, module.MatchAssignable, module.CleanupClosure)
	return err
}

func newPlan(s *Scenario, idx *manifest.TypeIndex, defaultMatch module.MatchMode, defaultCleanup module.CleanupPolicy) (*plan, error) {
	var errs field.ErrorList
	p := &plan{cleanup: defaultCleanup}

	if s.Name == "" {
		errs = append(errs, field.Required(field.NewPath("name"), ""))
	}

	registry := s.Target == TargetRegistry
	switch s.Target {
	case TargetCollection:
		if s.Contract != "" {
			errs = append(errs, field.Forbidden(field.NewPath("contract"), "only registry scenarios have a contract"))
		}
		if s.Cleanup != "" {
			errs = append(errs, field.Forbidden(field.NewPath("cleanup"), "only registry scenarios have a cleanup policy"))
		}
	case TargetRegistry:
		if s.Contract != "" {
			t, err := idx.Resolve(s.Contract)
			switch {
			case err != nil:
				errs = append(errs, field.Invalid(field.NewPath("contract"), s.Contract, err.Error()))
			case !t.IsInterface():
				errs = append(errs, field.Invalid(field.NewPath("contract"), s.Contract, "must be an interface"))
			default:
				p.contract = t
			}
		}
		if s.Cleanup != "" {
			policy, err := module.ParseCleanupPolicy(s.Cleanup)
			if err != nil {
				errs = append(errs, field.NotSupported(field.NewPath("cleanup"), s.Cleanup, module.ValidCleanupPolicies()))
			} else {
				p.cleanup = policy
			}
		}
	default:
		errs = append(errs, field.NotSupported(field.NewPath("target"), s.Target,
			[]string{string(TargetCollection), string(TargetRegistry)}))
	}

	owners := sets.New[string]()
	if len(s.Owners) == 0 {
		errs = append(errs, field.Required(field.NewPath("owners"), ""))
	}
	for i, o := range s.Owners {
		if owners.Has(o) {
			errs = append(errs, field.Duplicate(field.NewPath("owners").Index(i), o))
		}
		owners.Insert(o)
	}

	for i, st := range s.Steps {
		ps, stepErrs := planStep(field.NewPath("steps").Index(i), st, idx, owners, registry, defaultMatch)
		errs = append(errs, stepErrs...)
		p.steps = append(p.steps, ps)
	}

	if len(errs) > 0 {
		return nil, oerrors.NewValidationError(
			fmt.Sprintf("invalid scenario: %s", errs.ToAggregate()), s.Name, "", "")
	}
	return p, nil
}

func planStep(path *field.Path, st Step, idx *manifest.TypeIndex, owners sets.Set[string], registry bool, defaultMatch module.MatchMode) (plannedStep, field.ErrorList) {
	var errs field.ErrorList
	ps := plannedStep{Step: st, check: true, mode: module.RemoveAll, match: defaultMatch}

	if !owners.Has(st.Owner) {
		errs = append(errs, field.NotFound(path.Child("owner"), st.Owner))
	}
	ps.owner = OwnerID(st.Owner)

	resolve := func(child, ref string) *hierarchy.Type {
		t, err := idx.Resolve(ref)
		if err != nil {
			errs = append(errs, field.Invalid(path.Child(child), ref, err.Error()))
		}
		return t
	}
	forbid := func(set bool, child, detail string) {
		if set {
			errs = append(errs, field.Forbidden(path.Child(child), detail))
		}
	}

	switch st.Op {
	case OpAdd, OpRemove, OpGet, OpHas:
		if st.Type == "" {
			errs = append(errs, field.Required(path.Child("type"), ""))
		} else {
			ps.typ = resolve("type", st.Type)
		}
	case OpRemoveOwner:
		forbid(!registry, "op", "remove-owner needs the registry target")
		forbid(st.Type != "", "type", "remove-owner takes no type")
	default:
		errs = append(errs, field.NotSupported(path.Child("op"), st.Op, ValidOps()))
		return ps, errs
	}

	forbid(st.Op != OpAdd && st.Module != "", "module", "only add creates modules")
	forbid(st.Op != OpAdd && st.As != "", "as", "only add takes a requested type")
	forbid(st.Op != OpAdd && st.Check != nil, "check", "only add takes a duplicate check")
	forbid(st.Op != OpRemove && st.Mode != "", "mode", "only remove takes a mode")
	forbid(st.Op != OpGet && st.Match != "", "match", "only get takes a match mode")
	forbid(st.Op != OpGet && st.Raw, "raw", "only get reads raw entries")

	switch st.Op {
	case OpAdd:
		if st.Module == "" {
			errs = append(errs, field.Required(path.Child("module"), ""))
		}
		ps.as = ps.typ
		if st.As != "" {
			ps.as = resolve("as", st.As)
		}
		if st.Check != nil {
			forbid(registry, "check", "the registry has no duplicate check")
			ps.check = *st.Check
		}
	case OpRemove:
		if st.Mode != "" {
			forbid(registry, "mode", "registry removal follows the cleanup policy")
			mode, err := module.ParseRemoveMode(st.Mode)
			if err != nil {
				errs = append(errs, field.NotSupported(path.Child("mode"), st.Mode, module.ValidRemoveModes()))
			}
			ps.mode = mode
		}
	case OpGet:
		if st.Match != "" {
			forbid(registry, "match", "registry lookups are keyed")
			match, err := module.ParseMatchMode(st.Match)
			if err != nil {
				errs = append(errs, field.NotSupported(path.Child("match"), st.Match, module.ValidMatchModes()))
			}
			ps.match = match
		}
		forbid(st.Raw && !registry, "raw", "only registry lookups can be raw")
	}

	if e := st.Expect; e != nil {
		forbid(e.Count != nil && st.Op != OpRemove && st.Op != OpRemoveOwner, "expect.count", "only removals count modules")
		forbid(e.Module != nil && st.Op != OpGet, "expect.module", "only get returns a module")
		forbid(e.OK != nil && (st.Op == OpRemove || st.Op == OpRemoveOwner), "expect.ok", "removals report a count")
	}

	return ps, errs
}
