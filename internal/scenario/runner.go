package scenario

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	oerrors "github.com/opmodel/modkit/internal/errors"
	"github.com/opmodel/modkit/internal/manifest"
	"github.com/opmodel/modkit/internal/output"
	"github.com/opmodel/modkit/pkg/hierarchy"
	"github.com/opmodel/modkit/pkg/module"
)

const tracerName = "github.com/opmodel/modkit/internal/scenario"

// Result is the outcome of a run.
type Result struct {
	Name   string       `json:"name" yaml:"name"`
	Target Target       `json:"target" yaml:"target"`
	Steps  []StepResult `json:"steps" yaml:"steps"`

	// Hooks counts removal hooks per module name.
	Hooks map[string]int `json:"hooks" yaml:"hooks"`

	// Failed is the number of steps whose expectations did not hold.
	Failed int `json:"failed" yaml:"failed"`
}

// StepResult records what one step did.
type StepResult struct {
	Index    int      `json:"index" yaml:"index"`
	Op       Op       `json:"op" yaml:"op"`
	Owner    string   `json:"owner" yaml:"owner"`
	Type     string   `json:"type,omitempty" yaml:"type,omitempty"`
	Status   string   `json:"status" yaml:"status"`
	OK       bool     `json:"ok" yaml:"ok"`
	Count    int      `json:"count,omitempty" yaml:"count,omitempty"`
	Module   string   `json:"module,omitempty" yaml:"module,omitempty"`
	Hooks    int      `json:"hooks,omitempty" yaml:"hooks,omitempty"`
	Mismatch []string `json:"mismatch,omitempty" yaml:"mismatch,omitempty"`
}

// Runner replays scenarios over a fixed set of domains.
type Runner struct {
	domains []*hierarchy.Domain
	index   *manifest.TypeIndex
	tracer  trace.Tracer
	match   module.MatchMode
	cleanup module.CleanupPolicy
	out     io.Writer
}

// Option configures a Runner.
type Option func(*Runner)

// WithTracer sets the tracer for step spans and cache initialization.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Runner) { r.tracer = tracer }
}

// WithDefaultMatch sets the match mode for collection gets that name none.
func WithDefaultMatch(m module.MatchMode) Option {
	return func(r *Runner) { r.match = m }
}

// WithCleanupPolicy sets the registry policy for scenarios that name none.
func WithCleanupPolicy(p module.CleanupPolicy) Option {
	return func(r *Runner) { r.cleanup = p }
}

// WithOutput prints one styled line per step to w.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.out = w }
}

// NewRunner returns a runner over domains.
func NewRunner(domains []*hierarchy.Domain, opts ...Option) *Runner {
	r := &Runner{
		domains: domains,
		index:   manifest.NewTypeIndex(domains...),
		tracer:  otel.Tracer(tracerName),
		match:   module.MatchAssignable,
		cleanup: module.CleanupClosure,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Index returns the runner's type index.
func (r *Runner) Index() *manifest.TypeIndex {
	return r.index
}

// Run executes s from a fresh cache and fresh storage. Every step runs even
// after a failed expectation; the returned error then wraps ErrValidation and
// lists every mismatch. The result is returned in both cases.
func (r *Runner) Run(ctx context.Context, s *Scenario) (*Result, error) {
	p, err := newPlan(s, r.index, r.match, r.cleanup)
	if err != nil {
		return nil, err
	}

	ctx, span := r.tracer.Start(ctx, "scenario.run", trace.WithAttributes(
		attribute.String("scenario.name", s.Name),
		attribute.String("scenario.target", string(s.Target)),
		attribute.Int("scenario.steps", len(p.steps)),
	))
	defer span.End()

	cache := hierarchy.NewCache(hierarchy.WithTracer(r.tracer), hierarchy.WithLogger(output.Logger()))
	cache.InitializeContext(ctx, r.domains...)

	st := &state{
		cache:       cache,
		collections: make(map[uuid.UUID]*module.Collection),
		hooks:       make(map[string]int),
	}
	if s.Target == TargetRegistry {
		st.registry, err = module.NewRegistry(p.contract,
			module.WithCleanupPolicy(p.cleanup), module.WithRegistryLogger(output.Logger()))
		if err != nil {
			return nil, err
		}
	}

	result := &Result{Name: s.Name, Target: s.Target, Hooks: st.hooks}
	var mismatches []error
	for i, ps := range p.steps {
		sr := r.step(ctx, st, i, ps)
		if len(sr.Mismatch) > 0 {
			result.Failed++
			for _, m := range sr.Mismatch {
				mismatches = append(mismatches, fmt.Errorf("step %d (%s %s): %s", i, sr.Op, sr.Type, m))
			}
		}
		result.Steps = append(result.Steps, sr)
	}

	if len(mismatches) > 0 {
		agg := utilerrors.NewAggregate(mismatches)
		span.SetStatus(codes.Error, "expectations failed")
		return result, fmt.Errorf("%w: scenario %q: %d of %d steps failed: %w",
			oerrors.ErrValidation, s.Name, result.Failed, len(p.steps), agg)
	}
	return result, nil
}

// state is the storage a single run mutates.
type state struct {
	cache       *hierarchy.Cache
	collections map[uuid.UUID]*module.Collection
	registry    *module.Registry
	hooks       map[string]int

	// fired counts hooks during the current step.
	fired int
}

func (s *state) collection(owner uuid.UUID) *module.Collection {
	c, ok := s.collections[owner]
	if !ok {
		c = module.NewCollection(owner, s.cache)
		s.collections[owner] = c
	}
	return c
}

func (r *Runner) step(ctx context.Context, st *state, i int, ps plannedStep) StepResult {
	_, span := r.tracer.Start(ctx, "scenario.step", trace.WithAttributes(
		attribute.Int("step.index", i),
		attribute.String("step.op", string(ps.Op)),
		attribute.String("step.owner", ps.Owner),
		attribute.String("step.type", manifest.Qualified(ps.typ)),
	))
	defer span.End()

	st.fired = 0
	sr := StepResult{Index: i, Op: ps.Op, Owner: ps.Owner, Type: manifest.Qualified(ps.typ)}

	switch ps.Op {
	case OpAdd:
		m := module.NewDynamic(ps.typ, ps.Module, func(d *module.Dynamic) {
			st.hooks[d.Name()]++
			st.fired++
		})
		if st.registry != nil {
			sr.OK = st.registry.AddModuleAs(ps.owner, m, ps.as)
		} else {
			sr.OK = st.collection(ps.owner).AddAs(m, ps.as, ps.check)
		}
		sr.Module = ps.Module
		sr.Status = pick(sr.OK, output.StatusAdded, output.StatusRejected)

	case OpRemove:
		if st.registry != nil {
			sr.Count = st.registry.RemoveModule(ps.owner, ps.typ)
		} else {
			// Modes were validated while planning.
			sr.Count, _ = st.collection(ps.owner).RemoveWith(ps.typ, ps.mode)
		}
		sr.Status = pick(sr.Count > 0, output.StatusRemoved, output.StatusMissing)

	case OpGet:
		var m module.Module
		switch {
		case st.registry != nil && ps.Raw:
			m = st.registry.GetModuleUnsafe(ps.owner, ps.typ)
		case st.registry != nil:
			m = st.registry.GetModule(ps.owner, ps.typ)
		default:
			m, _ = st.collection(ps.owner).Lookup(ps.typ, ps.match)
		}
		if d, ok := m.(*module.Dynamic); ok {
			sr.OK = true
			sr.Module = d.Name()
		}
		sr.Status = pick(sr.OK, output.StatusFound, output.StatusMissing)

	case OpHas:
		if st.registry != nil {
			sr.OK = st.registry.HasModule(ps.owner, ps.typ)
		} else {
			sr.OK = st.collection(ps.owner).Has(ps.typ)
		}
		sr.Status = pick(sr.OK, output.StatusFound, output.StatusMissing)

	case OpRemoveOwner:
		sr.Count = st.registry.RemoveOwner(ps.owner)
		sr.Status = pick(sr.Count > 0, output.StatusRemoved, output.StatusMissing)
	}
	sr.Hooks = st.fired

	sr.Mismatch = compare(ps.Expect, sr)
	if len(sr.Mismatch) > 0 {
		sr.Status = output.StatusFailed
		span.SetStatus(codes.Error, "expectation failed")
	}
	span.SetAttributes(attribute.String("step.status", sr.Status))

	ownerLog(ps).Debug("step", "index", i, "op", ps.Op, "type", sr.Type, "status", sr.Status)
	if r.out != nil {
		label := sr.Type
		if sr.Module != "" {
			label = fmt.Sprintf("%s %s", sr.Module, sr.Type)
		}
		fmt.Fprintln(r.out, output.FormatStepLine(fmt.Sprintf("%s %s", ps.Owner, ps.Op), label, sr.Status))
	}
	return sr
}

func compare(e *Expect, sr StepResult) []string {
	if e == nil {
		return nil
	}
	var out []string
	if e.OK != nil && *e.OK != sr.OK {
		out = append(out, fmt.Sprintf("ok: want %t, got %t", *e.OK, sr.OK))
	}
	if e.Count != nil && *e.Count != sr.Count {
		out = append(out, fmt.Sprintf("count: want %d, got %d", *e.Count, sr.Count))
	}
	if e.Module != nil && *e.Module != sr.Module {
		out = append(out, fmt.Sprintf("module: want %q, got %q", *e.Module, sr.Module))
	}
	if e.Hooks != nil && *e.Hooks != sr.Hooks {
		out = append(out, fmt.Sprintf("hooks: want %d, got %d", *e.Hooks, sr.Hooks))
	}
	return out
}

func ownerLog(ps plannedStep) *log.Logger {
	return output.OwnerLogger(ps.owner).With("name", ps.Owner)
}

func pick(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
