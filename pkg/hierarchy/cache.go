package hierarchy

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/opmodel/modkit/pkg/hierarchy"

// Cache memoizes ancestor chains and derived-type sets.
//
// Initialization is single-shot: the first Initialize call scans its domains and
// every later call is a no-op, whatever domains it is given. After initialization
// all reads are lock-free because the tables are never written again.
type Cache struct {
	initMu      sync.Mutex
	initialized atomic.Bool

	base    map[*Type][]*Type
	derived map[*Type][]*Type

	logger *log.Logger
	tracer trace.Tracer

	// spills counts slow-path chain builds, exposed for diagnostics.
	spills int
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used to report initialization.
func WithLogger(logger *log.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// WithTracer sets the tracer used to span initialization.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Cache) {
		c.tracer = tracer
	}
}

// NewCache returns an uninitialized cache.
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		base:    make(map[*Type][]*Type),
		derived: make(map[*Type][]*Type),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialized reports whether the domain scan has completed.
func (c *Cache) Initialized() bool {
	return c.initialized.Load()
}

// Initialize scans the given domains, or Universe when none are given. Nil
// domains are ignored, so a call with only nil domains also scans Universe.
func (c *Cache) Initialize(domains ...*Domain) {
	c.InitializeContext(context.Background(), domains...)
}

// InitializeContext is Initialize with a parent context for tracing.
func (c *Cache) InitializeContext(ctx context.Context, domains ...*Domain) {
	if c.initialized.Load() {
		if len(domains) > 0 {
			c.debug("hierarchy cache already initialized, ignoring domains", "domains", domainNames(domains))
		}
		return
	}

	c.initMu.Lock()
	defer c.initMu.Unlock()

	if c.initialized.Load() {
		return
	}

	domains = slices.DeleteFunc(slices.Clone(domains), func(d *Domain) bool { return d == nil })
	if len(domains) == 0 {
		domains = []*Domain{Universe}
	}

	_, span := c.tracer.Start(ctx, "hierarchy.initialize",
		trace.WithAttributes(attribute.StringSlice("hierarchy.domains", domainNames(domains))))
	defer span.End()

	scanned := 0
	for _, d := range domains {
		for _, t := range d.Types() {
			scanned++
			if _, ok := c.base[t]; ok {
				// Already stored while walking up from a descendant in an earlier domain.
				continue
			}
			c.store(t, c.buildChain(t))
		}
	}

	span.SetAttributes(
		attribute.Int("hierarchy.types", scanned),
		attribute.Int("hierarchy.spills", c.spills),
	)
	c.debug("hierarchy cache initialized",
		"domains", domainNames(domains),
		"types", scanned,
		"chains", len(c.base),
		"spills", c.spills,
	)

	c.initialized.Store(true)
}

// BaseTypes returns t's ancestor chain, nearest ancestor first. The returned slice
// is shared and must not be modified. Unknown types yield an empty chain.
func (c *Cache) BaseTypes(t *Type) []*Type {
	c.Initialize()
	return c.base[t]
}

// DerivedTypes returns every known type whose ancestor chain contains t, in the
// order they were recorded.
func (c *Cache) DerivedTypes(t *Type) []*Type {
	c.Initialize()
	set := c.derived[t]
	out := make([]*Type, len(set))
	copy(out, set)
	return out
}

// IsAssignable reports whether a value of type t can be used where target is
// expected: the types are equal, target is an ancestor of t, or target is an
// interface that t implements.
func (c *Cache) IsAssignable(t, target *Type) bool {
	if t == nil || target == nil {
		return false
	}
	if t == target {
		return true
	}
	if contains(c.BaseTypes(t), target) {
		return true
	}
	return target.IsInterface() && Implements(t, target)
}

// buildChain computes t's chain, reusing any memoized ancestor chain. On the slow
// path every intermediate ancestor found on the way up is stored as well.
func (c *Cache) buildChain(t *Type) []*Type {
	parent := t.parent
	if parent == nil {
		return nil
	}

	if chain, ok := c.base[parent]; ok {
		out := make([]*Type, 0, len(chain)+1)
		out = append(out, parent)
		return append(out, chain...)
	}

	c.spills++

	var pending []*Type
	var tail []*Type
	for cur := parent; cur != nil; cur = cur.parent {
		if chain, ok := c.base[cur]; ok {
			tail = append([]*Type{cur}, chain...)
			break
		}
		pending = append(pending, cur)
	}

	full := make([]*Type, 0, len(pending)+len(tail))
	full = append(full, pending...)
	full = append(full, tail...)

	// pending[i]'s chain is everything after it; suffixes have len == cap so
	// appends by careless callers reallocate instead of clobbering.
	for i := len(pending) - 1; i >= 0; i-- {
		c.store(pending[i], full[i+1:len(full):len(full)])
	}

	return full
}

func (c *Cache) store(t *Type, chain []*Type) {
	c.base[t] = chain
	for _, ancestor := range chain {
		c.derived[ancestor] = append(c.derived[ancestor], t)
	}
}

func (c *Cache) debug(msg string, keyvals ...interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, keyvals...)
	}
}

func domainNames(domains []*Domain) []string {
	names := make([]string, 0, len(domains))
	for _, d := range domains {
		if d != nil {
			names = append(names, d.name)
		}
	}
	return names
}

func contains(types []*Type, t *Type) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}
