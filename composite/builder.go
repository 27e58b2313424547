// Package composite synthesizes composite capability types at runtime.
//
// Given delegates for several capability interfaces, a Builder derives
// one type exposing the union of their methods as "{Capability}_{Method}"
// and returns an instance whose methods forward to the delegates:
//
//	b := composite.New()
//	inst, desc, err := b.Build(composite.Binding{
//		composite.Bind[Greeter](hello),
//		composite.Bind[Counter](tally),
//	})
//	greet, err := composite.Func[func(string) string](inst, "Greeter_Greet")
//
// Layers (bottom → top):
//
//	capability (introspect)  →  shape (synthesize)  →  Type (materialize)
//	→  Instance (bind)  →  stubs (dispatch)
package composite

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/google/uuid"

	"cibuild/config"
	"cibuild/internal/metrics"
	"cibuild/util"
)

// Builder materializes composite types under one component name.
// Types it creates are registered in its own registry, keyed by ID, for
// as long as the Builder lives.  A Builder is safe for concurrent use.
type Builder struct {
	component string
	logger    *util.Logger
	metrics   *metrics.Collector
	cache     *typeCache // nil when caching is off

	mu       sync.RWMutex
	registry map[string]*Type
	order    []string
}

// Option configures a Builder.
type Option func(*Builder)

// WithComponentName sets the component name used to derive type and
// descriptor names.  An empty name keeps the generated one.
func WithComponentName(name string) Option {
	return func(b *Builder) {
		if name != "" {
			b.component = name
		}
	}
}

// WithLogger sets the logger.  The default logger is quiet.
func WithLogger(l *util.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithMetrics shares a collector between builders.
func WithMetrics(c *metrics.Collector) Option {
	return func(b *Builder) {
		if c != nil {
			b.metrics = c
		}
	}
}

// WithCache keeps up to size materialized types and reuses them for
// repeated capability sets.  Size 0 (the default) disables the cache
// and every Build synthesizes a fresh type.
func WithCache(size int) Option {
	return func(b *Builder) {
		if size <= 0 {
			b.cache = nil
			return
		}
		if c, err := newTypeCache(size); err == nil {
			b.cache = c
		}
	}
}

// New returns a Builder.  Without WithComponentName the component name
// is random: "__" followed by a dash-free UUID.
func New(opts ...Option) *Builder {
	b := &Builder{
		component: randomComponentName(),
		logger:    util.NewLogger(int(util.LogQuiet)),
		metrics:   metrics.New(),
		registry:  make(map[string]*Type),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With(b.component)
	return b
}

// NewFromConfig validates cfg and returns a Builder configured from it.
func NewFromConfig(cfg *config.Config, logger *util.Logger) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return New(
		WithComponentName(cfg.ComponentName),
		WithCache(cfg.CacheSize),
		WithLogger(logger),
	), nil
}

func randomComponentName() string {
	return config.DefaultComponentPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ComponentName returns the builder's component name.
func (b *Builder) ComponentName() string { return b.component }

// Build materializes a composite type for the capabilities in binding
// and returns an instance bound to its delegates, along with the
// composite descriptor.
func (b *Builder) Build(binding Binding, opts ...BuildOption) (*Instance, *Descriptor, error) {
	b.metrics.BuildStarted()

	t, err := b.Materialize(binding.Capabilities(), opts...)
	if err != nil {
		return nil, nil, b.fail(err)
	}
	in, err := t.New(binding)
	if err != nil {
		return nil, nil, b.fail(err)
	}
	return in, t.Descriptor(), nil
}

// Materialize produces the composite type for caps, in slot order,
// without binding delegates.  Use Type.New to create instances.
func (b *Builder) Materialize(caps []reflect.Type, opts ...BuildOption) (*Type, error) {
	o := buildOptions{base: anyType}
	for _, opt := range opts {
		opt(&o)
	}

	if b.cache != nil {
		if t, ok := b.cache.get(caps, o.base); ok {
			b.metrics.CacheHit()
			b.logger.Debug("reusing %s for %s", t, t.Key())
			return t, nil
		}
	}

	t, err := materialize(b.component, caps, o.base)
	if err != nil {
		return nil, fmt.Errorf("materialize: %w", err)
	}
	t.metrics = b.metrics

	b.register(t)
	if b.cache != nil {
		b.cache.put(t)
	}
	b.metrics.TypeMaterialized()
	b.logger.Debug("materialized %s: %d slots, %d methods",
		t, len(t.caps), len(t.stubs))
	return t, nil
}

// Lookup returns the registered type with the given ID.
func (b *Builder) Lookup(id string) (*Type, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	t, ok := b.registry[id]
	return t, ok
}

// Types returns every type this builder materialized, oldest first.
func (b *Builder) Types() []*Type {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*Type, len(b.order))
	for i, id := range b.order {
		out[i] = b.registry[id]
	}
	return out
}

// Stats returns the builder's metrics snapshot.
func (b *Builder) Stats() metrics.Snapshot { return b.metrics.Snapshot() }

func (b *Builder) register(t *Type) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.registry[t.ID] = t
	b.order = append(b.order, t.ID)
}

func (b *Builder) fail(err error) error {
	b.metrics.BuildFailed(err.Error())
	b.logger.Verbose("build failed: %v", err)
	return err
}
