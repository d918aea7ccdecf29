package dsl

import (
	"fmt"

	"github.com/aretw0/pulsegraph/pkg/adapters/memory"
	"github.com/aretw0/pulsegraph/pkg/domain"
)

// Builder manages the graph construction.
type Builder struct {
	order   []string
	modules map[string]*ModuleBuilder
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		modules: make(map[string]*ModuleBuilder),
	}
}

// Broadcaster returns the builder of the broadcaster module.
func (b *Builder) Broadcaster() *ModuleBuilder {
	return b.add(domain.BroadcasterName, domain.KindBroadcaster)
}

// FlipFlop declares a flip-flop module.
func (b *Builder) FlipFlop(name string) *ModuleBuilder {
	return b.add(name, domain.KindFlipFlop)
}

// Conjunction declares a conjunction module.
func (b *Builder) Conjunction(name string) *ModuleBuilder {
	return b.add(name, domain.KindConjunction)
}

// Sink declares an explicit sink, e.g. a target that should appear in the
// definitions even before anything points at it.
func (b *Builder) Sink(name string) *ModuleBuilder {
	return b.add(name, domain.KindSink)
}

// add creates the module or returns the existing builder. Redeclaring a
// module with a different kind is reported by Build.
func (b *Builder) add(name string, kind domain.ModuleKind) *ModuleBuilder {
	if mb, ok := b.modules[name]; ok {
		if mb.spec.Kind != kind {
			mb.conflict = kind
		}
		return mb
	}
	mb := &ModuleBuilder{
		spec: domain.ModuleSpec{Name: name, Kind: kind},
	}
	b.modules[name] = mb
	b.order = append(b.order, name)
	return mb
}

// Specs returns the declared modules in declaration order.
func (b *Builder) Specs() ([]domain.ModuleSpec, error) {
	specs := make([]domain.ModuleSpec, 0, len(b.order))
	for _, name := range b.order {
		mb := b.modules[name]
		if mb.conflict != "" {
			return nil, fmt.Errorf("module %q declared as %s and %s: %w", name, mb.spec.Kind, mb.conflict, domain.ErrDuplicateModule)
		}
		specs = append(specs, mb.spec)
	}
	return specs, nil
}

// Build compiles the graph into a memory Loader.
func (b *Builder) Build() (*memory.Loader, error) {
	specs, err := b.Specs()
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return memory.NewLoader(specs...), nil
}
