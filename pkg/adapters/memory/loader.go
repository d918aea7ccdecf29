package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/pulsegraph/pkg/domain"
)

// Loader implements ports.GraphLoader over module definitions held in memory.
type Loader struct {
	specs []domain.ModuleSpec
}

// NewLoader creates a Loader serving a copy of specs, in the given order.
func NewLoader(specs ...domain.ModuleSpec) *Loader {
	return &Loader{specs: cloneSpecs(specs)}
}

// NewFromMap creates a Loader from a name -> outputs adjacency map, the shape
// quick tests and examples tend to use. Kinds are taken from the name prefix
// of the text grammar ('%' flip-flop, '&' conjunction) and names are emitted
// in the order given by order, which must list every key.
func NewFromMap(order []string, outputs map[string][]string) (*Loader, error) {
	if len(order) != len(outputs) {
		return nil, fmt.Errorf("order lists %d modules, map has %d", len(order), len(outputs))
	}
	specs := make([]domain.ModuleSpec, 0, len(order))
	for _, key := range order {
		outs, ok := outputs[key]
		if !ok {
			return nil, fmt.Errorf("module %q missing from map: %w", key, domain.ErrInvalidReference)
		}
		spec := domain.ModuleSpec{Name: key, Kind: domain.KindBroadcaster, Outputs: outs}
		switch {
		case len(key) > 0 && key[0] == '%':
			spec.Name, spec.Kind = key[1:], domain.KindFlipFlop
		case len(key) > 0 && key[0] == '&':
			spec.Name, spec.Kind = key[1:], domain.KindConjunction
		case key != domain.BroadcasterName:
			return nil, fmt.Errorf("module %q has no type prefix: %w", key, domain.ErrInvalidReference)
		}
		specs = append(specs, spec)
	}
	return &Loader{specs: cloneSpecs(specs)}, nil
}

// LoadModules returns a copy of the stored definitions.
func (l *Loader) LoadModules(_ context.Context) ([]domain.ModuleSpec, error) {
	return cloneSpecs(l.specs), nil
}

func cloneSpecs(specs []domain.ModuleSpec) []domain.ModuleSpec {
	out := make([]domain.ModuleSpec, len(specs))
	for i, s := range specs {
		out[i] = s
		out[i].Outputs = append([]string(nil), s.Outputs...)
	}
	return out
}
