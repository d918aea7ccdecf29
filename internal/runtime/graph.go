package runtime

import (
	"fmt"
	"unicode"

	"github.com/aretw0/pulsegraph/pkg/domain"
)

// Graph owns every module of one simulation. Modules live in an arena and
// refer to each other by index; names are only used at the edges of the API.
type Graph struct {
	modules      []module
	index        map[string]int
	preds        [][]int
	broadcaster  int
	flipflops    []int
	conjunctions []int
	stateBits    int
}

// Build resolves module definitions into a runnable graph.
//
// Output names that are not defined become sinks. Every conjunction learns its
// inputs here, once, in declaration order of the sources; the set never
// changes afterwards. A conjunction nobody feeds is valid: its empty input set
// is vacuously all high, so it would emit low if it were ever pulsed.
func Build(specs []domain.ModuleSpec) (*Graph, error) {
	g := &Graph{
		index:       make(map[string]int, len(specs)),
		broadcaster: -1,
	}

	for _, s := range specs {
		if err := checkName(s.Name); err != nil {
			return nil, err
		}
		if !s.Kind.Valid() {
			return nil, fmt.Errorf("module %q has unknown kind %q: %w", s.Name, s.Kind, domain.ErrInvalidReference)
		}
		if (s.Kind == domain.KindBroadcaster) != (s.Name == domain.BroadcasterName) {
			return nil, fmt.Errorf("module %q: only %q may be a broadcaster: %w", s.Name, domain.BroadcasterName, domain.ErrInvalidReference)
		}
		if s.Kind == domain.KindSink && len(s.Outputs) > 0 {
			return nil, fmt.Errorf("sink %q cannot declare outputs: %w", s.Name, domain.ErrInvalidReference)
		}
		if _, ok := g.index[s.Name]; ok {
			return nil, fmt.Errorf("module %q: %w", s.Name, domain.ErrDuplicateModule)
		}
		g.index[s.Name] = len(g.modules)
		g.modules = append(g.modules, module{name: s.Name, kind: s.Kind})
	}

	// Resolve outputs, materialising sinks for unknown names.
	declared := len(g.modules)
	for i := 0; i < declared; i++ {
		outs := specs[i].Outputs
		g.modules[i].outputs = make([]edge, 0, len(outs))
		for _, name := range outs {
			if err := checkName(name); err != nil {
				return nil, fmt.Errorf("output of %q: %w", specs[i].Name, err)
			}
			to, ok := g.index[name]
			if !ok {
				to = len(g.modules)
				g.index[name] = to
				g.modules = append(g.modules, module{name: name, kind: domain.KindSink})
			}
			g.modules[i].outputs = append(g.modules[i].outputs, edge{to: to, slot: -1})
		}
	}

	b, ok := g.index[domain.BroadcasterName]
	if !ok || g.modules[b].kind != domain.KindBroadcaster {
		return nil, domain.ErrMissingBroadcaster
	}
	g.broadcaster = b

	g.preds = make([][]int, len(g.modules))
	for from := range g.modules {
		m := &g.modules[from]
		for k, e := range m.outputs {
			if !contains(g.preds[e.to], from) {
				g.preds[e.to] = append(g.preds[e.to], from)
			}
			dst := &g.modules[e.to]
			if dst.kind != domain.KindConjunction {
				continue
			}
			slot := indexOf(dst.inputs, from)
			if slot < 0 {
				slot = len(dst.inputs)
				dst.inputs = append(dst.inputs, from)
			}
			m.outputs[k].slot = slot
		}
	}

	for i := range g.modules {
		m := &g.modules[i]
		switch m.kind {
		case domain.KindFlipFlop:
			g.flipflops = append(g.flipflops, i)
			g.stateBits++
		case domain.KindConjunction:
			m.memory = make([]bool, len(m.inputs))
			g.conjunctions = append(g.conjunctions, i)
			g.stateBits += len(m.inputs)
		}
	}
	return g, nil
}

func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("empty module name: %w", domain.ErrInvalidReference)
	}
	if name == domain.ButtonName {
		return fmt.Errorf("%q is reserved: %w", name, domain.ErrInvalidReference)
	}
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.' {
			continue
		}
		return fmt.Errorf("module name %q contains %q: %w", name, r, domain.ErrInvalidReference)
	}
	return nil
}

func indexOf(s []int, v int) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

func contains(s []int, v int) bool { return indexOf(s, v) >= 0 }

// Len returns the number of modules, including materialised sinks.
func (g *Graph) Len() int { return len(g.modules) }

// Edges returns the number of module-to-module connections.
func (g *Graph) Edges() int {
	n := 0
	for i := range g.modules {
		n += len(g.modules[i].outputs)
	}
	return n
}

// Lookup returns the arena index of the named module.
func (g *Graph) Lookup(name string) (int, bool) {
	i, ok := g.index[name]
	return i, ok
}

// Name returns the name of module i.
func (g *Graph) Name(i int) string { return g.modules[i].name }

// Kind returns the kind of module i.
func (g *Graph) Kind(i int) domain.ModuleKind { return g.modules[i].kind }

// Inputs returns the names of the modules feeding the named conjunction, in slot order.
func (g *Graph) Inputs(name string) ([]string, error) {
	i, ok := g.index[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, domain.ErrUnknownModule)
	}
	return g.names(g.modules[i].inputs), nil
}

// Predecessors returns the names of every module that lists name as an output.
func (g *Graph) Predecessors(name string) ([]string, error) {
	i, ok := g.index[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, domain.ErrUnknownModule)
	}
	return g.names(g.preds[i]), nil
}

func (g *Graph) names(idx []int) []string {
	out := make([]string, len(idx))
	for k, i := range idx {
		out[k] = g.modules[i].name
	}
	return out
}

// Specs returns the resolved module definitions in arena order. Materialised
// sinks are included with KindSink.
func (g *Graph) Specs() []domain.ModuleSpec {
	specs := make([]domain.ModuleSpec, len(g.modules))
	for i := range g.modules {
		m := &g.modules[i]
		outs := make([]string, len(m.outputs))
		for k, e := range m.outputs {
			outs[k] = g.modules[e.to].name
		}
		specs[i] = domain.ModuleSpec{Name: m.name, Kind: m.kind, Outputs: outs}
	}
	return specs
}

// FlipFlopStates returns the on bit of every flip-flop, keyed by name.
func (g *Graph) FlipFlopStates() map[string]bool {
	out := make(map[string]bool, len(g.flipflops))
	for _, i := range g.flipflops {
		out[g.modules[i].name] = g.modules[i].on
	}
	return out
}

// Reset restores every module to its initial state.
func (g *Graph) Reset() {
	for i := range g.modules {
		g.modules[i].reset()
	}
}
