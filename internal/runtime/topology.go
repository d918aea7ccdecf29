package runtime

import (
	"fmt"

	"github.com/aretw0/pulsegraph/pkg/domain"
)

// chokePoint returns the sole predecessor of target, which must be a
// conjunction with at least one input.
func (g *Graph) chokePoint(target int) (int, error) {
	name := g.modules[target].name
	preds := g.preds[target]
	switch {
	case len(preds) == 0:
		return 0, fmt.Errorf("%q has no inputs: %w", name, domain.ErrUnsupportedTopology)
	case len(preds) > 1:
		return 0, fmt.Errorf("%q has %d inputs %v, want exactly one: %w", name, len(preds), g.names(preds), domain.ErrUnsupportedTopology)
	}

	c := preds[0]
	m := &g.modules[c]
	if m.kind != domain.KindConjunction {
		return 0, fmt.Errorf("%q feeds %q but is a %s, not a conjunction: %w", m.name, name, m.kind, domain.ErrUnsupportedTopology)
	}
	if len(m.inputs) == 0 {
		return 0, fmt.Errorf("conjunction %q has no inputs: %w", m.name, domain.ErrUnsupportedTopology)
	}
	return c, nil
}

// checkIndependent verifies that every input of the choke point is driven by
// its own subnetwork: walking upstream from each input (and stopping at the
// broadcaster) must reach the broadcaster, must never reach the choke point or
// the target, and must not share a module with the walk of another input.
func (g *Graph) checkIndependent(choke, target int) error {
	owner := make([]int, len(g.modules))
	for i := range owner {
		owner[i] = -1
	}

	inputs := g.modules[choke].inputs
	for s, src := range inputs {
		driven := false
		stack := []int{src}
		for len(stack) > 0 {
			m := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			switch {
			case m == g.broadcaster:
				driven = true
				continue
			case m == choke || m == target:
				return fmt.Errorf("%q depends on %q: %w", g.modules[src].name, g.modules[m].name, domain.ErrUnsupportedTopology)
			case owner[m] == s:
				continue
			case owner[m] >= 0:
				return fmt.Errorf("%q and %q share %q: %w",
					g.modules[inputs[owner[m]]].name, g.modules[src].name, g.modules[m].name, domain.ErrUnsupportedTopology)
			}
			owner[m] = s
			stack = append(stack, g.preds[m]...)
		}
		if !driven {
			return fmt.Errorf("%q is not driven by the %s: %w", g.modules[src].name, domain.BroadcasterName, domain.ErrUnsupportedTopology)
		}
	}
	return nil
}

// CheckTarget returns the choke point feeding target, or the reason
// RunUntilTarget cannot answer for it.
func (g *Graph) CheckTarget(target string) (string, error) {
	t, ok := g.index[target]
	if !ok {
		return "", fmt.Errorf("target %q: %w", target, domain.ErrUnknownModule)
	}
	choke, err := g.chokePoint(t)
	if err != nil {
		return "", err
	}
	if err := g.checkIndependent(choke, t); err != nil {
		return "", err
	}
	return g.modules[choke].name, nil
}

// Unreachable returns, in arena order, the modules no pulse from the
// broadcaster can ever reach.
func (g *Graph) Unreachable() []string {
	seen := make([]bool, len(g.modules))
	seen[g.broadcaster] = true
	queue := []int{g.broadcaster}
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		for _, e := range g.modules[m].outputs {
			if !seen[e.to] {
				seen[e.to] = true
				queue = append(queue, e.to)
			}
		}
	}

	var out []string
	for i, ok := range seen {
		if !ok {
			out = append(out, g.modules[i].name)
		}
	}
	return out
}
