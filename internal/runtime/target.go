package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/pulsegraph/pkg/domain"
)

type firing struct {
	first, second int64
}

// RunUntilTarget returns the minimum number of presses, starting from the
// initial state, after which target receives a low pulse.
//
// The target must be fed by a single conjunction (the choke point) whose inputs
// are driven by independent subnetworks. Each input is watched until it has
// sent the choke point a high pulse twice; its period must equal the press of
// its first firing. The answer is the least common multiple of those periods.
// If the target is seen receiving a low pulse during the scan, that press is
// returned as is.
func (e *Engine) RunUntilTarget(ctx context.Context, target string) (*domain.TargetResult, error) {
	g := e.graph
	if _, err := g.CheckTarget(target); err != nil {
		return nil, err
	}
	t := g.index[target]
	choke := g.preds[t][0]

	inputs := g.modules[choke].inputs
	slots := make([]int, len(g.modules))
	for i := range slots {
		slots[i] = -1
	}
	for s, src := range inputs {
		slots[src] = s
	}

	firings := make([]firing, len(inputs))
	var (
		press   int64
		reached bool
		fresh   []int
		pending = len(inputs)
	)

	saved := e.observer
	defer func() { e.observer = saved }()
	e.observer = func(from, to int, p domain.PulseType) {
		if saved != nil {
			saved(from, to, p)
		}
		if to == t && p == domain.Low {
			reached = true
		}
		if to != choke || p != domain.High || from < 0 {
			return
		}
		f := &firings[slots[from]]
		switch {
		case f.first == 0:
			f.first = press
			fresh = append(fresh, slots[from])
		case f.second == 0 && press != f.first:
			f.second = press
			pending--
		}
	}

	e.Reset()
	for press = 1; press <= e.maxTriggers; press++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := e.press(ctx); err != nil {
			return nil, err
		}

		for _, s := range fresh {
			e.logger.Debug("signal fired", "source", g.modules[inputs[s]].name, "press", press)
			if e.hooks.OnSignal != nil {
				e.hooks.OnSignal(ctx, &domain.SignalEvent{Type: domain.EventSignal, Source: g.modules[inputs[s]].name, Press: press})
			}
		}
		fresh = fresh[:0]

		if reached {
			return &domain.TargetResult{
				Target:  target,
				Choke:   g.modules[choke].name,
				Signals: signalFirings(g, inputs, firings),
				Presses: press,
				Direct:  true,
			}, nil
		}
		if pending == 0 {
			break
		}
	}

	if pending > 0 {
		var waiting []string
		for s, f := range firings {
			if f.second == 0 {
				waiting = append(waiting, g.modules[inputs[s]].name)
			}
		}
		return nil, fmt.Errorf("inputs of %q still pending after %d presses (%s): %w",
			g.modules[choke].name, e.maxTriggers, strings.Join(waiting, ", "), domain.ErrBoundExceeded)
	}

	periods, err := confirmPeriods(g.names(inputs), firings)
	if err != nil {
		return nil, err
	}
	n, ok := lcm(periods...)
	if !ok {
		return nil, fmt.Errorf("least common multiple of %v overflows: %w", periods, domain.ErrBoundExceeded)
	}

	return &domain.TargetResult{
		Target:  target,
		Choke:   g.modules[choke].name,
		Signals: signalFirings(g, inputs, firings),
		Presses: n,
	}, nil
}

func signalFirings(g *Graph, inputs []int, firings []firing) []domain.SignalFiring {
	out := make([]domain.SignalFiring, 0, len(inputs))
	for s, f := range firings {
		if f.first == 0 {
			continue
		}
		out = append(out, domain.SignalFiring{Source: g.modules[inputs[s]].name, First: f.first})
	}
	return out
}

// confirmPeriods checks that every source fired again exactly one period
// after its first firing, the period being the first firing itself.
func confirmPeriods(sources []string, firings []firing) ([]int64, error) {
	periods := make([]int64, len(firings))
	for s, f := range firings {
		if f.first <= 0 || f.second != 2*f.first {
			return nil, fmt.Errorf("%q fired at presses %d and %d, not periodic from the initial state: %w",
				sources[s], f.first, f.second, domain.ErrUnsupportedTopology)
		}
		periods[s] = f.first
	}
	return periods, nil
}
