package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/pulsegraph"
	"github.com/aretw0/pulsegraph/internal/presentation/graph"
	"github.com/aretw0/pulsegraph/internal/presentation/tui"
	"github.com/aretw0/pulsegraph/internal/validator"
)

// withSimulator runs fn against a freshly built Simulator and releases it.
func (a *App) withSimulator(fn func(*pulsegraph.Simulator) error) error {
	sim, closer, err := a.NewSimulator()
	if err != nil {
		return err
	}
	defer closer()
	return fn(sim)
}

// RunBounded answers the low/high counts after presses button presses.
func (a *App) RunBounded(ctx context.Context, presses int64) error {
	if presses < 0 {
		return fmt.Errorf("presses must not be negative, got %d", presses)
	}
	return a.withSimulator(func(sim *pulsegraph.Simulator) error {
		res, err := sim.RunBounded(ctx, presses)
		if err != nil {
			return err
		}
		return a.Out.Bounded(res)
	})
}

// RunTarget answers the presses needed for target to receive a low pulse.
func (a *App) RunTarget(ctx context.Context, target string) error {
	return a.withSimulator(func(sim *pulsegraph.Simulator) error {
		res, err := sim.RunUntilTarget(ctx, target)
		if err != nil {
			return err
		}
		return a.Out.Target(res)
	})
}

// Press triggers the live graph n times and prints each press.
func (a *App) Press(ctx context.Context, n int64) error {
	if n < 1 {
		return fmt.Errorf("count must be at least 1, got %d", n)
	}
	return a.withSimulator(func(sim *pulsegraph.Simulator) error {
		var rows []tui.PressRow
		for i := int64(0); i < n; i++ {
			counts, err := sim.Trigger(ctx)
			if err != nil {
				return err
			}
			rows = append(rows, tui.PressRow{Press: sim.Presses(), Counts: counts, Fingerprint: sim.Fingerprint()})
		}
		return a.Out.Presses(rows)
	})
}

// Graph prints the Mermaid flowchart. A target is highlighted together with
// its choke conjunction when the topology has one.
func (a *App) Graph(ctx context.Context, target string) error {
	return a.withSimulator(func(sim *pulsegraph.Simulator) error {
		var overlay *graph.Overlay
		if target != "" {
			r, err := validator.ValidateGraph(ctx, sim.Loader(), target)
			if err != nil {
				return err
			}
			overlay = &graph.Overlay{Target: target, Choke: r.Choke}
		}
		_, err := io.WriteString(a.Out.Writer(), graph.GenerateMermaid(sim.Inspect(), overlay))
		return err
	})
}

// Validate checks the graph, and the target topology when target is set.
func (a *App) Validate(ctx context.Context, target string) error {
	return a.withSimulator(func(sim *pulsegraph.Simulator) error {
		r, err := validator.ValidateGraph(ctx, sim.Loader(), target)
		if err != nil {
			return err
		}
		a.Out.Validation(r)
		return r.Err()
	})
}
