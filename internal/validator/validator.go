package validator

import (
	"context"
	"fmt"

	"github.com/aretw0/pulsegraph/internal/runtime"
	"github.com/aretw0/pulsegraph/pkg/domain"
	"github.com/aretw0/pulsegraph/pkg/ports"
)

// Report summarises the checks run over one graph.
type Report struct {
	Modules      int
	FlipFlops    int
	Conjunctions int
	// Sinks lists every module that consumes pulses without emitting, declared or not.
	Sinks []string
	// Unreachable lists modules no pulse from the broadcaster can reach.
	Unreachable []string
	// Unfed lists conjunctions without inputs.
	Unfed []string

	Target    string
	Choke     string
	TargetErr error
}

// Warnings returns findings that do not prevent simulation.
func (r *Report) Warnings() []string {
	var out []string
	for _, name := range r.Unreachable {
		out = append(out, fmt.Sprintf("module %q is never reached from the %s", name, domain.BroadcasterName))
	}
	for _, name := range r.Unfed {
		out = append(out, fmt.Sprintf("conjunction %q has no inputs", name))
	}
	return out
}

// Err reports whether the requested target cannot be answered by RunUntilTarget.
func (r *Report) Err() error {
	if r.TargetErr != nil {
		return fmt.Errorf("target %q: %w", r.Target, r.TargetErr)
	}
	return nil
}

// ValidateGraph loads the definitions and checks them. Definitions that cannot
// be built are returned as an error; everything else ends up in the report.
// If target is not empty, the target query topology is checked as well.
func ValidateGraph(ctx context.Context, loader ports.GraphLoader, target string) (*Report, error) {
	specs, err := loader.LoadModules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load modules: %w", err)
	}
	g, err := runtime.Build(specs)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Modules:     g.Len(),
		Unreachable: g.Unreachable(),
		Target:      target,
	}
	for _, s := range g.Specs() {
		switch s.Kind {
		case domain.KindFlipFlop:
			r.FlipFlops++
		case domain.KindConjunction:
			r.Conjunctions++
			inputs, err := g.Inputs(s.Name)
			if err != nil {
				return nil, err
			}
			if len(inputs) == 0 {
				r.Unfed = append(r.Unfed, s.Name)
			}
		case domain.KindSink:
			r.Sinks = append(r.Sinks, s.Name)
		}
	}

	if target != "" {
		r.Choke, r.TargetErr = g.CheckTarget(target)
	}
	return r, nil
}
