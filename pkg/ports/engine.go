package ports

import (
	"context"

	"github.com/aretw0/pulsegraph/pkg/domain"
)

// Simulator is the driving port used by adapters (HTTP, MCP) to query a graph.
type Simulator interface {
	// Trigger presses the button once on the live graph.
	Trigger(ctx context.Context) (domain.Counts, error)

	// Presses returns how many times the live graph was triggered since the last reset.
	Presses() int64

	// Fingerprint returns the hex encoded state of the live graph.
	Fingerprint() string

	// FlipFlops returns the on/off state of every flip-flop of the live graph.
	FlipFlops() map[string]bool

	// Reset restores the live graph to its initial state.
	Reset()

	// RunBounded counts the pulses sent over presses triggers from the initial state.
	RunBounded(ctx context.Context, presses int64) (*domain.BoundedResult, error)

	// RunUntilTarget returns the presses needed before target receives a low pulse.
	RunUntilTarget(ctx context.Context, target string) (*domain.TargetResult, error)

	// Reload reads the definitions again and replaces the live graph.
	Reload(ctx context.Context) error

	// Inspect returns the resolved module definitions, sinks included.
	Inspect() []domain.ModuleSpec
}
