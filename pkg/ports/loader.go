package ports

import (
	"context"

	"github.com/aretw0/pulsegraph/pkg/domain"
)

// GraphLoader defines how the simulator retrieves module definitions.
// This allows the source (text file, YAML, Loam, memory) to be decoupled.
type GraphLoader interface {
	// LoadModules returns every module definition in declaration order.
	// Order matters: it fixes the input slot order of conjunctions.
	LoadModules(ctx context.Context) ([]domain.ModuleSpec, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is used by long running servers to reload the graph.
type Watchable interface {
	// Watch returns a channel that receives the identifier of every changed
	// document. It is closed when ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}
