package ports

import (
	"context"

	"github.com/aretw0/pulsegraph/pkg/domain"
)

// ResultCache memoises final query answers. It never stores simulation state.
type ResultCache interface {
	// Get returns the answer stored under key.
	// Returns domain.ErrResultNotFound if the key is absent.
	Get(ctx context.Context, key string) (*domain.Result, error)

	// Put stores the answer under key, replacing any previous one.
	Put(ctx context.Context, key string, result *domain.Result) error
}
