package memory

import (
	"context"
	"sync"

	"github.com/aretw0/pulsegraph/pkg/domain"
)

// Cache implements ports.ResultCache in memory.
// Safe for concurrent use.
type Cache struct {
	data map[string]*domain.Result
	mu   sync.RWMutex
}

// NewCache creates a new in-memory result cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]*domain.Result),
	}
}

// Get returns a copy of the stored result so callers cannot mutate the cache.
func (c *Cache) Get(_ context.Context, key string) (*domain.Result, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, ok := c.data[key]
	if !ok {
		return nil, domain.ErrResultNotFound
	}
	return r.Clone(), nil
}

// Put stores a copy of result.
func (c *Cache) Put(_ context.Context, key string, result *domain.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = result.Clone()
	return nil
}

// Len returns the number of cached answers.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
