package ports_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/pulsegraph/pkg/domain"
	"github.com/aretw0/pulsegraph/pkg/ports"
)

// MockCache is a map backed ResultCache used to exercise the contract itself.
type MockCache struct {
	mu   sync.Mutex
	data map[string]domain.Result
}

func NewMockCache() *MockCache {
	return &MockCache{data: make(map[string]domain.Result)}
}

func (m *MockCache) Get(_ context.Context, key string) (*domain.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.data[key]
	if !ok {
		return nil, domain.ErrResultNotFound
	}
	return &r, nil
}

func (m *MockCache) Put(_ context.Context, key string, result *domain.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = *result
	return nil
}

func TestMockCache_Contract(t *testing.T) {
	ports.RunResultCacheContract(t, NewMockCache())
}
