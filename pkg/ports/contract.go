package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/pulsegraph/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunResultCacheContract runs a suite of tests to verify that a ResultCache
// implementation adheres to the defined interface contract.
func RunResultCacheContract(t *testing.T, cache ResultCache) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Put and Get", func(t *testing.T) {
		result := &domain.Result{
			Kind: domain.ResultBounded,
			Bounded: &domain.BoundedResult{
				Presses:   1000,
				Counts:    domain.Counts{Low: 4250, High: 2750},
				Period:    &domain.Period{Start: 0, Length: 4},
				Simulated: 4,
			},
		}
		require.NoError(t, cache.Put(ctx, key, result), "Put should not return error")

		loaded, err := cache.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, result, loaded)
	})

	t.Run("Overwrite", func(t *testing.T) {
		result := &domain.Result{
			Kind: domain.ResultTarget,
			Target: &domain.TargetResult{
				Target:  "rx",
				Choke:   "gate",
				Signals: []domain.SignalFiring{{Source: "a", First: 3}, {Source: "b", First: 4}},
				Presses: 12,
			},
		}
		require.NoError(t, cache.Put(ctx, key, result))

		loaded, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, result, loaded)
	})

	t.Run("Get Missing", func(t *testing.T) {
		_, err := cache.Get(ctx, "missing-"+key)
		assert.ErrorIs(t, err, domain.ErrResultNotFound)
	})
}

// RunGraphLoaderContract verifies that a GraphLoader returns want, in order,
// and returns the same definitions when asked again.
func RunGraphLoaderContract(t *testing.T, loader GraphLoader, want []domain.ModuleSpec) {
	t.Helper()
	ctx := context.Background()

	t.Run("LoadModules", func(t *testing.T) {
		specs, err := loader.LoadModules(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, specs)
	})

	t.Run("LoadModules Again", func(t *testing.T) {
		first, err := loader.LoadModules(ctx)
		require.NoError(t, err)
		second, err := loader.LoadModules(ctx)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}
