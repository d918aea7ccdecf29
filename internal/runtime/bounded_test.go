package runtime_test

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/aretw0/pulsegraph/internal/runtime"
	"github.com/aretw0/pulsegraph/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBounded(t *testing.T) {
	tests := []struct {
		name    string
		network string
		presses int64
		want    domain.Counts
		product int64
	}{
		{"chain one press", chainNetwork, 1, domain.Counts{Low: 4, High: 4}, 16},
		{"chain thousand presses", chainNetwork, 1000, domain.Counts{Low: 4250, High: 2750}, 11687500},
		{"loop thousand presses", loopNetwork, 1000, domain.Counts{Low: 8000, High: 4000}, 32000000},
		{"zero presses", loopNetwork, 0, domain.Counts{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t, tt.network)
			res, err := e.RunBounded(context.Background(), tt.presses)
			require.NoError(t, err)
			assert.Equal(t, tt.presses, res.Presses)
			assert.Equal(t, tt.want, res.Counts)
			assert.Equal(t, tt.product, res.Counts.Product())
		})
	}
}

func TestRunBounded_MatchesDirectSimulation(t *testing.T) {
	presses := []int64{1, 2, 3, 4, 5, 7, 11, 29, 84, 85, 100, 168, 999, 1000, 1234, 5000}

	for name, text := range map[string]string{
		"loop":     loopNetwork,
		"chain":    chainNetwork,
		"counters": counterNetwork,
	} {
		for _, n := range presses {
			t.Run(fmt.Sprintf("%s/%d", name, n), func(t *testing.T) {
				direct := newEngine(t, text)
				want, err := direct.Press(context.Background(), n)
				require.NoError(t, err)

				e := newEngine(t, text)
				res, err := e.RunBounded(context.Background(), n)
				require.NoError(t, err)
				assert.Equal(t, want, res.Counts)
				assert.LessOrEqual(t, res.Simulated, n)
			})
		}
	}
}

func TestRunBounded_Period(t *testing.T) {
	var periods []*domain.PeriodEvent
	e := newEngine(t, loopNetwork, runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnPeriod: func(_ context.Context, ev *domain.PeriodEvent) { periods = append(periods, ev) },
	}))

	res, err := e.RunBounded(context.Background(), 1000)
	require.NoError(t, err)

	// Every press of the loop network returns it to the initial state.
	require.NotNil(t, res.Period)
	assert.Equal(t, domain.Period{Start: 0, Length: 1}, *res.Period)
	assert.Equal(t, int64(1), res.Simulated)
	require.Len(t, periods, 1)
	assert.Equal(t, *res.Period, periods[0].Period)
}

func TestRunBounded_DelayedPeriod(t *testing.T) {
	res, err := newEngine(t, delayedNetwork).RunBounded(context.Background(), 1000)
	require.NoError(t, err)
	require.NotNil(t, res.Period)
	assert.Equal(t, domain.Period{Start: 1, Length: 4}, *res.Period)
	// the repeat shows at press 5, then 995 % 4 presses finish the request
	assert.Equal(t, int64(8), res.Simulated)

	for n := int64(1); n <= 100; n++ {
		want, err := newEngine(t, delayedNetwork).Press(context.Background(), n)
		require.NoError(t, err)

		res, err := newEngine(t, delayedNetwork).RunBounded(context.Background(), n)
		require.NoError(t, err)
		require.Equal(t, want, res.Counts, "presses %d", n)
	}
}

func TestRunBounded_NoRepeatWithinRequest(t *testing.T) {
	e := newEngine(t, counterNetwork)
	res, err := e.RunBounded(context.Background(), 5)
	require.NoError(t, err)
	assert.Nil(t, res.Period)
	assert.Equal(t, int64(5), res.Simulated)
}

func TestRunBounded_Errors(t *testing.T) {
	t.Run("bound exceeded", func(t *testing.T) {
		e := newEngine(t, counterNetwork, runtime.WithMaxTriggers(10))
		_, err := e.RunBounded(context.Background(), 1000)
		assert.ErrorIs(t, err, domain.ErrBoundExceeded)
	})

	t.Run("within bound", func(t *testing.T) {
		e := newEngine(t, counterNetwork, runtime.WithMaxTriggers(10))
		res, err := e.RunBounded(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, int64(10), res.Simulated)
	})

	t.Run("counts overflow", func(t *testing.T) {
		e := newEngine(t, loopNetwork)
		_, err := e.RunBounded(context.Background(), math.MaxInt64)
		assert.ErrorIs(t, err, domain.ErrBoundExceeded)
	})

	t.Run("largest press count that fits", func(t *testing.T) {
		// 12 pulses per press of the loop network
		n := int64(math.MaxInt64 / 12)
		res, err := newEngine(t, loopNetwork).RunBounded(context.Background(), n)
		require.NoError(t, err)
		assert.Equal(t, domain.Counts{Low: 8 * n, High: 4 * n}, res.Counts)
	})

	t.Run("negative presses", func(t *testing.T) {
		e := newEngine(t, chainNetwork)
		_, err := e.RunBounded(context.Background(), -1)
		assert.Error(t, err)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		e := newEngine(t, chainNetwork)
		_, err := e.RunBounded(ctx, 1000)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRunBounded_Repeatable(t *testing.T) {
	e := newEngine(t, chainNetwork)
	first, err := e.RunBounded(context.Background(), 1000)
	require.NoError(t, err)

	trigger(t, e)
	second, err := e.RunBounded(context.Background(), 1000)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
