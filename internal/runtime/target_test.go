package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/pulsegraph/internal/runtime"
	"github.com/aretw0/pulsegraph/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunUntilTarget(t *testing.T) {
	var signals []*domain.SignalEvent
	e := newEngine(t, counterNetwork, runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnSignal: func(_ context.Context, ev *domain.SignalEvent) { signals = append(signals, ev) },
	}))

	res, err := e.RunUntilTarget(context.Background(), "rx")
	require.NoError(t, err)

	assert.Equal(t, int64(84), res.Presses)
	assert.False(t, res.Direct)
	assert.Equal(t, "rx", res.Target)
	assert.Equal(t, "gate", res.Choke)
	assert.Equal(t, []domain.SignalFiring{
		{Source: "ia", First: 3},
		{Source: "ib", First: 4},
		{Source: "ic", First: 6},
		{Source: "id", First: 7},
	}, res.Signals)

	require.Len(t, signals, 4)
	for i, s := range res.Signals {
		assert.Equal(t, domain.EventSignal, signals[i].Type)
		assert.Equal(t, s.Source, signals[i].Source)
		assert.Equal(t, s.First, signals[i].Press)
	}

	// The scan stops once every input has fired twice.
	assert.Equal(t, int64(14), e.Presses())
}

func TestRunUntilTarget_Direct(t *testing.T) {
	e := newEngine(t, `
broadcaster -> a
%a -> gate
&gate -> rx
`)
	res, err := e.RunUntilTarget(context.Background(), "rx")
	require.NoError(t, err)
	assert.True(t, res.Direct)
	assert.Equal(t, int64(1), res.Presses)
}

func TestRunUntilTarget_RestoresObserver(t *testing.T) {
	seen := 0
	e := newEngine(t, counterNetwork, runtime.WithObserver(func(int, int, domain.PulseType) { seen++ }))

	_, err := e.RunUntilTarget(context.Background(), "rx")
	require.NoError(t, err)
	assert.Positive(t, seen)

	before := seen
	c := trigger(t, e)
	assert.Equal(t, before+int(c.Total()), seen)
}

func TestRunUntilTarget_Errors(t *testing.T) {
	tests := []struct {
		name    string
		network string
		target  string
		opts    []runtime.EngineOption
		wantErr error
	}{
		{
			name:    "unknown target",
			network: counterNetwork,
			target:  "nowhere",
			wantErr: domain.ErrUnknownModule,
		},
		{
			name:    "target without inputs",
			network: counterNetwork,
			target:  "broadcaster",
			wantErr: domain.ErrUnsupportedTopology,
		},
		{
			name: "several predecessors",
			network: `
broadcaster -> a, b
%a -> rx
%b -> rx
`,
			target:  "rx",
			wantErr: domain.ErrUnsupportedTopology,
		},
		{
			name: "predecessor is not a conjunction",
			network: `
broadcaster -> a
%a -> rx
`,
			target:  "rx",
			wantErr: domain.ErrUnsupportedTopology,
		},
		{
			name: "shared subnetwork",
			network: `
broadcaster -> a
%a -> x, y
&x -> gate
&y -> gate
&gate -> rx
`,
			target:  "rx",
			wantErr: domain.ErrUnsupportedTopology,
		},
		{
			name: "feedback from the choke point",
			network: `
broadcaster -> a
%a -> gate
&gate -> rx, a
`,
			target:  "rx",
			wantErr: domain.ErrUnsupportedTopology,
		},
		{
			name: "input not driven by the broadcaster",
			network: `
broadcaster -> a
%a -> gate
%idle -> gate
&gate -> rx
`,
			target:  "rx",
			wantErr: domain.ErrUnsupportedTopology,
		},
		{
			name:    "bound exceeded",
			network: counterNetwork,
			target:  "rx",
			opts:    []runtime.EngineOption{runtime.WithMaxTriggers(10)},
			wantErr: domain.ErrBoundExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t, tt.network, tt.opts...)
			_, err := e.RunUntilTarget(context.Background(), tt.target)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRunUntilTarget_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := newEngine(t, counterNetwork)
	_, err := e.RunUntilTarget(ctx, "rx")
	assert.ErrorIs(t, err, context.Canceled)
}
