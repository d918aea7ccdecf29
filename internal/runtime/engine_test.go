package runtime_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/pulsegraph/internal/runtime"
	"github.com/aretw0/pulsegraph/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Trigger(t *testing.T) {
	t.Run("loop network", func(t *testing.T) {
		e := newEngine(t, loopNetwork)
		assert.Equal(t, domain.Counts{Low: 8, High: 4}, trigger(t, e))
		assert.Equal(t, int64(1), e.Presses())
	})

	t.Run("chain network", func(t *testing.T) {
		e := newEngine(t, chainNetwork)
		assert.Equal(t, domain.Counts{Low: 4, High: 4}, trigger(t, e))
	})
}

func TestEngine_DeliveryOrder(t *testing.T) {
	var got []string
	g := build(t, loopNetwork)
	e := runtime.NewEngine(g, runtime.WithObserver(func(from, to int, p domain.PulseType) {
		src := "button"
		if from >= 0 {
			src = g.Name(from)
		}
		got = append(got, src+" -"+p.String()+"-> "+g.Name(to))
	}))

	trigger(t, e)

	want := []string{
		"button -low-> broadcaster",
		"broadcaster -low-> a",
		"broadcaster -low-> b",
		"broadcaster -low-> c",
		"a -high-> b",
		"b -high-> c",
		"c -high-> inv",
		"inv -low-> a",
		"a -low-> b",
		"b -low-> c",
		"c -low-> inv",
		"inv -high-> a",
	}
	assert.Equal(t, want, got)
}

func TestEngine_Press(t *testing.T) {
	var events []*domain.TriggerEvent
	e := newEngine(t, chainNetwork, runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnTrigger: func(_ context.Context, ev *domain.TriggerEvent) { events = append(events, ev) },
	}))

	total, err := e.Press(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, events, 3)

	var sum domain.Counts
	for i, ev := range events {
		assert.Equal(t, domain.EventTrigger, ev.Type)
		assert.Equal(t, int64(i+1), ev.Press)
		sum = sum.Add(ev.Counts)
	}
	assert.Equal(t, sum, total)
}

func TestEngine_PressCancelled(t *testing.T) {
	e := newEngine(t, chainNetwork)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Press(ctx, 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, e.Presses())
}

func TestEngine_Deterministic(t *testing.T) {
	for _, text := range []string{loopNetwork, chainNetwork, counterNetwork} {
		a := newEngine(t, text)
		b := newEngine(t, text)
		for i := 0; i < 50; i++ {
			require.Equal(t, trigger(t, a), trigger(t, b))
			require.Equal(t, a.Graph().Fingerprint(), b.Graph().Fingerprint())
		}
	}
}

func TestEngine_Reset(t *testing.T) {
	e := newEngine(t, chainNetwork)
	initial := e.Graph().Fingerprint()
	first := trigger(t, e)

	trigger(t, e)
	e.Reset()

	assert.Zero(t, e.Presses())
	assert.Equal(t, initial, e.Graph().Fingerprint())
	assert.Equal(t, first, trigger(t, e))
}

func TestEngine_Options(t *testing.T) {
	g := build(t, chainNetwork)

	e := runtime.NewEngine(g)
	assert.Equal(t, runtime.DefaultMaxTriggers, e.MaxTriggers())

	e = runtime.NewEngine(g, runtime.WithMaxTriggers(42), runtime.WithLogger(nil))
	assert.Equal(t, int64(42), e.MaxTriggers())

	e = runtime.NewEngine(g, runtime.WithMaxTriggers(-1))
	assert.Equal(t, runtime.DefaultMaxTriggers, e.MaxTriggers())

	// six edges in the chain network
	assert.Equal(t, 7*runtime.DefaultPulsesPerEdge, e.MaxPulses())
	e = runtime.NewEngine(g, runtime.WithMaxPulses(8))
	assert.Equal(t, int64(8), e.MaxPulses())
	e = runtime.NewEngine(g, runtime.WithMaxPulses(0))
	assert.Equal(t, 7*runtime.DefaultPulsesPerEdge, e.MaxPulses())
}

func TestEngine_RunawayPress(t *testing.T) {
	// The counter network with a self-feeding branch that never reaches rx.
	withRunaway := strings.Replace(counterNetwork, "broadcaster -> a0, b0, c0, d0", "broadcaster -> a0, b0, c0, d0, s", 1) + "&s -> s\n"

	tests := []struct {
		name string
		run  func(e *runtime.Engine) error
	}{
		{"trigger", func(e *runtime.Engine) error {
			_, err := e.Trigger()
			return err
		}},
		{"press", func(e *runtime.Engine) error {
			_, err := e.Press(context.Background(), 3)
			return err
		}},
		{"run bounded", func(e *runtime.Engine) error {
			_, err := e.RunBounded(context.Background(), 5)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t, runawayNetwork, runtime.WithMaxTriggers(10))
			err := tt.run(e)
			assert.ErrorIs(t, err, domain.ErrBoundExceeded)
			assert.Zero(t, e.Presses())
		})
	}

	t.Run("run until target", func(t *testing.T) {
		e := newEngine(t, withRunaway)
		_, err := e.RunUntilTarget(context.Background(), "rx")
		assert.ErrorIs(t, err, domain.ErrBoundExceeded)
	})

	t.Run("abandoned press leaves the graph for reset", func(t *testing.T) {
		e := newEngine(t, chainNetwork, runtime.WithMaxPulses(3))
		initial := e.Graph().Fingerprint()
		_, err := e.Trigger()
		require.ErrorIs(t, err, domain.ErrBoundExceeded)
		assert.NotEqual(t, initial, e.Graph().Fingerprint())

		e.Reset()
		assert.Equal(t, initial, e.Graph().Fingerprint())
	})
}
