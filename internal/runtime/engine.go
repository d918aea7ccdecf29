package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/pulsegraph/pkg/domain"
)

// DefaultMaxTriggers bounds the number of presses a query may simulate.
const DefaultMaxTriggers int64 = 1_000_000

// DefaultPulsesPerEdge sizes the per-press pulse bound: a press may deliver at
// most this many pulses per edge of the graph before it is abandoned.
const DefaultPulsesPerEdge int64 = 10_000

// button is the source index of the pulse injected by every press.
const button = -1

// Observer sees every pulse as it is delivered, in delivery order.
// from is -1 for the button pulse.
type Observer func(from, to int, p domain.PulseType)

type pulse struct {
	from, to, slot int
	typ            domain.PulseType
}

// Engine is the pulse propagation engine. It is the sole mutator of its Graph
// and is not safe for concurrent use.
type Engine struct {
	graph       *Graph
	queue       []pulse
	presses     int64
	maxTriggers int64
	maxPulses   int64
	observer    Observer
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithMaxTriggers sets the safety bound of the queries. Values <= 0 keep the default.
func WithMaxTriggers(n int64) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxTriggers = n
		}
	}
}

// WithMaxPulses bounds the pulses a single press may deliver. Values <= 0
// keep the default derived from the edge count.
func WithMaxPulses(n int64) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxPulses = n
		}
	}
}

// WithObserver installs a pulse observer.
func WithObserver(o Observer) EngineOption {
	return func(e *Engine) {
		e.observer = o
	}
}

// NewEngine creates an engine driving g.
func NewEngine(g *Graph, opts ...EngineOption) *Engine {
	e := &Engine{
		graph:       g,
		maxTriggers: DefaultMaxTriggers,
		maxPulses:   (int64(g.Edges()) + 1) * DefaultPulsesPerEdge,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Graph returns the graph driven by the engine.
func (e *Engine) Graph() *Graph { return e.graph }

// Presses returns the number of presses since the last Reset.
func (e *Engine) Presses() int64 { return e.presses }

// MaxTriggers returns the safety bound of the queries.
func (e *Engine) MaxTriggers() int64 { return e.maxTriggers }

// MaxPulses returns the number of pulses a single press may deliver.
func (e *Engine) MaxPulses() int64 { return e.maxPulses }

// Reset restores the graph to its initial state.
func (e *Engine) Reset() {
	e.graph.Reset()
	e.presses = 0
}

// Trigger presses the button once: a low pulse goes from the button to the
// broadcaster and every resulting pulse is processed in the order it was sent
// until none remain. It returns the pulses delivered during this press,
// including the button pulse.
//
// A press that is still propagating after MaxPulses pulses is abandoned with
// ErrBoundExceeded. The graph is then left mid-press and must be Reset.
func (e *Engine) Trigger() (domain.Counts, error) {
	var c domain.Counts
	g := e.graph

	e.queue = append(e.queue[:0], pulse{from: button, to: g.broadcaster, slot: -1, typ: domain.Low})
	for head := 0; head < len(e.queue); head++ {
		if int64(head) >= e.maxPulses {
			e.queue = e.queue[:0]
			return c, fmt.Errorf("press %d still propagating after %d pulses: %w",
				e.presses+1, e.maxPulses, domain.ErrBoundExceeded)
		}
		p := e.queue[head]
		if p.typ == domain.High {
			c.High++
		} else {
			c.Low++
		}
		if e.observer != nil {
			e.observer(p.from, p.to, p.typ)
		}

		m := &g.modules[p.to]
		out, ok := m.receive(p.slot, p.typ)
		if !ok {
			continue
		}
		for _, o := range m.outputs {
			e.queue = append(e.queue, pulse{from: p.to, to: o.to, slot: o.slot, typ: out})
		}
	}
	e.presses++
	return c, nil
}

// press runs one Trigger and reports it to the hooks.
func (e *Engine) press(ctx context.Context) (domain.Counts, error) {
	c, err := e.Trigger()
	if err != nil {
		return c, err
	}
	if e.hooks.OnTrigger != nil {
		e.hooks.OnTrigger(ctx, &domain.TriggerEvent{
			Type:   domain.EventTrigger,
			Press:  e.presses,
			Counts: c,
		})
	}
	return c, nil
}

// Press runs n presses, reporting each to the hooks, and returns their total.
// ctx is checked between presses.
func (e *Engine) Press(ctx context.Context, n int64) (domain.Counts, error) {
	var total domain.Counts
	for i := int64(0); i < n; i++ {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		c, err := e.press(ctx)
		if err != nil {
			return total, err
		}
		total = total.Add(c)
	}
	return total, nil
}
