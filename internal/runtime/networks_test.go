package runtime_test

import (
	"testing"

	"github.com/aretw0/pulsegraph/internal/compiler"
	"github.com/aretw0/pulsegraph/internal/runtime"
	"github.com/aretw0/pulsegraph/pkg/domain"
	"github.com/stretchr/testify/require"
)

// A single flip-flop loop closed by an inverter.
const loopNetwork = `
broadcaster -> a, b, c
%a -> b
%b -> c
%c -> inv
&inv -> a
`

// Two flip-flops, an inverter and a conjunction driving a sink.
const chainNetwork = `
broadcaster -> a
%a -> inv, con
&inv -> b
%b -> con
&con -> output
`

// Four independent counters with periods 3, 4, 6 and 7 feeding gate.
const counterNetwork = `
broadcaster -> a0, b0, c0, d0

# period 3
%a0 -> a1, ca
%a1 -> ca
&ca -> a0, ia
&ia -> gate

# period 4
%b0 -> b1
%b1 -> ib
&ib -> gate

# period 6: the period 3 counter halved by a flip-flop
%c0 -> c1, cc
%c1 -> cc
&cc -> c0, cd
%cd -> ic
&ic -> gate

# period 7
%d0 -> d1, cdd
%d1 -> d2, cdd
%d2 -> cdd
&cdd -> d0, id
&id -> gate

&gate -> rx
`

// A conjunction feeding itself: every pulse it receives sends another.
const runawayNetwork = `
broadcaster -> c
&c -> c
`

// Settles into a period of 4 from press 1: d only reaches its steady
// state after the first press, while f and g count to 4.
const delayedNetwork = `
broadcaster -> c, f
&c -> d
&d -> e
%f -> g
%g -> h
`

func build(t *testing.T, text string) *runtime.Graph {
	t.Helper()
	specs, err := compiler.NewParser().Parse([]byte(text))
	require.NoError(t, err)
	g, err := runtime.Build(specs)
	require.NoError(t, err)
	return g
}

func newEngine(t *testing.T, text string, opts ...runtime.EngineOption) *runtime.Engine {
	t.Helper()
	return runtime.NewEngine(build(t, text), opts...)
}

func trigger(t *testing.T, e *runtime.Engine) domain.Counts {
	t.Helper()
	c, err := e.Trigger()
	require.NoError(t, err)
	return c
}
