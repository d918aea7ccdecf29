package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/pulsegraph"
	"github.com/aretw0/pulsegraph/pkg/domain"
	"github.com/aretw0/pulsegraph/pkg/dsl"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *pulsegraph.Simulator) {
	t.Helper()
	b := dsl.New()
	b.Broadcaster().To("a")
	b.FlipFlop("a").To("inv", "con")
	b.Conjunction("inv").To("b")
	b.FlipFlop("b").To("con")
	b.Conjunction("con").To("output")

	// x fires every 2 presses, y every 3.
	b.Broadcaster().To("x0", "y0")
	b.FlipFlop("x0").To("ix")
	b.Conjunction("ix").To("gate")
	b.FlipFlop("y0").To("y1", "cy")
	b.FlipFlop("y1").To("cy")
	b.Conjunction("cy").To("y0", "iy")
	b.Conjunction("iy").To("gate")
	b.Conjunction("gate").To("rx")

	loader, err := b.Build()
	require.NoError(t, err)
	sim, err := pulsegraph.New("", pulsegraph.WithLoader(loader))
	require.NoError(t, err)
	return NewServer(sim, nil), sim
}

func TestServer_Tools(t *testing.T) {
	s, _ := newTestServer(t)
	assert.ElementsMatch(t,
		[]string{"run_bounded", "run_until_target", "trigger", "reset", "fingerprint", "get_graph"},
		s.Tools())
	assert.NotNil(t, s.MCPServer())
}

func TestHandleRunBounded(t *testing.T) {
	s, sim := newTestServer(t)
	ctx := context.Background()

	got, err := s.handleRunBounded(ctx, mcp.CallToolRequest{}, BoundedArgs{Presses: 10})
	require.NoError(t, err)

	want, err := sim.RunBounded(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Presses)
	assert.Equal(t, want.Counts.Low, got.Low)
	assert.Equal(t, want.Counts.High, got.High)
	assert.Equal(t, want.Counts.BigProduct().String(), got.Product)

	_, err = s.handleRunBounded(ctx, mcp.CallToolRequest{}, BoundedArgs{Presses: -1})
	assert.Error(t, err)
}

func TestHandleRunUntilTarget(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleRunUntilTarget(ctx, mcp.CallToolRequest{}, TargetArgs{})
	require.NoError(t, err)
	assert.Equal(t, "rx", res.Target)
	assert.Equal(t, "gate", res.Choke)
	assert.Equal(t, int64(6), res.Presses)

	_, err = s.handleRunUntilTarget(ctx, mcp.CallToolRequest{}, TargetArgs{Target: "nowhere"})
	assert.ErrorIs(t, err, domain.ErrUnknownModule)

	_, err = s.handleRunUntilTarget(ctx, mcp.CallToolRequest{}, TargetArgs{Target: "con"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedTopology)
}

func TestHandleTrigger(t *testing.T) {
	s, sim := newTestServer(t)
	ctx := context.Background()
	initial := sim.Fingerprint()

	res, err := s.handleTrigger(ctx, mcp.CallToolRequest{}, TriggerArgs{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Presses)
	assert.Equal(t, sim.Fingerprint(), res.Fingerprint)
	assert.NotEqual(t, initial, res.Fingerprint)

	res, err = s.handleTrigger(ctx, mcp.CallToolRequest{}, TriggerArgs{Count: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Presses)

	_, err = s.handleTrigger(ctx, mcp.CallToolRequest{}, TriggerArgs{Count: -2})
	assert.Error(t, err)
}

func TestResources(t *testing.T) {
	s, sim := newTestServer(t)
	ctx := context.Background()

	contents, err := s.readGraph(ctx, mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, GraphURI, text.URI)

	var specs []domain.ModuleSpec
	require.NoError(t, json.Unmarshal([]byte(text.Text), &specs))
	assert.Equal(t, sim.Inspect()[0].Name, specs[0].Name)
	assert.Len(t, specs, len(sim.Inspect()))

	contents, err = s.readMermaid(ctx, mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok = contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, MermaidURI, text.URI)
	assert.Contains(t, text.Text, "gate{{\"& gate\"}}")
}
