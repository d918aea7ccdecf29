package runtime

import (
	"testing"

	"github.com/aretw0/pulsegraph/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestModule_FlipFlop(t *testing.T) {
	m := &module{kind: domain.KindFlipFlop}

	_, ok := m.receive(-1, domain.High)
	assert.False(t, ok, "high pulses are ignored")
	assert.False(t, m.on)

	out, ok := m.receive(-1, domain.Low)
	assert.True(t, ok)
	assert.Equal(t, domain.High, out)

	out, ok = m.receive(-1, domain.Low)
	assert.True(t, ok)
	assert.Equal(t, domain.Low, out)
	assert.False(t, m.on, "two lows restore the original state")
}

func TestModule_Conjunction(t *testing.T) {
	m := &module{kind: domain.KindConjunction, memory: make([]bool, 3)}

	steps := []struct {
		slot int
		in   domain.PulseType
		want domain.PulseType
	}{
		{0, domain.High, domain.High},
		{1, domain.High, domain.High},
		{1, domain.High, domain.High},
		{2, domain.High, domain.Low},
		{2, domain.High, domain.Low},
		{0, domain.Low, domain.High},
		{0, domain.High, domain.Low},
	}
	for i, s := range steps {
		out, ok := m.receive(s.slot, s.in)
		assert.True(t, ok)
		assert.Equal(t, s.want, out, "step %d", i)
	}
	assert.Equal(t, 3, m.highs)

	m.reset()
	assert.Zero(t, m.highs)
	assert.Equal(t, []bool{false, false, false}, m.memory)
}

func TestModule_UnfedConjunctionEmitsLow(t *testing.T) {
	m := &module{kind: domain.KindConjunction, memory: []bool{}}
	out, ok := m.receive(-1, domain.Low)
	assert.True(t, ok)
	assert.Equal(t, domain.Low, out)
}

func TestModule_BroadcasterAndSink(t *testing.T) {
	b := &module{kind: domain.KindBroadcaster}
	for _, p := range []domain.PulseType{domain.Low, domain.High} {
		out, ok := b.receive(-1, p)
		assert.True(t, ok)
		assert.Equal(t, p, out)
	}

	s := &module{kind: domain.KindSink}
	_, ok := s.receive(-1, domain.Low)
	assert.False(t, ok)
}
