package runtime

import "github.com/aretw0/pulsegraph/pkg/domain"

// edge is an output wire resolved at build time.
type edge struct {
	to   int // destination module index
	slot int // input slot in the destination conjunction, -1 otherwise
}

// module is a tagged variant: kind selects which of the state fields are live.
type module struct {
	name    string
	kind    domain.ModuleKind
	outputs []edge

	// flip-flop
	on bool

	// conjunction
	inputs []int  // source module index per slot
	memory []bool // true when the last pulse from that slot was high
	highs  int    // number of true entries in memory
}

// receive applies one pulse to the module and returns the pulse type it emits
// to every output, if any.
func (m *module) receive(slot int, p domain.PulseType) (domain.PulseType, bool) {
	switch m.kind {
	case domain.KindBroadcaster:
		return p, true

	case domain.KindFlipFlop:
		if p == domain.High {
			return domain.Low, false
		}
		m.on = !m.on
		if m.on {
			return domain.High, true
		}
		return domain.Low, true

	case domain.KindConjunction:
		high := p == domain.High
		if m.memory[slot] != high {
			m.memory[slot] = high
			if high {
				m.highs++
			} else {
				m.highs--
			}
		}
		if m.highs == len(m.memory) {
			return domain.Low, true
		}
		return domain.High, true
	}

	// sinks swallow everything
	return domain.Low, false
}

func (m *module) reset() {
	m.on = false
	for i := range m.memory {
		m.memory[i] = false
	}
	m.highs = 0
}
