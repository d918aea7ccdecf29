package runtime

import "encoding/hex"

// Fingerprint is an immutable snapshot of every stateful module: one bit per
// flip-flop followed by one bit per conjunction input, in arena order. Two
// fingerprints of the same graph are equal iff the states are equal, and the
// value can be used as a map key.
type Fingerprint string

// String returns the packed state as hex.
func (f Fingerprint) String() string { return hex.EncodeToString([]byte(f)) }

// Fingerprint captures the current state. It does not modify the graph.
func (g *Graph) Fingerprint() Fingerprint {
	buf := make([]byte, (g.stateBits+7)/8)
	bit := 0
	set := func(v bool) {
		if v {
			buf[bit>>3] |= 1 << (bit & 7)
		}
		bit++
	}
	for _, i := range g.flipflops {
		set(g.modules[i].on)
	}
	for _, i := range g.conjunctions {
		for _, v := range g.modules[i].memory {
			set(v)
		}
	}
	return Fingerprint(buf)
}
