package domain

import (
	"fmt"
	"strings"
)

// ModuleKind selects the transition function of a module.
type ModuleKind string

const (
	// KindBroadcaster re-emits every pulse it receives to all of its outputs.
	KindBroadcaster ModuleKind = "broadcaster"
	// KindFlipFlop toggles on low pulses and ignores high pulses.
	KindFlipFlop ModuleKind = "flipflop"
	// KindConjunction remembers the last pulse of every input and emits low
	// only when all of them were high.
	KindConjunction ModuleKind = "conjunction"
	// KindSink consumes pulses without emitting anything.
	KindSink ModuleKind = "sink"
)

const (
	// BroadcasterName is the module that receives the button pulse.
	BroadcasterName = "broadcaster"
	// ButtonName is the virtual source of every press. It cannot be declared.
	ButtonName = "button"
	// DefaultTarget is the module RunUntilTarget aims at when none is named.
	DefaultTarget = "rx"
)

// Valid reports whether k is one of the known kinds.
func (k ModuleKind) Valid() bool {
	switch k {
	case KindBroadcaster, KindFlipFlop, KindConjunction, KindSink:
		return true
	}
	return false
}

// ModuleSpec is the parsed definition of a module, as produced by a loader.
type ModuleSpec struct {
	Name    string     `json:"name" yaml:"name" mapstructure:"name"`
	Kind    ModuleKind `json:"kind" yaml:"kind" mapstructure:"kind"`
	Outputs []string   `json:"outputs,omitempty" yaml:"outputs,omitempty" mapstructure:"outputs"`
}

// ParseKind accepts the canonical kind names plus the usual spellings found in
// hand written definitions: "flip-flop", "flip_flop", "%" and "&".
func ParseKind(s string) (ModuleKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "broadcaster":
		return KindBroadcaster, nil
	case "flipflop", "flip-flop", "flip_flop", "%":
		return KindFlipFlop, nil
	case "conjunction", "&":
		return KindConjunction, nil
	case "sink", "output":
		return KindSink, nil
	}
	return "", fmt.Errorf("unknown module kind %q: %w", s, ErrInvalidReference)
}
