package domain

// ResultKind identifies which query produced a Result.
type ResultKind string

const (
	ResultBounded ResultKind = "bounded"
	ResultTarget  ResultKind = "target"
)

// Period describes a cycle in the sequence of whole-graph states: the state
// reached after Start presses is reached again after Start+Length presses.
type Period struct {
	Start  int64 `json:"start"`
	Length int64 `json:"length"`
}

// BoundedResult is the answer to "how many pulses after N presses".
type BoundedResult struct {
	Presses int64  `json:"presses"`
	Counts  Counts `json:"counts"`
	// Period is nil when the answer was obtained by direct simulation only.
	Period *Period `json:"period,omitempty"`
	// Simulated is the number of presses actually executed.
	Simulated int64 `json:"simulated"`
}

// SignalFiring records the first press at which an input of the choke point
// sent it a high pulse.
type SignalFiring struct {
	Source string `json:"source"`
	First  int64  `json:"first"`
}

// TargetResult is the answer to "how many presses until the target receives a low pulse".
type TargetResult struct {
	Target  string         `json:"target"`
	Choke   string         `json:"choke,omitempty"`
	Signals []SignalFiring `json:"signals,omitempty"`
	Presses int64          `json:"presses"`
	// Direct is true when the target was observed receiving a low pulse
	// during the scan, instead of the answer being combined from periods.
	Direct bool `json:"direct,omitempty"`
}

// Result is the cacheable envelope around both kinds of answers.
type Result struct {
	Kind    ResultKind     `json:"kind"`
	Bounded *BoundedResult `json:"bounded,omitempty"`
	Target  *TargetResult  `json:"target,omitempty"`
}

// Clone returns a deep copy of r.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	out := &Result{Kind: r.Kind}
	if r.Bounded != nil {
		b := *r.Bounded
		if b.Period != nil {
			p := *b.Period
			b.Period = &p
		}
		out.Bounded = &b
	}
	if r.Target != nil {
		t := *r.Target
		if t.Signals != nil {
			t.Signals = append([]SignalFiring(nil), t.Signals...)
		}
		out.Target = &t
	}
	return out
}
