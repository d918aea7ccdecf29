package domain

// PulseType is the value carried by a pulse. The zero value is Low.
type PulseType uint8

const (
	Low PulseType = iota
	High
)

// String implements fmt.Stringer.
func (p PulseType) String() string {
	if p == High {
		return "high"
	}
	return "low"
}

// Pulse is a single signal travelling between two modules during a button press.
type Pulse struct {
	From string    `json:"from"`
	To   string    `json:"to"`
	Type PulseType `json:"type"`
}
