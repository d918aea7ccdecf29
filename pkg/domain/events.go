package domain

import "context"

// EventType defines the category of the event.
type EventType string

const (
	EventTrigger EventType = "trigger"
	EventPeriod  EventType = "period"
	EventSignal  EventType = "signal"
)

// TriggerEvent is emitted after a button press has fully drained.
type TriggerEvent struct {
	Type   EventType `json:"type"`
	Press  int64     `json:"press"`
	Counts Counts    `json:"counts"`
}

// PeriodEvent is emitted when the bounded query finds a repeated state.
type PeriodEvent struct {
	Type   EventType `json:"type"`
	Press  int64     `json:"press"`
	Period Period    `json:"period"`
}

// SignalEvent is emitted the first time an input of the choke point fires.
type SignalEvent struct {
	Type   EventType `json:"type"`
	Source string    `json:"source"`
	Press  int64     `json:"press"`
}

// LifecycleHooks defines callbacks for runtime observability.
type LifecycleHooks struct {
	OnTrigger func(context.Context, *TriggerEvent)
	OnPeriod  func(context.Context, *PeriodEvent)
	OnSignal  func(context.Context, *SignalEvent)
}
