package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTransition EventType = "transition"
	EventRejected   EventType = "rejected"
	EventReset      EventType = "reset"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// TransitionEvent describes an attempt (accepted or rejected) or a reset.
type TransitionEvent struct {
	EventBase
	Variant string      `json:"variant"`
	From    State       `json:"from,omitempty"`
	To      State       `json:"to,omitempty"`
	Symbol  Symbol      `json:"symbol,omitempty"`
	Failure FailureKind `json:"failure,omitempty"`
}

// NewTransitionEvent builds the event matching an outcome.
func NewTransitionEvent(sessionID, variant string, o Outcome) *TransitionEvent {
	typ := EventTransition
	if !o.Success {
		typ = EventRejected
	}
	return &TransitionEvent{
		EventBase: EventBase{Timestamp: time.Now(), Type: typ, SessionID: sessionID},
		Variant:   variant,
		From:      o.Previous,
		To:        o.State,
		Symbol:    o.Symbol,
		Failure:   o.Failure,
	}
}

// LifecycleHooks defines callbacks for session observability.
type LifecycleHooks struct {
	OnTransition func(context.Context, *TransitionEvent)
	OnRejected   func(context.Context, *TransitionEvent)
	OnReset      func(context.Context, *TransitionEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTransition: chain(h.OnTransition, other.OnTransition),
		OnRejected:   chain(h.OnRejected, other.OnRejected),
		OnReset:      chain(h.OnReset, other.OnReset),
	}
}

func chain(a, b func(context.Context, *TransitionEvent)) func(context.Context, *TransitionEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, ev *TransitionEvent) {
		a(ctx, ev)
		b(ctx, ev)
	}
}
