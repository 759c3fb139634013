package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart       EventType = "run_start"
	EventStep           EventType = "step"
	EventRunEnd         EventType = "run_end"
	EventTriggerDropped EventType = "trigger_dropped"
	EventStatus         EventType = "status"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// RunEvent represents the start of an instance or a trigger that was dropped.
type RunEvent struct {
	EventBase
	InstanceID string `json:"instance_id,omitempty"`
	MacroName  string `json:"macro"`
	Combo      Combo  `json:"combo"`
}

// StepEvent represents the completion of one step.
type StepEvent struct {
	EventBase
	InstanceID string        `json:"instance_id"`
	MacroName  string        `json:"macro"`
	Index      int           `json:"index"`
	Action     Action        `json:"action"`
	Duration   time.Duration `json:"duration"`
	Err        error         `json:"-"`
}

// EndEvent carries the terminal result of an instance.
type EndEvent struct {
	EventBase
	Result RunResult `json:"result"`
}

// LifecycleHooks defines callbacks for engine observability.
// Nil callbacks are skipped.
type LifecycleHooks struct {
	OnRunStart       func(context.Context, *RunEvent)
	OnStep           func(context.Context, *StepEvent)
	OnRunEnd         func(context.Context, *EndEvent)
	OnTriggerDropped func(context.Context, *RunEvent)
}

// CombineHooks returns hooks that call each of the given hooks in order.
func CombineHooks(all ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *RunEvent) {
			for _, h := range all {
				if h.OnRunStart != nil {
					h.OnRunStart(ctx, e)
				}
			}
		},
		OnStep: func(ctx context.Context, e *StepEvent) {
			for _, h := range all {
				if h.OnStep != nil {
					h.OnStep(ctx, e)
				}
			}
		},
		OnRunEnd: func(ctx context.Context, e *EndEvent) {
			for _, h := range all {
				if h.OnRunEnd != nil {
					h.OnRunEnd(ctx, e)
				}
			}
		},
		OnTriggerDropped: func(ctx context.Context, e *RunEvent) {
			for _, h := range all {
				if h.OnTriggerDropped != nil {
					h.OnTriggerDropped(ctx, e)
				}
			}
		},
	}
}
