package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventInitialized      EventType = "initialized"
	EventStarting         EventType = "starting"
	EventIterationChecked EventType = "iteration_checked"
	EventCompleted        EventType = "completed"
	EventWarning          EventType = "warning"
	EventReset            EventType = "reset"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     int       `json:"run_id"`
}

// RunEvent describes the run set up by initialization, reset or start.
type RunEvent struct {
	EventBase
	Processes int  `json:"processes"`
	Tokens    int  `json:"tokens"`
	Feasible  bool `json:"feasible"`
}

// IterationEvent is emitted at every checkpoint of the driver loop.
type IterationEvent struct {
	EventBase
	Iteration      int `json:"iteration"`
	Potential      int `json:"potential"`
	BestPotential  int `json:"best_potential"`
	StagnantChecks int `json:"stagnant_checks"`
	Conflicts      int `json:"conflicts"`
	Exchanges      int `json:"exchanges"`
}

// CompletionEvent is emitted once per run when it ends.
type CompletionEvent struct {
	EventBase
	Iteration int              `json:"iteration"`
	Exchanges int              `json:"exchanges"`
	Potential int              `json:"potential"`
	Forced    bool             `json:"forced"`
	Reason    CompletionReason `json:"reason"`
}

// WarningEvent reports an abnormal but handled situation.
type WarningEvent struct {
	EventBase
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Nil callbacks are skipped.
type LifecycleHooks struct {
	OnInitialized      func(context.Context, *RunEvent)
	OnStarting         func(context.Context, *RunEvent)
	OnIterationChecked func(context.Context, *IterationEvent)
	OnCompleted        func(context.Context, *CompletionEvent)
	OnWarning          func(context.Context, *WarningEvent)
	OnReset            func(context.Context, *RunEvent)
}
