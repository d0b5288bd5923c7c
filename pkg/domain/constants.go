package domain

import "time"

// Heuristic tuning values. They have no formal derivation and are overridable
// through the engine limits.
const (
	// DefaultCheckInterval is the number of dispatched messages between checkpoints.
	DefaultCheckInterval = 10

	// DefaultStagnationChecks is the number of consecutive checkpoints without
	// potential improvement that forces completion.
	DefaultStagnationChecks = 5

	// DefaultMaxIterations is the hard ceiling of dispatched messages per run.
	DefaultMaxIterations = 200

	// DefaultTwoColorThreshold is the dominant share required by a two-color stack
	// in an infeasible run.
	DefaultTwoColorThreshold = 0.80

	// DefaultThreshold is the dominant share required by any other stack in an
	// infeasible run.
	DefaultThreshold = 0.60

	// DefaultStepDelay is the pause between iterations offered to observers.
	DefaultStepDelay time.Duration = 0
)
