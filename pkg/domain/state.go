package domain

import "fmt"

// RunStatus is the lifecycle stage of a run.
type RunStatus string

const (
	StatusIdle           RunStatus = "idle"
	StatusRunning        RunStatus = "running"
	StatusCompleted      RunStatus = "completed"
	StatusForceCompleted RunStatus = "force_completed"
)

// CompletionReason tells how a run ended.
type CompletionReason string

const (
	ReasonConverged      CompletionReason = "converged"
	ReasonStagnation     CompletionReason = "stagnation"
	ReasonIterationLimit CompletionReason = "iteration_limit"
	ReasonStalled        CompletionReason = "stalled"
)

// SystemState is a read-only snapshot of the engine.
// It never aliases live engine state.
type SystemState struct {
	Processes       []Process        `json:"processes"`
	PendingMessages []Message        `json:"pending_messages"`
	TotalExchanges  int              `json:"total_exchanges"`
	Complete        bool             `json:"complete"`
	Status          RunStatus        `json:"status"`
	Iteration       int              `json:"iteration"`
	Potential       int              `json:"potential"`
	Reason          CompletionReason `json:"reason,omitempty"`
}

// Process returns the snapshot of the process with the given id.
func (s SystemState) Process(id ProcessID) (Process, bool) {
	for _, p := range s.Processes {
		if p.ID == id {
			return p, true
		}
	}
	return Process{}, false
}

// Forced reports whether the run was ended by a safety valve.
func (s SystemState) Forced() bool {
	return s.Status == StatusForceCompleted
}

// ColorTotals counts tokens per color held in stacks plus tokens in flight.
func (s SystemState) ColorTotals() map[Color]int {
	totals := make(map[Color]int)
	for _, p := range s.Processes {
		for _, c := range p.Stack {
			totals[c]++
		}
	}
	for _, m := range s.PendingMessages {
		if m.CarriesToken() {
			totals[m.Color]++
		}
	}
	return totals
}

// CheckConservation verifies that the snapshot holds exactly the expected
// per-color token totals.
func CheckConservation(expected map[Color]int, s SystemState) error {
	got := s.ColorTotals()
	for c, n := range expected {
		if got[c] != n {
			return fmt.Errorf("color %q: expected %d tokens, found %d: %w", c, n, got[c], ErrConservationViolated)
		}
	}
	for c, n := range got {
		if _, ok := expected[c]; !ok && n > 0 {
			return fmt.Errorf("color %q appeared with %d tokens: %w", c, n, ErrConservationViolated)
		}
	}
	return nil
}

// Clone returns a deep copy of the snapshot.
func (s SystemState) Clone() SystemState {
	c := s
	c.Processes = make([]Process, len(s.Processes))
	for i, p := range s.Processes {
		c.Processes[i] = p.Clone()
	}
	c.PendingMessages = append([]Message(nil), s.PendingMessages...)
	return c
}
