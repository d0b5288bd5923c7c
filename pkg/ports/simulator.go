package ports

import (
	"context"

	"github.com/aretw0/colorsort/pkg/domain"
)

// Simulator is the surface transport adapters (HTTP, MCP, CLI) drive.
type Simulator interface {
	// Start runs the protocol to completion. Fails with domain.ErrAlreadyRunning on re-entry.
	Start(ctx context.Context) error

	// Reset reinitializes the run. A nil distribution reuses the previous one.
	Reset(ctx context.Context, dist domain.Distribution) error

	// State returns a point-in-time snapshot.
	State() domain.SystemState

	// History returns the snapshots of the current run.
	History(ctx context.Context) ([]domain.SystemState, error)

	// Potential returns the current potential.
	Potential() int
}
