package ports

import (
	"context"

	"github.com/aretw0/colorsort/pkg/domain"
)

// HistoryStore records the snapshots of a run, in order.
type HistoryStore interface {
	// Append adds a snapshot at the end of the history.
	Append(ctx context.Context, state domain.SystemState) error

	// List returns all snapshots in append order.
	List(ctx context.Context) ([]domain.SystemState, error)

	// Len returns the number of recorded snapshots.
	Len(ctx context.Context) (int, error)

	// Clear drops every snapshot. Called when a run is reset.
	Clear(ctx context.Context) error
}
