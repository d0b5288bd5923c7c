package ports

import (
	"context"
	"testing"

	"github.com/aretw0/colorsort/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunHistoryStoreContract runs a suite of tests to verify that a HistoryStore
// implementation adheres to the interface contract.
func RunHistoryStoreContract(t *testing.T, store HistoryStore) {
	ctx := context.Background()

	snap := func(iteration int) domain.SystemState {
		return domain.SystemState{
			Processes: []domain.Process{
				{ID: "P1", Stack: []domain.Color{"R", "G"}, Wanted: "R"},
			},
			PendingMessages: []domain.Message{
				{Kind: domain.KindSend, From: "P2", To: "P1", Color: "R", Seq: uint64(iteration)},
			},
			Iteration: iteration,
			Status:    domain.StatusRunning,
		}
	}

	t.Run("Append and List", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))
		for i := 1; i <= 3; i++ {
			require.NoError(t, store.Append(ctx, snap(i)), "Append should not return error")
		}

		list, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		for i, s := range list {
			assert.Equal(t, i+1, s.Iteration, "snapshots must keep append order")
		}
		assert.Equal(t, []domain.Color{"R", "G"}, list[0].Processes[0].Stack)

		n, err := store.Len(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("Isolation", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))
		s := snap(1)
		require.NoError(t, store.Append(ctx, s))

		// Mutating the caller's copy must not leak into the store.
		s.Processes[0].Stack[0] = "B"

		list, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, domain.Color("R"), list[0].Processes[0].Stack[0])

		// Nor must mutating what List returned.
		list[0].Processes[0].Stack[0] = "B"
		again, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.Color("R"), again[0].Processes[0].Stack[0])
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, store.Append(ctx, snap(7)))
		require.NoError(t, store.Clear(ctx))

		list, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)

		n, err := store.Len(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}
