package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/colorsort/pkg/adapters/memory"
	"github.com/aretw0/colorsort/pkg/domain"
	"github.com/aretw0/colorsort/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryStore_Contract(t *testing.T) {
	store := memory.NewHistoryStore()
	ports.RunHistoryStoreContract(t, store)
}

func TestHistoryStore_ConcurrentAppend(t *testing.T) {
	store := memory.NewHistoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Append(ctx, domain.SystemState{Iteration: i})
		}(i)
	}
	wg.Wait()

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, n)
}
