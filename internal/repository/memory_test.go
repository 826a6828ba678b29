package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySlotRepository(t *testing.T) {
	repo := NewMemorySlotRepository()
	ctx := context.Background()

	_, ok, err := repo.Get(ctx, "accounts")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Set(ctx, "accounts", "[]"))
	require.NoError(t, repo.Set(ctx, "accounts", `[{"id":"2"}]`))

	v, ok, err := repo.Get(ctx, "accounts")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"2"}]`, v)
}

func TestMemorySlotRepository_Concurrent(t *testing.T) {
	repo := NewMemorySlotRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Set(ctx, "k", string(rune('a'+i)))
			_, _, _ = repo.Get(ctx, "k")
		}()
	}
	wg.Wait()

	_, ok, _ := repo.Get(ctx, "k")
	assert.True(t, ok)
}
