package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/rgehrsitz/deductgo/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ storage.SubmissionStore = (*Store)(nil)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := NewStore(true)

	submitted, err := s.Submitted(ctx)
	require.NoError(t, err)
	assert.True(t, submitted)
	assert.Zero(t, s.Writes())

	require.NoError(t, s.SetSubmitted(ctx, false))
	submitted, err = s.Submitted(ctx)
	require.NoError(t, err)
	assert.False(t, submitted)
	assert.Equal(t, 1, s.Writes())
}

func TestStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewStore(false)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.SetSubmitted(ctx, true)
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Submitted(ctx)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Writes())
}
