package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/deductgo/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ storage.SubmissionStore = (*Store)(nil)

func TestNewStore_RequiresPath(t *testing.T) {
	_, err := NewStore("  ")
	assert.Error(t, err)
}

func TestStore_MissingFileMeansNotSubmitted(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "nested", "state.yaml"))
	require.NoError(t, err)

	submitted, err := store.Submitted(context.Background())
	require.NoError(t, err)
	assert.False(t, submitted)
}

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")
	store, err := NewStore(path)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.SetSubmitted(ctx, true))
	submitted, err := store.Submitted(ctx)
	require.NoError(t, err)
	assert.True(t, submitted)

	// a second store over the same file sees the persisted value
	reopened, err := NewStore(path)
	require.NoError(t, err)
	submitted, err = reopened.Submitted(ctx)
	require.NoError(t, err)
	assert.True(t, submitted)

	require.NoError(t, store.SetSubmitted(ctx, false))
	submitted, err = reopened.Submitted(ctx)
	require.NoError(t, err)
	assert.False(t, submitted)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "key: "+storage.SubmittedKey)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "Temp files should not be left behind")
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("submitted: [oops"), 0o600))

	store, err := NewStore(path)
	require.NoError(t, err)

	_, err = store.Submitted(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse state file")
}

func TestStore_ForeignKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("key: something_else\nsubmitted: true\n"), 0o600))

	store, err := NewStore(path)
	require.NoError(t, err)

	_, err = store.Submitted(context.Background())
	assert.Error(t, err)
}

func TestStore_CancelledContext(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "state.yaml"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.SetSubmitted(ctx, true), context.Canceled)
	_, err = store.Submitted(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
