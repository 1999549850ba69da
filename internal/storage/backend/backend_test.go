package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/deductgo/internal/config"
	"github.com/rgehrsitz/deductgo/internal/storage/file"
	"github.com/rgehrsitz/deductgo/internal/storage/memory"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	store, closeStore, err := Open(ctx, config.Settings{Backend: config.BackendMemory})
	require.NoError(t, err)
	defer closeStore()
	assert.IsType(t, &memory.Store{}, store)

	path := filepath.Join(t.TempDir(), "state.yaml")
	store, closeStore, err = Open(ctx, config.Settings{Backend: config.BackendFile, StateFile: path})
	require.NoError(t, err)
	defer closeStore()
	require.IsType(t, &file.Store{}, store)
	assert.Equal(t, path, store.(*file.Store).Path())

	store, _, err = Open(ctx, config.Settings{StateFile: path})
	require.NoError(t, err)
	assert.IsType(t, &file.Store{}, store, "Empty backend means file")
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name     string
		settings config.Settings
		want     string
	}{
		{"unknown backend", config.Settings{Backend: "redis"}, "unknown backend"},
		{"postgres without url", config.Settings{Backend: config.BackendPostgres}, "DATABASE_URL"},
		{"file without path", config.Settings{Backend: config.BackendFile}, "state file path is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, closeStore, err := Open(ctx, tt.settings)
			require.Error(t, err)
			assert.Nil(t, store)
			assert.Contains(t, err.Error(), tt.want)
			closeStore()
		})
	}
}
