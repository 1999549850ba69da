// Package backend opens the submission store selected by the settings.
package backend

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/deductgo/internal/config"
	"github.com/rgehrsitz/deductgo/internal/storage"
	"github.com/rgehrsitz/deductgo/internal/storage/file"
	"github.com/rgehrsitz/deductgo/internal/storage/memory"
	"github.com/rgehrsitz/deductgo/internal/storage/postgres"
)

// Open returns the configured submission store. The returned close
// function is always safe to call.
func Open(ctx context.Context, s config.Settings) (storage.SubmissionStore, func(), error) {
	noop := func() {}
	switch s.Backend {
	case config.BackendMemory:
		return memory.NewStore(false), noop, nil
	case config.BackendPostgres:
		if s.DatabaseURL == "" {
			return nil, noop, fmt.Errorf("postgres backend needs DATABASE_URL or --database-url")
		}
		pool, err := postgres.Connect(ctx, s.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		return postgres.NewStorage(pool), pool.Close, nil
	case config.BackendFile, "":
		store, err := file.NewStore(s.StateFile)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown backend %q (want file, postgres or memory)", s.Backend)
	}
}
