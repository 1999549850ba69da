package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/rgehrsitz/deductgo/internal/storage"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// querier is the subset of *pgxpool.Pool the store needs.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Storage keeps the submission flag in the submission_state table.
type Storage struct {
	db  querier
	key string
}

// NewStorage wraps an open pool
func NewStorage(db *pgxpool.Pool) *Storage {
	return &Storage{db: db, key: storage.SubmittedKey}
}

// Connect opens and pings a pool for the given URL
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Submitted returns false when no row has been written yet.
func (s *Storage) Submitted(ctx context.Context) (bool, error) {
	var submitted bool
	err := s.db.QueryRow(ctx, "SELECT submitted FROM submission_state WHERE key = $1", s.key).Scan(&submitted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("read submission state: %w", err)
	}
	return submitted, nil
}

func (s *Storage) SetSubmitted(ctx context.Context, submitted bool) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO submission_state (key, submitted, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET submitted = EXCLUDED.submitted, updated_at = EXCLUDED.updated_at
	`, s.key, submitted)
	if err != nil {
		return fmt.Errorf("write submission state: %w", err)
	}
	return nil
}

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	slog.Info("applying migrations", "dir", "migrations")
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	slog.Info("migrations applied")
	return nil
}
