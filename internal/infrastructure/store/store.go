// Package store opens the configured backing database and exposes the
// repositories built on it.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ErlanBelekov/notes-api/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/notes-api/internal/infrastructure/sqlite"
	"github.com/ErlanBelekov/notes-api/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Options struct {
	Driver      string
	DatabaseURL string
	SQLitePath  string
}

// Store holds exactly one of pool or db, depending on Driver.
type Store struct {
	Driver string
	Users  repository.UserRepository
	Notes  repository.NoteRepository

	pool *pgxpool.Pool
	db   *sql.DB
}

func Open(ctx context.Context, opts Options) (*Store, error) {
	switch opts.Driver {
	case DriverPostgres:
		pool, err := postgres.NewPool(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver: opts.Driver,
			Users:  postgres.NewUserRepository(pool),
			Notes:  postgres.NewNoteRepository(pool),
			pool:   pool,
		}, nil
	case DriverSQLite:
		db, err := sqlite.Open(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver: opts.Driver,
			Users:  sqlite.NewUserRepository(db),
			Notes:  sqlite.NewNoteRepository(db),
			db:     db,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

func (s *Store) Migrate(ctx context.Context) error {
	if s.pool != nil {
		return postgres.Migrate(ctx, s.pool)
	}
	return sqlite.Migrate(ctx, s.db)
}

func (s *Store) SchemaVersion(ctx context.Context) (int64, error) {
	if s.pool != nil {
		return postgres.SchemaVersion(ctx, s.pool)
	}
	return sqlite.SchemaVersion(ctx, s.db)
}

// Ping satisfies health.Pinger.
func (s *Store) Ping(ctx context.Context) error {
	if s.pool != nil {
		return s.pool.Ping(ctx)
	}
	return s.db.PingContext(ctx)
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
		return
	}
	s.db.Close()
}
