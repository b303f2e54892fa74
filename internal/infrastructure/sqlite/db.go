package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ErlanBelekov/notes-api/internal/infrastructure/migrations"
	_ "modernc.org/sqlite"
)

// Open opens (or creates) a sqlite database at path, creating parent
// directories as needed.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// one writer; also keeps the foreign_keys pragma on the only connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return db, nil
}

// Migrate applies the embedded sqlite schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	return migrations.Up(ctx, db, migrations.DialectSQLite)
}

// SchemaVersion reports the applied goose version.
func SchemaVersion(ctx context.Context, db *sql.DB) (int64, error) {
	return migrations.Version(ctx, db, migrations.DialectSQLite)
}
