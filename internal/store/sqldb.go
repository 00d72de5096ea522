// internal/store/sqldb.go
//
// Database helpers for the SQL key-value store.
// Responsibilities:
//   - Opening SQLite with safe defaults (WAL, busy timeout), or Postgres.
//   - Applying embedded migrations (idempotent, recorded in _migrations).

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colordle/apps/go-server/assets"
)

// OpenDB opens a database for driver and verifies the connection.
//
// For SQLite the parent directory of a relative DSN (e.g. ./data/app.db)
// is created, and busy timeout + WAL journaling are configured.
func OpenDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverSQLite:
		dir := filepath.Dir(dsn)
		if dir != "." && dir != "" && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
		if !strings.Contains(dsn, "?") {
			dsn += "?_busy_timeout=5000&_journal_mode=WAL"
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not establish connection with database: %w", err)
	}
	if driver == DriverSQLite {
		// One writer at a time keeps SQLite free of SQLITE_BUSY under WAL.
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate applies the embedded migrations for driver.
//
//   - Uses a _migrations table to track applied files.
//   - Executes each file in lexical order inside its own transaction.
//   - Skips files already recorded.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY)`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := assets.Migrations(driver)
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}

	for _, f := range files {
		var done int
		err := db.QueryRowContext(ctx, bind(driver, `SELECT 1 FROM _migrations WHERE name=?`), f.Name).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f.Name).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, f.SQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f.Name, err)
		}
		if _, err := tx.ExecContext(ctx, bind(driver, `INSERT INTO _migrations(name) VALUES (?)`), f.Name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f.Name, err)
		}
		log.Info().Str("migration", f.Name).Msg("applied")
	}
	return nil
}

// Open returns the KV selected by driver: "memory", "sqlite3" or "postgres".
// The returned close func releases the database handle, if any.
func Open(ctx context.Context, driver, dsn string) (KV, func() error, error) {
	if driver == "memory" {
		return NewMemory(), func() error { return nil }, nil
	}
	db, err := OpenDB(ctx, driver, dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := Migrate(ctx, db, driver); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return NewSQL(db, driver), db.Close, nil
}
