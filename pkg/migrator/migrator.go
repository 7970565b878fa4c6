// Package migrator applies goose migrations embedded in each service's
// migrations directory.
package migrator

import (
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// RunMigrations runs all pending goose migrations from the embedded FS against dbURL.
func RunMigrations(dbURL string, files fs.FS) error {
	return withGoose(dbURL, files, func(db *sql.DB) error {
		if err := goose.Up(db, "."); err != nil {
			return fmt.Errorf("failed to up migrations: %w", err)
		}
		return nil
	})
}

// RollbackMigration rolls back the most recently applied migration.
func RollbackMigration(dbURL string, files fs.FS) error {
	return withGoose(dbURL, files, func(db *sql.DB) error {
		if err := goose.Down(db, "."); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		return nil
	})
}

// Status reports the current schema version of dbURL.
func Status(dbURL string, files fs.FS) (int64, error) {
	var version int64
	err := withGoose(dbURL, files, func(db *sql.DB) error {
		v, err := goose.GetDBVersion(db)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		version = v
		return nil
	})
	return version, err
}

func withGoose(dbURL string, files fs.FS, fn func(*sql.DB) error) error {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close() //nolint:errcheck

	goose.SetBaseFS(files)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return fn(db)
}
