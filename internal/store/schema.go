package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is stored in SQLite's user_version header field. Zero means
// the file has never been initialized.
const schemaVersion = 1

// ErrSchemaMismatch reports a history database written by a different
// release.
var ErrSchemaMismatch = errors.New("schema version mismatch")

func (s *Store) initSchema(ctx context.Context) error {
	version, err := userVersion(ctx, s.db)
	if err != nil {
		return err
	}
	switch version {
	case schemaVersion:
		return nil
	case 0:
		// A file with tables but no version predates versioning.
		empty, err := isEmpty(ctx, s.db)
		if err != nil {
			return err
		}
		if empty {
			return s.createSchema(ctx)
		}
	}
	return fmt.Errorf("%w: %s is at version %d, this build needs %d; delete it to start a new history",
		ErrSchemaMismatch, s.path, version, schemaVersion)
}

func userVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

func isEmpty(ctx context.Context, db *sql.DB) (bool, error) {
	var tables int
	err := db.QueryRowContext(ctx, "SELECT COUNT(1) FROM sqlite_master WHERE type = 'table'").Scan(&tables)
	if err != nil {
		return false, fmt.Errorf("inspect history tables: %w", err)
	}
	return tables == 0, nil
}

// createSchema creates the tables and stamps the version in one transaction,
// so a crash leaves either an empty file or a complete schema.
func (s *Store) createSchema(ctx context.Context) error {
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin schema tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create history tables: %w", err)
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
			return fmt.Errorf("stamp schema version: %w", err)
		}
		return tx.Commit()
	})
}
