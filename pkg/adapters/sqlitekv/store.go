// Package sqlitekv implements the key/value contract on SQLite. It is the
// default persistent adapter: a single kv table, WAL mode, safe to share
// with other logical namespaces in the same database file.
package sqlitekv

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Store persists key/value pairs in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open creates the parent directory if needed, opens the database with WAL
// mode and a busy timeout, and runs the schema migration.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("sqlitekv: create data dir: %w", err)
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitekv: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlitekv: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlitekv: migration: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the value for key, or ok=false when absent.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("sqlitekv: get %s: %w", key, err)
	}
	return value, true, nil
}

// Set writes value under key, overwriting any prior value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("sqlitekv: set %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("sqlitekv: remove %s: %w", key, err)
	}
	return nil
}

// Keys returns every key in the store, foreign namespaces included.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("sqlitekv: keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("sqlitekv: scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// MultiRemove deletes the given keys inside one transaction.
func (s *Store) MultiRemove(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlitekv: begin: %w", err)
	}
	for _, k := range keys {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, k); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("sqlitekv: remove %s: %w", k, err)
		}
	}
	return tx.Commit()
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
