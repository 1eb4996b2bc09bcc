// Package sqlite provides the SQLite-backed local store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"inkwell/internal/domain"
	"inkwell/internal/domain/repositories"
)

// schema defines the single-namespace key-value table. Values are
// opaque blobs; the gateway decides what goes in them.
const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// KVStore implements repositories.KVStore on a local SQLite file.
type KVStore struct {
	db *sql.DB
}

// Open opens (or creates) the store file under dir and applies the schema.
func Open(dir string) (repositories.KVStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &domain.StorageError{Message: fmt.Sprintf("create data directory: %v", err)}
	}

	path := filepath.Join(dir, "inkwell.db")
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, &domain.StorageError{Message: fmt.Sprintf("open store: %v", err)}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &domain.StorageError{Message: fmt.Sprintf("apply schema: %v", err)}
	}

	return &KVStore{db: db}, nil
}

// Get retrieves the value for a key; (nil, nil) when absent.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StorageError{Message: fmt.Sprintf("get %q: %v", key, err)}
	}
	return value, nil
}

// Put stores a value under a key. The upsert is a single statement, so
// the store's own atomicity is the only transaction needed.
func (s *KVStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return &domain.StorageError{Message: fmt.Sprintf("put %q: %v", key, err)}
	}
	return nil
}

// Close closes the underlying database.
func (s *KVStore) Close() error {
	return s.db.Close()
}
