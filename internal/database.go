package internal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const createChatKVTable = `
CREATE TABLE IF NOT EXISTS chatKV (
	key TEXT PRIMARY KEY,
	value TEXT
)`

// OpenDatabase opens (creating if needed) a SQLite database and ensures the
// chatKV table exists
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if _, err := db.Exec(createChatKVTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create chatKV table: %w", err)
	}

	return db, nil
}

// SQLiteBlobStore keeps blobs in the chatKV table of a SQLite database
type SQLiteBlobStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteBlobStore opens the database at path as a blob store
func NewSQLiteBlobStore(path string) (*SQLiteBlobStore, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}
	return &SQLiteBlobStore{db: db, path: path}, nil
}

// NewSQLiteBlobStoreFromDB wraps an already open database. The chatKV table
// must exist.
func NewSQLiteBlobStoreFromDB(db *sql.DB) *SQLiteBlobStore {
	return &SQLiteBlobStore{db: db, path: ":db:"}
}

// Get returns the value stored under key
func (s *SQLiteBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value sql.NullString
	err := s.db.QueryRowContext(ctx, "SELECT value FROM chatKV WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !value.Valid) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, &StorageError{Path: s.path, Op: "get", Err: err}
	}
	return []byte(value.String), nil
}

// Put stores value under key, replacing any previous value
func (s *SQLiteBlobStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO chatKV (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, string(value))
	if err != nil {
		return &StorageError{Path: s.path, Op: "put", Err: err}
	}
	return nil
}

// Close closes the underlying database
func (s *SQLiteBlobStore) Close() error {
	return s.db.Close()
}

// Source names the backend for error reporting
func (s *SQLiteBlobStore) Source() string {
	return "sqlite"
}
