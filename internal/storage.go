package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

// BlobStore is an opaque key/value store for serialized state
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
	Source() string
}

// MemoryBlobStore keeps blobs in memory. Nothing survives the process.
type MemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryBlobStore creates an empty in-memory blob store
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key
func (m *MemoryBlobStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.blobs[key]
	if !ok {
		return nil, ErrBlobNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put stores a copy of value under key
func (m *MemoryBlobStore) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = append([]byte(nil), value...)
	return nil
}

// Close is a no-op
func (m *MemoryBlobStore) Close() error { return nil }

// Source names the backend for error reporting
func (m *MemoryBlobStore) Source() string { return "memory" }

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// FileBlobStore keeps each key in its own file under a directory
type FileBlobStore struct {
	dir string
}

// NewFileBlobStore creates the directory if needed and returns a store over it
func NewFileBlobStore(dir string) (*FileBlobStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &StorageError{Path: dir, Op: "open", Err: err}
	}
	return &FileBlobStore{dir: dir}, nil
}

func (f *FileBlobStore) path(key string) string {
	return filepath.Join(f.dir, unsafeKeyChars.ReplaceAllString(key, "_")+".json")
}

// Get reads the file for key
func (f *FileBlobStore) Get(_ context.Context, key string) ([]byte, error) {
	p := f.path(key)
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, &StorageError{Path: p, Op: "get", Err: err}
	}
	return data, nil
}

// Put writes the file for key atomically
func (f *FileBlobStore) Put(_ context.Context, key string, value []byte) error {
	p := f.path(key)
	if err := AtomicWriteFile(p, value, 0644); err != nil {
		return &StorageError{Path: p, Op: "put", Err: err}
	}
	return nil
}

// Close is a no-op
func (f *FileBlobStore) Close() error { return nil }

// Source names the backend for error reporting
func (f *FileBlobStore) Source() string { return "file" }

// Storage backends accepted by OpenBlobStore
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// OpenBlobStore opens the named backend at path. For sqlite, path is the
// database file; for file, it is the directory.
func OpenBlobStore(backend, path string) (BlobStore, error) {
	switch backend {
	case BackendSQLite, "":
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, &StorageError{Path: path, Op: "open", Err: err}
		}
		return NewSQLiteBlobStore(path)
	case BackendFile:
		return NewFileBlobStore(path)
	case BackendMemory:
		return NewMemoryBlobStore(), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s (supported: sqlite, file, memory)", backend)
	}
}
