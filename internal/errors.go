package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when a session id does not resolve
	ErrSessionNotFound = errors.New("session not found")
	// ErrMessageNotFound is returned when a message id does not resolve
	ErrMessageNotFound = errors.New("message not found")
	// ErrEmptyText is returned when a message or name is blank after trimming
	ErrEmptyText = errors.New("text is empty")
	// ErrLastSessionProtected signals that the only remaining session was not deleted
	ErrLastSessionProtected = errors.New("cannot delete the last remaining session")
	// ErrResponsePending is returned when a send is attempted while a reply is outstanding
	ErrResponsePending = errors.New("a response is already pending for this session")
	// ErrSaveCancelled is returned by a save dialog when the user backs out
	ErrSaveCancelled = errors.New("save cancelled")
	// ErrBlobNotFound is returned by a BlobStore when the key has no value
	ErrBlobNotFound = errors.New("blob not found")
)

// StorageError represents errors accessing the blob store
type StorageError struct {
	Path string
	Op   string // "open", "get", "put", "close"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ParseError represents errors decoding persisted state
type ParseError struct {
	Source string // "sqlite", "file", "memory"
	Key    string // storage key
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s] %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
