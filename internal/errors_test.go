package internal

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestStorageError(t *testing.T) {
	originalErr := errors.New("permission denied")
	err := &StorageError{
		Path: "/data/chat.db",
		Op:   "put",
		Err:  originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "storage error") {
		t.Errorf("StorageError.Error() should contain 'storage error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "/data/chat.db") {
		t.Errorf("StorageError.Error() should contain path, got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "put") {
		t.Errorf("StorageError.Error() should contain op, got: %q", errorMsg)
	}

	if !errors.Is(err, originalErr) {
		t.Error("StorageError.Unwrap() should return original error")
	}
}

func TestParseError(t *testing.T) {
	originalErr := errors.New("invalid JSON")
	err := &ParseError{
		Source: "sqlite",
		Key:    SessionsKey,
		Err:    originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "parse error") {
		t.Errorf("ParseError.Error() should contain 'parse error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "sqlite") {
		t.Errorf("ParseError.Error() should contain source, got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, SessionsKey) {
		t.Errorf("ParseError.Error() should contain key, got: %q", errorMsg)
	}

	if !errors.Is(err, originalErr) {
		t.Error("ParseError.Unwrap() should return original error")
	}
}

func TestExportError(t *testing.T) {
	originalErr := errors.New("disk full")
	err := &ExportError{
		Format: "pdf",
		Path:   "chat-hello-2024-01-01.pdf",
		Err:    originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "export error") {
		t.Errorf("ExportError.Error() should contain 'export error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "pdf") {
		t.Errorf("ExportError.Error() should contain format, got: %q", errorMsg)
	}

	if !errors.Is(err, originalErr) {
		t.Error("ExportError.Unwrap() should return original error")
	}
}

func TestSentinelErrorsWrap(t *testing.T) {
	sentinels := []error{
		ErrSessionNotFound,
		ErrMessageNotFound,
		ErrEmptyText,
		ErrLastSessionProtected,
		ErrResponsePending,
		ErrBlobNotFound,
	}

	for _, sentinel := range sentinels {
		t.Run(sentinel.Error(), func(t *testing.T) {
			wrapped := fmt.Errorf("session-1: %w", sentinel)
			if !errors.Is(wrapped, sentinel) {
				t.Errorf("errors.Is(%v, %v) = false, want true", wrapped, sentinel)
			}
		})
	}
}
