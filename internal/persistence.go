package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// SessionsKey is the single key holding the serialized session store
const SessionsKey = "mychatbot_sessions"

// PersistenceGateway saves and restores whole-store snapshots through a
// BlobStore
type PersistenceGateway struct {
	blobs BlobStore
}

// NewPersistenceGateway creates a gateway over blobs
func NewPersistenceGateway(blobs BlobStore) *PersistenceGateway {
	return &PersistenceGateway{blobs: blobs}
}

// Load returns the persisted snapshot. Missing, unreadable or invalid data
// yields DefaultSnapshot; the cause is logged and never returned.
func (g *PersistenceGateway) Load(ctx context.Context) Snapshot {
	data, err := g.blobs.Get(ctx, SessionsKey)
	if errors.Is(err, ErrBlobNotFound) {
		LogDebug("No saved sessions, starting fresh")
		return DefaultSnapshot()
	}
	if err != nil {
		LogWarn("Failed to read saved sessions, starting fresh: %v", err)
		return DefaultSnapshot()
	}

	snap, err := DecodeSnapshot(data)
	if err != nil {
		LogWarn("Discarding saved sessions: %v", &ParseError{Source: g.blobs.Source(), Key: SessionsKey, Err: err})
		return DefaultSnapshot()
	}
	LogDebug("Loaded %d session(s)", len(snap.Sessions))
	return snap
}

// Save serializes the whole snapshot under SessionsKey
func (g *PersistenceGateway) Save(ctx context.Context, snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sessions: %w", err)
	}
	return g.blobs.Put(ctx, SessionsKey, data)
}

// DecodeSnapshot accepts the current versioned document and the older bare
// array of sessions, whose first session becomes active
func DecodeSnapshot(data []byte) (Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Snapshot{}, fmt.Errorf("empty document")
	}

	var snap Snapshot
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &snap.Sessions); err != nil {
			return Snapshot{}, err
		}
		snap.Version = SnapshotVersion
		if len(snap.Sessions) > 0 {
			snap.ActiveSessionID = snap.Sessions[0].ID
		}
	} else {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&snap); err != nil {
			return Snapshot{}, err
		}
	}

	if err := snap.validate(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
