package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/iksnae/mychatbot/internal"
	"github.com/iksnae/mychatbot/internal/config"
)

// app is everything a command needs: the resolved config and the session
// store restored from the configured backend
type app struct {
	cfg      *config.Config
	loc      *time.Location
	blobs    internal.BlobStore
	store    *internal.SessionStore
	provider *internal.MockProvider
	conv     *internal.Conversation
}

// openApp loads config (flags win), opens storage and restores the sessions
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath, func(c *config.Config) {
		if backend != "" {
			c.Storage.Backend = backend
		}
		if storagePath != "" {
			c.Storage.Path = storagePath
		}
		if ephemeral {
			c.Storage.Backend = internal.BackendMemory
		}
	})
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	blobs, err := internal.OpenBlobStore(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	internal.LogDebug("Using %s storage at %s", blobs.Source(), cfg.Storage.Path)

	gateway := internal.NewPersistenceGateway(blobs)
	store := internal.NewSessionStore(gateway.Load(ctx), internal.StoreOptions{
		Persister:     gateway,
		NameMaxLength: cfg.Sessions.NameMaxLength,
	})
	provider := internal.NewMockProvider(cfg.Responder.MinDelay, cfg.Responder.MaxDelay, nil)

	return &app{
		cfg:      cfg,
		loc:      loc,
		blobs:    blobs,
		store:    store,
		provider: provider,
		conv:     internal.NewConversation(store, provider),
	}, nil
}

// Close releases the storage backend
func (a *app) Close() {
	if err := a.blobs.Close(); err != nil {
		internal.LogWarn("Failed to close storage: %v", err)
	}
}

// session resolves id, or the active session when id is empty
func (a *app) session(id string) (internal.Session, error) {
	if id == "" {
		return a.store.Active(), nil
	}
	sess, err := a.store.Session(id)
	if err != nil {
		return internal.Session{}, fmt.Errorf("%w (use 'mychatbot list' to see available sessions)", err)
	}
	return sess, nil
}

// warnUnsaved reports a failed save after a mutation. The change still
// applies to this run.
func (a *app) warnUnsaved() {
	if err := a.store.LastSaveErr(); err != nil {
		internal.PrintWarning(fmt.Sprintf("Changes were not saved: %v", err))
	}
}
