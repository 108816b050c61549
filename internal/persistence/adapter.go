package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-firmsite/entities"
	"github.com/goliatone/go-firmsite/internal/logging"
	"github.com/goliatone/go-firmsite/internal/reconcile"
	"github.com/goliatone/go-firmsite/internal/validation"
	"github.com/goliatone/go-firmsite/pkg/interfaces"
)

// Adapter reads and writes the application snapshot under one versioned key.
type Adapter struct {
	repo    Repository
	key     string
	version int
	schema  *validation.Schema
	logger  interfaces.Logger
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithLogger sets the adapter logger.
func WithLogger(logger interfaces.Logger) AdapterOption {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithSchemaVersion overrides the version stamped on saved snapshots.
func WithSchemaVersion(version int) AdapterOption {
	return func(a *Adapter) {
		a.version = version
	}
}

// NewAdapter wraps repo with the storage key.
func NewAdapter(repo Repository, key string, opts ...AdapterOption) (*Adapter, error) {
	if repo == nil {
		return nil, errors.New("persistence: adapter requires a repository")
	}
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	a := &Adapter{
		repo:    repo,
		key:     key,
		version: reconcile.CurrentVersion,
		schema:  snapshotSchema,
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a, nil
}

// Key returns the storage key.
func (a *Adapter) Key() string {
	return a.key
}

// Load returns the stored snapshot. A missing key, a read failure, invalid
// JSON or a payload with the wrong shape all report no saved state.
func (a *Adapter) Load(ctx context.Context) (reconcile.Document, bool) {
	logger := logging.WithFields(a.logger, map[string]any{"key": a.key})

	payload, err := a.repo.Get(ctx, a.key)
	if err != nil {
		if errors.Is(err, ErrSnapshotNotFound) {
			logger.Debug("state.load.missing")
		} else {
			logger.Warn("state.load.failed", "error", err)
		}
		return nil, false
	}

	doc, err := reconcile.Parse(payload)
	if err != nil {
		logger.Warn("state.load.corrupt", "error", err)
		return nil, false
	}
	if err := a.schema.Validate(map[string]any(doc)); err != nil {
		logger.Warn("state.load.invalid", "error", err)
		return nil, false
	}
	return doc, true
}

// Save writes the full state. The admin session is never persisted.
func (a *Adapter) Save(ctx context.Context, state entities.State) error {
	state.IsAdminLoggedIn = false
	doc, err := reconcile.FromState(state, a.version)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("persistence: encode snapshot: %w", err)
	}
	return a.repo.Upsert(ctx, a.key, payload)
}

// Clear removes the stored snapshot. A missing snapshot is not an error.
func (a *Adapter) Clear(ctx context.Context) error {
	if err := a.repo.Delete(ctx, a.key); err != nil && !errors.Is(err, ErrSnapshotNotFound) {
		return err
	}
	return nil
}

// Subscribe forwards change events of the underlying repository for this key.
func (a *Adapter) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	events, err := a.repo.Subscribe(ctx)
	if err != nil {
		return nil, err
	}
	out := make(chan ChangeEvent, 1)
	go func() {
		defer close(out)
		for evt := range events {
			if evt.Key != a.key {
				continue
			}
			select {
			case out <- evt:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
