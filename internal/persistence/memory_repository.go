package persistence

import (
	"bytes"
	"context"
	"sync"
)

// MemoryRepository stores snapshots in-memory.
type MemoryRepository struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
	notifier  *changeNotifier
}

// NewMemoryRepository constructs an in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		snapshots: map[string][]byte{},
		notifier:  newChangeNotifier(),
	}
}

// Get returns a copy of the stored payload or ErrSnapshotNotFound.
func (r *MemoryRepository) Get(_ context.Context, key string) ([]byte, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	payload, ok := r.snapshots[key]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return bytes.Clone(payload), nil
}

// Upsert stores payload, emitting a change event when it differs.
func (r *MemoryRepository) Upsert(_ context.Context, key string, payload []byte) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	r.mu.Lock()
	previous, exists := r.snapshots[key]
	r.snapshots[key] = bytes.Clone(payload)
	r.mu.Unlock()

	if exists && bytes.Equal(previous, payload) {
		return nil
	}
	changeType := ChangeUpdated
	if !exists {
		changeType = ChangeCreated
	}
	r.notifier.notify(changeType, key)
	return nil
}

// Delete removes the snapshot and emits a change event.
func (r *MemoryRepository) Delete(_ context.Context, key string) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	r.mu.Lock()
	if _, ok := r.snapshots[key]; !ok {
		r.mu.Unlock()
		return ErrSnapshotNotFound
	}
	delete(r.snapshots, key)
	r.mu.Unlock()

	r.notifier.notify(ChangeDeleted, key)
	return nil
}

// Subscribe delivers change events until the context is cancelled.
func (r *MemoryRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.notifier.watch(ctx)
}
