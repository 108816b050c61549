package persistence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileRepository stores one JSON file per key under a directory. Writes go
// to a temporary file that is renamed over the target.
type FileRepository struct {
	dir      string
	mu       sync.Mutex
	notifier *changeNotifier
}

// NewFileRepository constructs a repository rooted at dir, creating it when
// missing.
func NewFileRepository(dir string) (*FileRepository, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("persistence: file repository requires a directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("persistence: create snapshot dir: %w", err)
	}
	return &FileRepository{
		dir:      dir,
		notifier: newChangeNotifier(),
	}, nil
}

// Dir returns the snapshot directory.
func (r *FileRepository) Dir() string {
	return r.dir
}

func (r *FileRepository) path(key string) (string, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return "", err
	}
	if key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(r.dir, key+".json"), nil
}

// Get reads the snapshot file for key.
func (r *FileRepository) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := r.path(key)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("persistence: read snapshot: %w", err)
	}
	return payload, nil
}

// Upsert atomically replaces the snapshot file for key.
func (r *FileRepository) Upsert(ctx context.Context, key string, payload []byte) error {
	path, err := r.path(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	previous, readErr := os.ReadFile(path)
	exists := readErr == nil
	if exists && bytes.Equal(previous, payload) {
		r.mu.Unlock()
		return nil
	}
	err = writeFileAtomic(r.dir, path, payload)
	r.mu.Unlock()
	if err != nil {
		return err
	}

	changeType := ChangeUpdated
	if !exists {
		changeType = ChangeCreated
	}
	r.notifier.notify(changeType, strings.TrimSpace(key))
	return nil
}

// Delete removes the snapshot file for key.
func (r *FileRepository) Delete(ctx context.Context, key string) error {
	path, err := r.path(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	err = os.Remove(path)
	r.mu.Unlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrSnapshotNotFound
		}
		return fmt.Errorf("persistence: delete snapshot: %w", err)
	}
	r.notifier.notify(ChangeDeleted, strings.TrimSpace(key))
	return nil
}

// Subscribe delivers change events until the context is cancelled.
func (r *FileRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.notifier.watch(ctx)
}

func writeFileAtomic(dir, path string, payload []byte) error {
	tmp, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("persistence: create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("persistence: write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("persistence: sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("persistence: close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("persistence: replace snapshot: %w", err)
	}
	return nil
}
