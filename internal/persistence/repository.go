package persistence

import (
	"context"
	"errors"
	"strings"
)

// ErrSnapshotNotFound indicates no snapshot is stored under the key.
var ErrSnapshotNotFound = errors.New("persistence: snapshot not found")

// ErrInvalidKey rejects keys that cannot address a snapshot.
var ErrInvalidKey = errors.New("persistence: invalid snapshot key")

// Repository stores raw snapshot payloads by key and emits change
// notifications.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Upsert(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}

// ChangeType enumerates snapshot change events.
type ChangeType string

const (
	// ChangeCreated indicates a snapshot was first persisted.
	ChangeCreated ChangeType = "created"
	// ChangeUpdated indicates a snapshot was replaced.
	ChangeUpdated ChangeType = "updated"
	// ChangeDeleted indicates a snapshot was removed.
	ChangeDeleted ChangeType = "deleted"
)

// ChangeEvent reports snapshot mutations to interested subscribers.
type ChangeEvent struct {
	Type ChangeType
	Key  string
}

// Key builds the versioned storage key, e.g. "app_data_v1.6".
func Key(prefix, version string) string {
	prefix = strings.TrimSpace(prefix)
	version = strings.TrimSpace(version)
	switch {
	case prefix == "":
		return version
	case version == "":
		return prefix
	}
	return prefix + "_" + version
}

func normalizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrInvalidKey
	}
	return key, nil
}
