package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// SnapshotUUID is the row id of the snapshot stored under key.
func SnapshotUUID(key string) uuid.UUID {
	return UUID("firmsite:snapshot:" + strings.TrimSpace(key))
}

// EntityUUID maps a content entity id onto a UUID for activity records.
func EntityUUID(kind, id string) uuid.UUID {
	return UUID("firmsite:" + strings.ToLower(strings.TrimSpace(kind)) + ":" + strings.TrimSpace(id))
}

// SiteUUID identifies the site as the tenant of activity records.
func SiteUUID(officeName string) uuid.UUID {
	return UUID("firmsite:site:" + strings.TrimSpace(officeName))
}
