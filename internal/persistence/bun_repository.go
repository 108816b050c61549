package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-firmsite/internal/identity"
)

// snapshotNamespace matches the namespace repositorycache derives from
// SnapshotRecord, so InvalidateCache drops the decorator's own entries.
const snapshotNamespace = "snapshot_record"

// SnapshotRecord is the row stored in app_snapshots.
type SnapshotRecord struct {
	bun.BaseModel `bun:"table:app_snapshots,alias:s"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Key       string    `bun:"storage_key,notnull,unique" json:"key"`
	Payload   string    `bun:"payload,notnull" json:"payload"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// NewSnapshotRepository creates the generic repository for snapshot rows.
func NewSnapshotRepository(db *bun.DB) repository.Repository[*SnapshotRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*SnapshotRecord]{
		NewRecord:          func() *SnapshotRecord { return &SnapshotRecord{} },
		GetID:              func(record *SnapshotRecord) uuid.UUID { return record.ID },
		SetID:              func(record *SnapshotRecord, id uuid.UUID) { record.ID = id },
		GetIdentifier:      func() string { return "storage_key" },
		GetIdentifierValue: func(record *SnapshotRecord) string { return record.Key },
	})
}

// BunRepository persists snapshots in a SQL table through go-repository-bun.
// Reads may be served by the repository cache. Writes go through the cached
// repository so it invalidates the entries for the written key.
type BunRepository struct {
	base         repository.Repository[*SnapshotRecord]
	repo         repository.Repository[*SnapshotRecord]
	cacheService cache.CacheService
	cachePrefix  string
	now          func() time.Time
	notifier     *changeNotifier
}

// NewBunRepository creates a snapshot repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates a snapshot repository with caching services.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewSnapshotRepository(db)
	repo := base
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		repo = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = snapshotNamespace + cache.KeySeparator
	}
	return &BunRepository{
		base:         base,
		repo:         repo,
		cacheService: svc,
		cachePrefix:  prefix,
		now:          func() time.Time { return time.Now().UTC() },
		notifier:     newChangeNotifier(),
	}
}

// CreateSchema creates the snapshot table when missing.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return errors.New("persistence: bun repository requires a database")
	}
	if _, err := db.NewCreateTable().Model((*SnapshotRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("persistence: create snapshot table: %w", err)
	}
	return nil
}

// Get returns the payload stored under key.
func (r *BunRepository) Get(ctx context.Context, key string) ([]byte, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	record, err := r.repo.GetByIdentifier(ctx, key)
	if err != nil {
		return nil, mapRepositoryError(err, key)
	}
	return []byte(record.Payload), nil
}

// Upsert creates or replaces the row for key. The row id is derived from
// the key so every store agrees on it.
func (r *BunRepository) Upsert(ctx context.Context, key string, payload []byte) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}

	existing, err := r.base.GetByIdentifier(ctx, key)
	created := false
	if err != nil {
		if !goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return mapRepositoryError(err, key)
		}
		created = true
	}

	if created {
		record := &SnapshotRecord{
			ID:        identity.SnapshotUUID(key),
			Key:       key,
			Payload:   string(payload),
			UpdatedAt: r.now(),
		}
		if _, err := r.repo.Create(ctx, record); err != nil {
			return fmt.Errorf("snapshot repository error: %w", err)
		}
	} else {
		if existing.Payload == string(payload) {
			return nil
		}
		existing.Payload = string(payload)
		existing.UpdatedAt = r.now()
		if _, err := r.repo.Update(ctx, existing,
			repository.UpdateByID(existing.ID.String()),
			repository.UpdateColumns("payload", "updated_at"),
		); err != nil {
			return mapRepositoryError(err, key)
		}
	}

	if err := r.InvalidateCache(ctx); err != nil {
		return err
	}
	changeType := ChangeUpdated
	if created {
		changeType = ChangeCreated
	}
	r.notifier.notify(changeType, key)
	return nil
}

// Delete removes the row for key.
func (r *BunRepository) Delete(ctx context.Context, key string) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	existing, err := r.base.GetByIdentifier(ctx, key)
	if err != nil {
		return mapRepositoryError(err, key)
	}
	if err := r.repo.Delete(ctx, existing); err != nil {
		return mapRepositoryError(err, key)
	}
	if err := r.InvalidateCache(ctx); err != nil {
		return err
	}
	r.notifier.notify(ChangeDeleted, key)
	return nil
}

// Subscribe delivers change events until the context is cancelled.
func (r *BunRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.notifier.watch(ctx)
}

// InvalidateCache drops cached snapshot reads.
func (r *BunRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return fmt.Errorf("%w: %s", ErrSnapshotNotFound, key)
	}
	return fmt.Errorf("snapshot repository error: %w", err)
}
