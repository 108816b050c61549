package persistence

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-firmsite/pkg/testsupport"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

func TestKey(t *testing.T) {
	cases := map[string][2]string{
		"app_data_v1.6": {"app_data", "v1.6"},
		"app_data":      {" app_data ", ""},
		"v2":            {"", "v2"},
	}
	for want, in := range cases {
		if got := Key(in[0], in[1]); got != want {
			t.Fatalf("Key(%q, %q) = %q, want %q", in[0], in[1], got, want)
		}
	}
}

func exerciseRepository(t *testing.T, repo Repository) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := repo.Get(ctx, "app_data_v1.6"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound, got %v", err)
	}
	if _, err := repo.Get(ctx, " "); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}

	events, err := repo.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if err := repo.Upsert(ctx, "app_data_v1.6", []byte(`{"slides":[]}`)); err != nil {
		t.Fatalf("Upsert() create error = %v", err)
	}
	assertEvent(t, events, ChangeCreated)

	if err := repo.Upsert(ctx, "app_data_v1.6", []byte(`{"slides":[{"id":"s"}]}`)); err != nil {
		t.Fatalf("Upsert() update error = %v", err)
	}
	assertEvent(t, events, ChangeUpdated)

	payload, err := repo.Get(ctx, "app_data_v1.6")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(payload) != `{"slides":[{"id":"s"}]}` {
		t.Fatalf("Get() returned %s", payload)
	}

	if err := repo.Upsert(ctx, "app_data_v1.5", []byte(`{}`)); err != nil {
		t.Fatalf("Upsert() other key error = %v", err)
	}
	assertEvent(t, events, ChangeCreated)

	if err := repo.Delete(ctx, "app_data_v1.6"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	assertEvent(t, events, ChangeDeleted)

	if _, err := repo.Get(ctx, "app_data_v1.6"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, "app_data_v1.6"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound deleting twice, got %v", err)
	}
	if _, err := repo.Get(ctx, "app_data_v1.5"); err != nil {
		t.Fatalf("expected other key untouched, got %v", err)
	}
}

func TestMemoryRepository(t *testing.T) {
	exerciseRepository(t, NewMemoryRepository())
}

func TestFileRepository(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")
	repo, err := NewFileRepository(dir)
	if err != nil {
		t.Fatalf("NewFileRepository() error = %v", err)
	}
	exerciseRepository(t, repo)

	if _, err := os.Stat(filepath.Join(dir, "app_data_v1.5.json")); err != nil {
		t.Fatalf("expected snapshot file on disk: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Fatalf("temporary file left behind: %s", entry.Name())
		}
	}
}

func TestFileRepositoryRejectsPathKeys(t *testing.T) {
	repo, err := NewFileRepository(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileRepository() error = %v", err)
	}
	for _, key := range []string{"../escape", "a/b", ".."} {
		if err := repo.Upsert(context.Background(), key, []byte(`{}`)); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("expected ErrInvalidKey for %q, got %v", key, err)
		}
	}
}

func TestBunRepository(t *testing.T) {
	exerciseRepository(t, NewBunRepository(newTestDB(t)))
}

func TestBunRepository_WithCache(t *testing.T) {
	ctx := context.Background()
	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}
	repo := NewBunRepositoryWithCache(newTestDB(t), cacheService, repocache.NewDefaultKeySerializer())
	const key = "app_data_v1.6"

	for _, payload := range []string{`{"slides":[]}`, `{"slides":[{"id":"hero"}]}`, `{"slides":[{"id":"hero"},{"id":"team"}]}`} {
		if err := repo.Upsert(ctx, key, []byte(payload)); err != nil {
			t.Fatalf("Upsert(%s) error = %v", payload, err)
		}
		for range 2 {
			got, err := repo.Get(ctx, key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if string(got) != payload {
				t.Fatalf("expected %s after upsert, got %s", payload, got)
			}
		}
	}

	if err := repo.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.Get(ctx, key); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound after delete, got %v", err)
	}
}

func TestBunRepository_InvalidateCacheDropsCachedReads(t *testing.T) {
	ctx := context.Background()
	cacheService, err := repocache.NewCacheService(repocache.DefaultConfig())
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}
	db := newTestDB(t)
	repo := NewBunRepositoryWithCache(db, cacheService, repocache.NewDefaultKeySerializer())
	const key = "app_data_v1.6"

	if err := repo.Upsert(ctx, key, []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if _, err := repo.Get(ctx, key); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if _, err := db.NewUpdate().Table("app_snapshots").
		Set("payload = ?", `{"a":2}`).
		Where("storage_key = ?", key).
		Exec(ctx); err != nil {
		t.Fatalf("direct update: %v", err)
	}
	if err := repo.InvalidateCache(ctx); err != nil {
		t.Fatalf("InvalidateCache() error = %v", err)
	}

	got, err := repo.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `{"a":2}` {
		t.Fatalf("expected fresh payload after invalidation, got %s", got)
	}
}

func assertEvent(t *testing.T, events <-chan ChangeEvent, want ChangeType) {
	t.Helper()
	select {
	case evt := <-events:
		if evt.Type != want {
			t.Fatalf("expected %s event, got %s", want, evt.Type)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for %s event", want)
	}
}

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db := testsupport.NewSQLiteDB(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := CreateSchema(ctx, db); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}
