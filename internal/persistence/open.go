package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	repocache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-firmsite/internal/runtimeconfig"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the repository selected by storage. The returned closer
// releases database handles and is safe to call for every provider.
func Open(ctx context.Context, storage runtimeconfig.StorageConfig, cacheCfg runtimeconfig.CacheConfig) (Repository, io.Closer, error) {
	switch provider := runtimeconfig.NormalizeStorageProvider(storage.Provider); provider {
	case runtimeconfig.StorageMemory:
		return NewMemoryRepository(), nopCloser{}, nil
	case runtimeconfig.StorageFile:
		repo, err := NewFileRepository(storage.Dir)
		if err != nil {
			return nil, nil, err
		}
		return repo, nopCloser{}, nil
	case runtimeconfig.StorageSQLite, runtimeconfig.StoragePostgres:
		db, err := OpenDB(provider, storage.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := CreateSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		if !cacheCfg.Enabled {
			return NewBunRepository(db), db, nil
		}
		cfg := repocache.DefaultConfig()
		if cacheCfg.DefaultTTL > 0 {
			cfg.TTL = cacheCfg.DefaultTTL
		}
		cacheService, err := repocache.NewCacheService(cfg)
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("persistence: cache service: %w", err)
		}
		return NewBunRepositoryWithCache(db, cacheService, repocache.NewDefaultKeySerializer()), db, nil
	default:
		return nil, nil, fmt.Errorf("%w: %s", runtimeconfig.ErrStorageProviderUnknown, provider)
	}
}

// OpenDB opens a bun database for the sqlite or postgres provider.
func OpenDB(provider, dsn string) (*bun.DB, error) {
	if dsn == "" {
		return nil, errors.New("persistence: dsn required")
	}
	switch provider {
	case runtimeconfig.StorageSQLite:
		sqldb, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("persistence: open sqlite: %w", err)
		}
		db := bun.NewDB(sqldb, sqlitedialect.New())
		db.SetMaxOpenConns(1)
		return db, nil
	case runtimeconfig.StoragePostgres:
		sqldb, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("persistence: open postgres: %w", err)
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrStorageProviderUnknown, provider)
	}
}
