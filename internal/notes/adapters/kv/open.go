package kv

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"notekeeper/internal/notes/config"
	"notekeeper/internal/notes/ports/storage"
	"notekeeper/migrations"
	"notekeeper/pkg/db/postgres"
	pkgredis "notekeeper/pkg/db/redis"
	"notekeeper/pkg/logger"
)

// LogStoreOpened - сообщение об открытии хранилища.
const LogStoreOpened = "key-value store opened"

// ErrUnknownBackend - сообщение о неизвестном бэкенде.
const ErrUnknownBackend = "unknown storage backend"

// Open создает хранилище ключ-значение по конфигурации.
// opts передаются выбранному бэкенду.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (storage.KeyValueStore, error) {
	quota := cfg.Storage.QuotaBytes

	var (
		store storage.KeyValueStore
		err   error
	)

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		store = NewMemoryStore(quota, opts...)
	case config.BackendSQLite:
		store, err = NewSQLiteStore(ctx, cfg.SQLite.Path, quota, opts...)
	case config.BackendRedis:
		store, err = openRedis(ctx, &cfg.Redis, quota, opts)
	case config.BackendPostgres:
		store, err = openPostgres(ctx, &cfg.Postgres, quota, opts)
	default:
		return nil, fmt.Errorf("%s: %q", ErrUnknownBackend, cfg.Storage.Backend)
	}
	if err != nil {
		return nil, err
	}

	logger.Log(ctx).Debug(ctx, LogStoreOpened,
		zap.String("backend", cfg.Storage.Backend),
		zap.Int64("quota_bytes", quota))

	return store, nil
}

func openRedis(ctx context.Context, cfg *config.RedisConfig, quota int64, opts []Option) (storage.KeyValueStore, error) {
	client, err := pkgredis.NewClient(ctx, &pkgredis.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return NewRedisStore(client.RawClient(), cfg.KeyPrefix, quota, opts...), nil
}

func openPostgres(ctx context.Context, cfg *config.PostgresConfig, quota int64, opts []Option) (storage.KeyValueStore, error) {
	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, cfg.GetConnectionURL(), migrations.KV, migrations.KVDir); err != nil {
			return nil, err
		}
	}

	db, err := postgres.New(ctx, cfg.GetDSN(), cfg.MinConn, cfg.MaxConn)
	if err != nil {
		return nil, err
	}

	store := NewPostgresStore(db.Pool(), quota, opts...)
	store.onClose = func() { db.Close(context.Background()) }
	return store, nil
}
