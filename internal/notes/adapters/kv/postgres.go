package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"notekeeper/internal/notes/ports/storage"
	"notekeeper/pkg/logger"
)

// pgDiskFull - SQLSTATE disk_full.
const pgDiskFull = "53100"

// SQL-запросы к таблице guest_kv (см. migrations/kv).
const (
	QueryGetValue   = `SELECT value FROM guest_kv WHERE key = $1`
	QueryUsageOther = `SELECT COALESCE(SUM(octet_length(key) + octet_length(value)), 0) FROM guest_kv WHERE key <> $1 AND NOT (key = ANY($2))`
	QueryUpsert     = `INSERT INTO guest_kv (key, value, updated_at) VALUES ($1, $2, now()) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	QueryDelete     = `DELETE FROM guest_kv WHERE key = $1`
)

// PgxPoolInterface - подмножество pgxpool.Pool, используемое хранилищем.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore хранит значения в таблице guest_kv.
type PostgresStore struct {
	pool    PgxPoolInterface
	quota   int64
	opts    options
	onClose func()
}

// NewPostgresStore создает хранилище поверх пула соединений.
func NewPostgresStore(pool PgxPoolInterface, quotaBytes int64, opts ...Option) *PostgresStore {
	return &PostgresStore{pool: pool, quota: quotaBytes, opts: newOptions(opts)}
}

// Get возвращает значение по ключу.
func (s *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	if err := s.pool.QueryRow(ctx, QueryGetValue, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", storage.ErrKeyNotFound
		}
		logger.Log(ctx).Error(ctx, ErrorFailedToGet,
			zap.String("method", LogMethodGet), zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("%s: %w", ErrorFailedToGet, err)
	}
	return value, nil
}

// Set сохраняет значение, проверяя квоту по остальным записям.
func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSet), zap.String("key", key))

	if s.quota > 0 && s.opts.metered(key) {
		var others int64
		if err := s.pool.QueryRow(ctx, QueryUsageOther, key, s.opts.exempt).Scan(&others); err != nil {
			log.Error(ctx, ErrorFailedToSet, zap.Error(err))
			return fmt.Errorf("%s: measure usage: %w", ErrorFailedToSet, err)
		}
		if exceedsQuota(s.quota, others+entrySize(key, value)) {
			return storage.ErrQuotaExceeded
		}
	}

	if _, err := s.pool.Exec(ctx, QueryUpsert, key, value); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgDiskFull {
			return storage.ErrQuotaExceeded
		}
		log.Error(ctx, ErrorFailedToSet, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSet, err)
	}
	return nil
}

// Remove удаляет ключ.
func (s *PostgresStore) Remove(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, QueryDelete, key); err != nil {
		logger.Log(ctx).Error(ctx, ErrorFailedToRemove,
			zap.String("method", LogMethodRemove), zap.String("key", key), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToRemove, err)
	}
	return nil
}

// Close закрывает пул, если хранилище создано через Open.
func (s *PostgresStore) Close() error {
	if s.onClose != nil {
		s.onClose()
	}
	return nil
}
