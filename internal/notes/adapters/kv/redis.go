package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"notekeeper/internal/notes/ports/storage"
	"notekeeper/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodGet    = "get"
	LogMethodSet    = "set"
	LogMethodRemove = "remove"
	LogMethodClose  = "close"

	ErrorFailedToGet    = "failed to get value"
	ErrorFailedToSet    = "failed to set value"
	ErrorFailedToRemove = "failed to remove value"
	ErrorFailedToClose  = "failed to close connection"
)

// RedisStore хранит значения в Redis без TTL, ключи получают префикс.
type RedisStore struct {
	client *redis.Client
	prefix string
	quota  int64
	opts   options
}

// NewRedisStore создает хранилище поверх уже подключенного клиента.
// quotaBytes ограничивает размер одной записи; 0 - без ограничений.
func NewRedisStore(client *redis.Client, prefix string, quotaBytes int64, opts ...Option) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		quota:  quotaBytes,
		opts:   newOptions(opts),
	}
}

func (s *RedisStore) key(key string) string {
	return s.prefix + key
}

// Get получает значение по ключу.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", storage.ErrKeyNotFound
		}
		logger.Log(ctx).Error(ctx, ErrorFailedToGet,
			zap.String("method", LogMethodGet), zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("%s: %w", ErrorFailedToGet, err)
	}
	return value, nil
}

// Set устанавливает значение без времени жизни.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if s.opts.metered(key) && exceedsQuota(s.quota, entrySize(key, value)) {
		return storage.ErrQuotaExceeded
	}

	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		if isRedisOOM(err) {
			return storage.ErrQuotaExceeded
		}
		logger.Log(ctx).Error(ctx, ErrorFailedToSet,
			zap.String("method", LogMethodSet), zap.String("key", key), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSet, err)
	}
	return nil
}

// Remove удаляет значение по ключу.
func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		logger.Log(ctx).Error(ctx, ErrorFailedToRemove,
			zap.String("method", LogMethodRemove), zap.String("key", key), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToRemove, err)
	}
	return nil
}

// Close закрывает соединение с Redis.
func (s *RedisStore) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToClose, err)
	}
	return nil
}

// maxmemory с политикой noeviction отвечает ошибкой "OOM command not allowed ...".
func isRedisOOM(err error) bool {
	var redisErr redis.Error
	return errors.As(err, &redisErr) && strings.HasPrefix(redisErr.Error(), "OOM")
}
