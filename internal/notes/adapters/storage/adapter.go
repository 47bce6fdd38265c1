// Package storage сериализует значения в JSON поверх хранилища ключ-значение.
// Ошибки не выходят за границу адаптера: Get сообщает об отсутствии значения,
// Set - о неудаче записи, причина пишется в лог.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"notekeeper/internal/notes/ports/storage"
	"notekeeper/pkg/logger"
)

// Ключ и размер значения для проверки квоты.
const (
	QuotaProbeKey  = "__storage_quota_test__"
	QuotaProbeSize = 1024 * 1024

	availabilityProbeKey   = "__storage_test__"
	availabilityProbeValue = "__storage_test__"
)

// Константы для логирования.
const (
	LogFailedToRead       = "failed to read from storage"
	LogFailedToDecode     = "failed to decode stored value"
	LogFailedToEncode     = "failed to encode value for storage"
	LogFailedToWrite      = "failed to write to storage"
	LogQuotaExceeded      = "storage quota exceeded, sign up to save more notes"
	LogFailedToRemove     = "failed to remove from storage"
	LogQuotaProbeFailed   = "storage quota probe failed"
	LogStorageUnavailable = "storage is not available"
	LogFailedToCloseStore = "failed to close storage"
)

// Adapter - JSON-адаптер над storage.KeyValueStore.
type Adapter struct {
	store storage.KeyValueStore
}

// NewAdapter создает адаптер.
func NewAdapter(store storage.KeyValueStore) *Adapter {
	return &Adapter{store: store}
}

// Get декодирует значение по ключу в dst.
// false - значения нет или его не удалось прочитать.
func (a *Adapter) Get(ctx context.Context, key string, dst any) bool {
	raw, err := a.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			logger.Log(ctx).Error(ctx, LogFailedToRead, zap.String("key", key), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		logger.Log(ctx).Error(ctx, LogFailedToDecode, zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set кодирует value и сохраняет его. false - запись не выполнена.
func (a *Adapter) Set(ctx context.Context, key string, value any) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		logger.Log(ctx).Error(ctx, LogFailedToEncode, zap.String("key", key), zap.Error(err))
		return false
	}

	return a.setRaw(ctx, key, string(raw))
}

func (a *Adapter) setRaw(ctx context.Context, key, raw string) bool {
	if err := a.store.Set(ctx, key, raw); err != nil {
		if errors.Is(err, storage.ErrQuotaExceeded) {
			logger.Log(ctx).Warn(ctx, LogQuotaExceeded, zap.String("key", key), zap.Int("size", len(raw)))
		} else {
			logger.Log(ctx).Error(ctx, LogFailedToWrite, zap.String("key", key), zap.Error(err))
		}
		return false
	}
	return true
}

// Remove удаляет ключ; ошибка только логируется.
func (a *Adapter) Remove(ctx context.Context, key string) {
	if err := a.store.Remove(ctx, key); err != nil {
		logger.Log(ctx).Error(ctx, LogFailedToRemove, zap.String("key", key), zap.Error(err))
	}
}

// QuotaProbe записывает и сразу удаляет значение размером около 1 МиБ.
// Возвращает, поместилось ли оно; проба не оставляет следов в хранилище.
func (a *Adapter) QuotaProbe(ctx context.Context) bool {
	probe := strings.Repeat("x", QuotaProbeSize)

	ok := a.setRaw(ctx, QuotaProbeKey, probe)
	a.Remove(ctx, QuotaProbeKey)
	if !ok {
		logger.Log(ctx).Warn(ctx, LogQuotaProbeFailed)
	}
	return ok
}

// Available проверяет, что хранилище принимает запись.
func (a *Adapter) Available(ctx context.Context) bool {
	ok := a.setRaw(ctx, availabilityProbeKey, availabilityProbeValue)
	a.Remove(ctx, availabilityProbeKey)
	if !ok {
		logger.Log(ctx).Warn(ctx, LogStorageUnavailable)
	}
	return ok
}

// Close закрывает хранилище.
func (a *Adapter) Close(ctx context.Context) error {
	if err := a.store.Close(); err != nil {
		logger.Log(ctx).Error(ctx, LogFailedToCloseStore, zap.Error(err))
		return err
	}
	return nil
}
