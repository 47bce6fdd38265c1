// Package storage defines the local persistent key-value capability.
package storage

import (
	"context"
	"errors"
)

// Ошибки хранилища ключ-значение.
var (
	ErrKeyNotFound   = errors.New("key not found")
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// KeyValueStore - локальное постоянное хранилище строковых значений.
// Set возвращает ErrQuotaExceeded, если значение не помещается в квоту.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}
