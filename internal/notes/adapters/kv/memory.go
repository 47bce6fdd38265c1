// Package kv содержит реализации локального хранилища ключ-значение.
package kv

import (
	"context"
	"sync"

	"notekeeper/internal/notes/ports/storage"
)

// MemoryStore хранит значения в памяти процесса.
// Квота учитывает суммарную длину ключей и значений в байтах; 0 - без ограничений.
type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string]string
	used  int64
	quota int64
	opts  options
}

// NewMemoryStore создает хранилище в памяти.
func NewMemoryStore(quotaBytes int64, opts ...Option) *MemoryStore {
	return &MemoryStore{
		data:  make(map[string]string),
		quota: quotaBytes,
		opts:  newOptions(opts),
	}
}

// Get возвращает значение по ключу.
func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return "", storage.ErrKeyNotFound
	}
	return value, nil
}

// Set сохраняет значение, если оно помещается в квоту.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	used := s.used + s.size(key, value)
	if old, ok := s.data[key]; ok {
		used -= s.size(key, old)
	}
	if s.opts.metered(key) && exceedsQuota(s.quota, used) {
		return storage.ErrQuotaExceeded
	}

	s.data[key] = value
	s.used = used
	return nil
}

// Remove удаляет ключ. Отсутствующий ключ не является ошибкой.
func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.data[key]; ok {
		s.used -= s.size(key, old)
		delete(s.data, key)
	}
	return nil
}

// Close implements storage.KeyValueStore.
func (s *MemoryStore) Close() error {
	return nil
}

// size - вклад записи в квоту.
func (s *MemoryStore) size(key, value string) int64 {
	if !s.opts.metered(key) {
		return 0
	}
	return entrySize(key, value)
}

func entrySize(key, value string) int64 {
	return int64(len(key) + len(value))
}

func exceedsQuota(quota, used int64) bool {
	return quota > 0 && used > quota
}
