package kv

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"notekeeper/internal/notes/ports/storage"
	"notekeeper/pkg/logger"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// Занятое место без ключа key и ключей из JSON-массива исключений.
const sqliteUsageOther = `SELECT COALESCE(SUM(LENGTH(CAST(key AS BLOB)) + LENGTH(CAST(value AS BLOB))), 0)
	FROM kv WHERE key <> ? AND key NOT IN (SELECT value FROM json_each(?))`

// ErrorFailedToOpenSQLite - сообщение об ошибке открытия файла базы.
const ErrorFailedToOpenSQLite = "failed to open sqlite store"

// SQLiteStore хранит значения в файле SQLite.
type SQLiteStore struct {
	db     *sql.DB
	quota  int64
	opts   options
	exempt string
}

// NewSQLiteStore открывает (и при необходимости создает) файл базы и таблицу kv.
func NewSQLiteStore(ctx context.Context, path string, quotaBytes int64, opts ...Option) (*SQLiteStore, error) {
	o := newOptions(opts)
	exempt, err := json.Marshal(o.exempt)
	if err != nil {
		return nil, fmt.Errorf("%s: encode exempt keys: %w", ErrorFailedToOpenSQLite, err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrorFailedToOpenSQLite, err)
	}
	// Один писатель: read-modify-write всей коллекции.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: init schema: %w", ErrorFailedToOpenSQLite, err)
	}

	return &SQLiteStore{db: db, quota: quotaBytes, opts: o, exempt: string(exempt)}, nil
}

// Get возвращает значение по ключу.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", storage.ErrKeyNotFound
		}
		logger.Log(ctx).Error(ctx, ErrorFailedToGet,
			zap.String("method", LogMethodGet), zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("%s: %w", ErrorFailedToGet, err)
	}
	return value, nil
}

// Set сохраняет значение в одной транзакции с проверкой квоты.
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSet), zap.String("key", key))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", ErrorFailedToSet, err)
	}
	defer func() { _ = tx.Rollback() }()

	if s.quota > 0 && s.opts.metered(key) {
		var others int64
		err := tx.QueryRowContext(ctx, sqliteUsageOther, key, s.exempt).Scan(&others)
		if err != nil {
			return fmt.Errorf("%s: measure usage: %w", ErrorFailedToSet, err)
		}
		if exceedsQuota(s.quota, others+entrySize(key, value)) {
			return storage.ErrQuotaExceeded
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		if isSQLiteFull(err) {
			return storage.ErrQuotaExceeded
		}
		log.Error(ctx, ErrorFailedToSet, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSet, err)
	}

	if err := tx.Commit(); err != nil {
		if isSQLiteFull(err) {
			return storage.ErrQuotaExceeded
		}
		return fmt.Errorf("%s: commit: %w", ErrorFailedToSet, err)
	}
	return nil
}

// Remove удаляет ключ.
func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		logger.Log(ctx).Error(ctx, ErrorFailedToRemove,
			zap.String("method", LogMethodRemove), zap.String("key", key), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToRemove, err)
	}
	return nil
}

// Close закрывает базу.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func isSQLiteFull(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrFull
}
