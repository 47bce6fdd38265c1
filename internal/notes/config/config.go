// Package config содержит конфигурацию клиента заметок.
package config

import (
	"context"
	"os"

	"go.uber.org/zap"

	pkgconfig "notekeeper/pkg/config"
	"notekeeper/pkg/logger"
)

// ServiceName используется в логах загрузки конфигурации.
const ServiceName = "notes"

// EnvConfigPath - переменная окружения с путем к YAML-файлу конфигурации.
const EnvConfigPath = "NOTES_CONFIG_PATH"

// DefaultConfigPath - путь к файлу конфигурации по умолчанию.
const DefaultConfigPath = "notes.yaml"

const (
	LogConfigLoaded = "notes configuration loaded"
)

// Config представляет полную конфигурацию клиента заметок и dev-заглушки API.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	SQLite    SQLiteConfig    `yaml:"sqlite"`
	Redis     RedisConfig     `yaml:"redis"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	API       APIConfig       `yaml:"api"`
	Auth      AuthConfig      `yaml:"auth"`
	Migration MigrationConfig `yaml:"migration"`
	Logging   LoggingConfig   `yaml:"logging"`
	Shutdown  ShutdownConfig  `yaml:"shutdown"`
	Stub      StubConfig      `yaml:"stub"`
}

// Load загружает конфигурацию из файла (NOTES_CONFIG_PATH или notes.yaml) и окружения.
func Load(ctx context.Context) (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		path = DefaultConfigPath
	}
	return LoadFile(ctx, path)
}

// LoadFile загружает конфигурацию из указанного файла; отсутствующий файл не ошибка.
func LoadFile(ctx context.Context, path string) (*Config, error) {
	cfg, err := pkgconfig.Load[Config](ctx, ServiceName, path)
	if err != nil {
		return nil, err
	}

	logger.Log(ctx).Debug(ctx, LogConfigLoaded,
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.String("api_base_url", cfg.API.BaseURL),
		zap.Duration("api_timeout", cfg.API.Timeout),
		zap.Int("migration_max_attempts", cfg.Migration.MaxAttempts),
		zap.Duration("migration_backoff_step", cfg.Migration.BackoffStep),
		zap.String("log_level", cfg.Logging.Level))

	return cfg, nil
}
