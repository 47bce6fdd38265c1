package config

// Поддерживаемые бэкенды локального хранилища.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// StorageConfig выбирает бэкенд локального хранилища ключ-значение.
type StorageConfig struct {
	Backend string `yaml:"backend" env:"NOTES_STORAGE_BACKEND" env-default:"sqlite"`
	// QuotaBytes - ограничение на суммарный размер ключей и значений; 0 - без ограничений.
	QuotaBytes int64 `yaml:"quota_bytes" env:"NOTES_STORAGE_QUOTA_BYTES" env-default:"5242880"`
}

// SQLiteConfig содержит путь к файлу базы SQLite.
type SQLiteConfig struct {
	Path string `yaml:"path" env:"NOTES_SQLITE_PATH" env-default:"notes.db"`
}
