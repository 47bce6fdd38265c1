package config

import "time"

// MigrationConfig задает политику повторов при переносе гостевых заметок.
type MigrationConfig struct {
	MaxAttempts int           `yaml:"max_attempts" env:"NOTES_MIGRATION_MAX_ATTEMPTS" env-default:"3"`
	BackoffStep time.Duration `yaml:"backoff_step" env:"NOTES_MIGRATION_BACKOFF_STEP" env-default:"1s"`
}
