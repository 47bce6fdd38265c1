package config

import "time"

// APIConfig описывает удаленный API заметок.
type APIConfig struct {
	BaseURL        string               `yaml:"base_url" env:"NOTES_API_BASE_URL" env-default:"http://localhost:8080"`
	Timeout        time.Duration        `yaml:"timeout" env:"NOTES_API_TIMEOUT" env-default:"30s"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
}

// CircuitBreakerConfig настраивает предохранитель HTTP-клиента.
type CircuitBreakerConfig struct {
	Enabled          bool          `yaml:"enabled" env:"NOTES_API_CB_ENABLED" env-default:"false"`
	ErrorThreshold   int           `yaml:"error_threshold" env:"NOTES_API_CB_ERROR_THRESHOLD" env-default:"5"`
	SuccessThreshold int           `yaml:"success_threshold" env:"NOTES_API_CB_SUCCESS_THRESHOLD" env-default:"2"`
	Timeout          time.Duration `yaml:"timeout" env:"NOTES_API_CB_TIMEOUT" env-default:"10s"`
}
