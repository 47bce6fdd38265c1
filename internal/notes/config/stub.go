package config

import (
	"fmt"
	"time"
)

// StubConfig настраивает dev-заглушку API заметок.
type StubConfig struct {
	Host       string        `yaml:"host" env:"NOTES_STUB_HOST" env-default:"127.0.0.1"`
	Port       int           `yaml:"port" env:"NOTES_STUB_PORT" env-default:"8080"`
	SigningKey string        `yaml:"signing_key" env:"NOTES_STUB_SIGNING_KEY" env-default:"dev-signing-key"`
	TokenTTL   time.Duration `yaml:"token_ttl" env:"NOTES_STUB_TOKEN_TTL" env-default:"1h"`
}

// GetAddress возвращает адрес для прослушивания.
func (c *StubConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
