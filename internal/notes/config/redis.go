package config

import (
	"strconv"
	"time"
)

// RedisConfig представляет конфигурацию для Redis.
type RedisConfig struct {
	Host      string        `yaml:"host" env:"NOTES_REDIS_HOST" env-default:"localhost"`
	Port      int           `yaml:"port" env:"NOTES_REDIS_PORT" env-default:"6379"`
	Password  string        `yaml:"password" env:"NOTES_REDIS_PASSWORD" env-default:""`
	DB        int           `yaml:"db" env:"NOTES_REDIS_DB" env-default:"0"`
	PoolSize  int           `yaml:"pool_size" env:"NOTES_REDIS_POOL_SIZE" env-default:"10"`
	Timeout   time.Duration `yaml:"timeout" env:"NOTES_REDIS_TIMEOUT" env-default:"5s"`
	KeyPrefix string        `yaml:"key_prefix" env:"NOTES_REDIS_KEY_PREFIX" env-default:"notes:"`
}

// GetAddressString возвращает адрес Redis строкой.
func (c *RedisConfig) GetAddressString() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
