package config

// AuthConfig настраивает хранение сессии.
// Если SigningKey пуст, подпись ID-токена не проверяется (ее проверяет API).
type AuthConfig struct {
	SigningKey string `yaml:"signing_key" env:"NOTES_AUTH_SIGNING_KEY" env-default:""`
}
