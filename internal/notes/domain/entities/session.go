package entities

import "time"

// AuthMode - состояние сессии процесса.
type AuthMode string

// Возможные значения AuthMode.
const (
	AuthModeGuest         AuthMode = "guest"
	AuthModeAuthenticated AuthMode = "authenticated"
	AuthModeMigrating     AuthMode = "migrating"
)

// String implements fmt.Stringer.
func (m AuthMode) String() string {
	return string(m)
}

// Identity описывает текущего аутентифицированного пользователя.
type Identity struct {
	UserID    string    `json:"userId" yaml:"userId"`
	Email     string    `json:"email,omitempty" yaml:"email,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitempty" yaml:"expiresAt,omitempty"`
}
