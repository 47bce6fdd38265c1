// Package auth хранит сессию пользователя: ID-токен (JWT) в локальном хранилище.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"notekeeper/internal/notes/domain/entities"
)

// Ошибки разбора токена.
var (
	ErrInvalidToken     = errors.New("invalid identity token")
	ErrInvalidAlgorithm = errors.New("invalid signing algorithm")
	ErrEmptySigningKey  = errors.New("empty signing key")
)

// Claims - содержимое ID-токена.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken подписывает ID-токен HS256. Используется dev-заглушкой API и тестами.
func IssueToken(signingKey []byte, userID, email string, now time.Time, ttl time.Duration) (string, error) {
	if len(signingKey) == 0 {
		return "", ErrEmptySigningKey
	}

	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}
	return signed, nil
}

// ParseToken разбирает ID-токен. Если signingKey пуст, подпись не проверяется,
// но срок действия проверяется всегда.
func ParseToken(tokenString string, signingKey []byte, now time.Time) (*Claims, error) {
	claims := &Claims{}
	clock := jwt.WithTimeFunc(func() time.Time { return now })
	parser := jwt.NewParser(clock)

	var err error
	if len(signingKey) == 0 {
		_, _, err = parser.ParseUnverified(tokenString, claims)
		if err == nil {
			err = jwt.NewValidator(clock).Validate(claims)
		}
	} else {
		_, err = parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("%w: %v", ErrInvalidAlgorithm, token.Header["alg"])
			}
			return signingKey, nil
		})
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}

// Identity преобразует claims в доменную модель.
func (c *Claims) Identity() *entities.Identity {
	identity := &entities.Identity{
		UserID: c.Subject,
		Email:  c.Email,
	}
	if c.ExpiresAt != nil {
		identity.ExpiresAt = c.ExpiresAt.Time
	}
	return identity
}
