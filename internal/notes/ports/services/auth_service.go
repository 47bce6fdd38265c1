// Package services defines external service interfaces used by the notes client.
package services

import (
	"context"

	"notekeeper/internal/notes/domain/entities"
)

// AuthProvider - внешняя возможность аутентификации.
// CurrentIdentity возвращает entities.ErrNoSession, если пользователь не вошел.
type AuthProvider interface {
	CurrentIdentity(ctx context.Context) (*entities.Identity, error)
	SignOut(ctx context.Context) error
	SessionToken(ctx context.Context) (string, error)
}
