package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notekeeper/internal/notes/adapters/auth"
	"notekeeper/pkg/logger"
)

// LocalUserID - ключ Locals с идентификатором пользователя из токена.
const LocalUserID = "userId"

// Константы для логирования.
const (
	LogAuthMiddleware = "auth middleware"

	ErrorNoAuthHeader       = "no authorization header provided"
	ErrorInvalidTokenFormat = "invalid token format"
	ErrorInvalidToken       = "invalid or expired token"
)

const bearerPrefix = "Bearer "

// NewAuthMiddleware проверяет Bearer ID токен (HS256) и кладет userId в Locals.
func NewAuthMiddleware(signingKey []byte, now func() time.Time) fiber.Handler {
	if now == nil {
		now = time.Now
	}

	return func(ctx fiber.Ctx) error {
		requestCtx := ctx.Context()
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
		log.Debug(requestCtx, LogAuthMiddleware)

		authHeader := ctx.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			log.Debug(requestCtx, ErrorNoAuthHeader)
			return unauthorized(ctx, ErrorNoAuthHeader)
		}

		if !strings.HasPrefix(authHeader, bearerPrefix) {
			log.Debug(requestCtx, ErrorInvalidTokenFormat)
			return unauthorized(ctx, ErrorInvalidTokenFormat)
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(authHeader, bearerPrefix), signingKey, now())
		if err != nil {
			log.Debug(requestCtx, ErrorInvalidToken, zap.Error(err))
			return unauthorized(ctx, ErrorInvalidToken)
		}

		ctx.Locals(LocalUserID, claims.Subject)
		return ctx.Next()
	}
}

// UserID возвращает пользователя, установленного NewAuthMiddleware.
func UserID(ctx fiber.Ctx) string {
	userID, _ := ctx.Locals(LocalUserID).(string)
	return userID
}

func unauthorized(ctx fiber.Ctx, msg string) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
}
