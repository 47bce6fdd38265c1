package handlers

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notekeeper/internal/notes/adapters/auth"
	"notekeeper/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerIssueToken = "token handler: issue token" // #nosec G101 - not a credential

	ErrorUserIDRequired = "userId is required"
	ErrorIssueToken     = "failed to issue token"
)

// TokenHandler выпускает dev ID токены вместо внешнего провайдера идентификации.
type TokenHandler struct {
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

// NewTokenHandler создает обработчик выпуска токенов.
func NewTokenHandler(signingKey []byte, ttl time.Duration, now func() time.Time) *TokenHandler {
	if now == nil {
		now = time.Now
	}
	return &TokenHandler{signingKey: signingKey, ttl: ttl, now: now}
}

// Issue подписывает HS256 ID токен для переданного пользователя.
func (h *TokenHandler) Issue(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)

	var req TokenRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Warn(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return sendError(ctx, fiber.StatusBadRequest, ErrorInvalidRequest)
	}
	if req.UserID == "" {
		return sendError(ctx, fiber.StatusBadRequest, ErrorUserIDRequired)
	}

	log.Info(requestCtx, LogHandlerIssueToken, zap.String("user_id", req.UserID))

	token, err := auth.IssueToken(h.signingKey, req.UserID, req.Email, h.now(), h.ttl)
	if err != nil {
		log.Error(requestCtx, ErrorIssueToken, zap.Error(err))
		return sendError(ctx, fiber.StatusInternalServerError, ErrorIssueToken)
	}

	return sendJSON(ctx, fiber.StatusOK, TokenResponse{
		IDToken:   token,
		ExpiresIn: int64(h.ttl / time.Second),
	})
}
