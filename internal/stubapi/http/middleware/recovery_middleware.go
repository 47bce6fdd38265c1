package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notekeeper/pkg/logger"
)

// Константы для логирования.
const (
	LogServerPanic       = "server panic"
	LogPanicResponseFail = "failed to send error response after panic"

	ErrorInternal = "internal server error"
)

// NewRecoveryMiddleware перехватывает панику обработчика и отвечает 500.
func NewRecoveryMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := ctx.Context()
		log := logger.Log(requestCtx)

		defer func() {
			if r := recover(); r != nil {
				log.Error(requestCtx, LogServerPanic,
					zap.String("error", fmt.Sprintf("%v", r)),
					zap.String("stack", string(debug.Stack())),
				)

				if err := ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": ErrorInternal,
				}); err != nil {
					log.Error(requestCtx, LogPanicResponseFail, zap.Error(err))
				}
			}
		}()

		return ctx.Next()
	}
}
