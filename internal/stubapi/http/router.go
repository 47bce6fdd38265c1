// Package http собирает HTTP сервер dev-заглушки API заметок.
package http

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"notekeeper/internal/stubapi/http/handlers"
	"notekeeper/internal/stubapi/http/middleware"
	"notekeeper/internal/stubapi/store"
)

// ErrorRouteNotFound - ответ для несуществующих маршрутов.
const ErrorRouteNotFound = "route not found"

// RouterConfig - параметры маршрутизации.
type RouterConfig struct {
	SigningKey []byte
	TokenTTL   time.Duration
	// Now подменяется в тестах.
	Now func() time.Time
}

// SetupRouter настраивает маршруты заглушки.
func SetupRouter(app *fiber.App, notesStore *store.Store, cfg RouterConfig) {
	notesHandler := handlers.NewNotesHandler(notesStore)
	tokenHandler := handlers.NewTokenHandler(cfg.SigningKey, cfg.TokenTTL, cfg.Now)

	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	// Выпуск dev токенов (публичный).
	app.Post("/auth/token", tokenHandler.Issue)

	notes := app.Group("/notes")
	notes.Use(middleware.NewAuthMiddleware(cfg.SigningKey, cfg.Now))
	notes.Get("/", notesHandler.List)
	notes.Post("/", notesHandler.Create)
	notes.Get("/:"+handlers.ParamNoteID, notesHandler.Get)
	notes.Put("/:"+handlers.ParamNoteID, notesHandler.Update)
	notes.Delete("/:"+handlers.ParamNoteID, notesHandler.Delete)

	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": ErrorRouteNotFound,
		})
	})
}
