package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notekeeper/internal/stubapi/http/middleware"
	"notekeeper/internal/stubapi/store"
	"notekeeper/pkg/logger"
)

// ParamNoteID - имя параметра маршрута с идентификатором заметки.
const ParamNoteID = "noteId"

// Константы для логирования.
const (
	LogHandlerListNotes  = "notes handler: list notes"
	LogHandlerGetNote    = "notes handler: get note"
	LogHandlerCreateNote = "notes handler: create note"
	LogHandlerUpdateNote = "notes handler: update note"
	LogHandlerDeleteNote = "notes handler: delete note"

	ErrorInvalidRequest = "invalid request"
	ErrorNoteNotFound   = "note not found"
)

// NotesHandler обслуживает ресурс /notes.
type NotesHandler struct {
	store *store.Store
}

// NewNotesHandler создает обработчик заметок.
func NewNotesHandler(s *store.Store) *NotesHandler {
	return &NotesHandler{store: s}
}

// List возвращает заметки пользователя в конверте {notes}.
func (h *NotesHandler) List(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	userID := middleware.UserID(ctx)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerListNotes, zap.String("user_id", userID))

	return sendJSON(ctx, fiber.StatusOK, NotesResponse{Notes: h.store.List(userID)})
}

// Get возвращает одну заметку.
func (h *NotesHandler) Get(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	userID := middleware.UserID(ctx)
	noteID := ctx.Params(ParamNoteID)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerGetNote,
		zap.String("user_id", userID), zap.String("note_id", noteID))

	note, err := h.store.Get(userID, noteID)
	if err != nil {
		return notFoundOr(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, note)
}

// Create создает заметку и отвечает 201.
func (h *NotesHandler) Create(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("user_id", middleware.UserID(ctx)))
	log.Debug(requestCtx, LogHandlerCreateNote)

	var req NoteRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Warn(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return sendError(ctx, fiber.StatusBadRequest, ErrorInvalidRequest)
	}

	note := h.store.Create(middleware.UserID(ctx), req.Title, req.Content)
	return sendJSON(ctx, fiber.StatusCreated, note)
}

// Update заменяет заголовок и содержимое заметки.
func (h *NotesHandler) Update(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	noteID := ctx.Params(ParamNoteID)
	log := logger.Log(requestCtx).With(
		zap.String("user_id", middleware.UserID(ctx)), zap.String("note_id", noteID))
	log.Debug(requestCtx, LogHandlerUpdateNote)

	var req NoteRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Warn(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return sendError(ctx, fiber.StatusBadRequest, ErrorInvalidRequest)
	}

	note, err := h.store.Update(middleware.UserID(ctx), noteID, req.Title, req.Content)
	if err != nil {
		return notFoundOr(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, note)
}

// Delete удаляет заметку и отвечает 204.
func (h *NotesHandler) Delete(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	noteID := ctx.Params(ParamNoteID)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerDeleteNote,
		zap.String("user_id", middleware.UserID(ctx)), zap.String("note_id", noteID))

	if err := h.store.Delete(middleware.UserID(ctx), noteID); err != nil {
		return notFoundOr(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func notFoundOr(ctx fiber.Ctx, err error) error {
	if errors.Is(err, store.ErrNoteNotFound) {
		return sendError(ctx, fiber.StatusNotFound, ErrorNoteNotFound)
	}
	return fmt.Errorf("notes store: %w", err)
}

func sendError(ctx fiber.Ctx, status int, msg string) error {
	return sendJSON(ctx, status, fiber.Map{"error": msg})
}

func sendJSON(ctx fiber.Ctx, status int, body any) error {
	if err := ctx.Status(status).JSON(body); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}
