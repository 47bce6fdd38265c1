// Package remote реализует хранилище заметок аккаунта поверх API заметок.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"notekeeper/internal/notes/adapters/httpclient"
	"notekeeper/internal/notes/domain/entities"
	"notekeeper/pkg/logger"
)

// NotesPath - базовый путь ресурса заметок.
const NotesPath = "/notes"

// Константы для логирования.
const (
	LogUnexpectedStatus = "notes api returned unexpected status"
	LogDecodeFailed     = "failed to decode notes api response"
)

// Doer - подмножество httpclient.Client, которым пользуется репозиторий.
type Doer interface {
	Do(ctx context.Context, path string, opts httpclient.RequestOptions) (*http.Response, error)
}

type noteInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type notesEnvelope struct {
	Notes []entities.Note `json:"notes"`
}

// Repository - заметки аккаунта. Ответ API возвращается без дополнительных проверок.
type Repository struct {
	client Doer
}

// NewRepository создает репозиторий аккаунта.
func NewRepository(client Doer) *Repository {
	return &Repository{client: client}
}

func notePath(noteID string) string {
	return NotesPath + "/" + url.PathEscape(noteID)
}

// FetchNotes возвращает заметки аккаунта.
func (r *Repository) FetchNotes(ctx context.Context) ([]entities.Note, error) {
	var envelope notesEnvelope
	if err := r.call(ctx, NotesPath, httpclient.RequestOptions{Method: http.MethodGet}, &envelope); err != nil {
		return nil, fmt.Errorf("fetch notes: %w", err)
	}
	if envelope.Notes == nil {
		return []entities.Note{}, nil
	}
	return envelope.Notes, nil
}

// CreateNote создает заметку в аккаунте.
func (r *Repository) CreateNote(ctx context.Context, title, content string) (entities.Note, error) {
	var note entities.Note
	opts := httpclient.RequestOptions{Method: http.MethodPost, Body: noteInput{Title: title, Content: content}}
	if err := r.call(ctx, NotesPath, opts, &note); err != nil {
		return entities.Note{}, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

// UpdateNote обновляет заметку в аккаунте.
func (r *Repository) UpdateNote(ctx context.Context, noteID, title, content string) (entities.Note, error) {
	var note entities.Note
	opts := httpclient.RequestOptions{Method: http.MethodPut, Body: noteInput{Title: title, Content: content}}
	if err := r.call(ctx, notePath(noteID), opts, &note); err != nil {
		return entities.Note{}, fmt.Errorf("update note %s: %w", noteID, err)
	}
	return note, nil
}

// DeleteNote удаляет заметку из аккаунта.
func (r *Repository) DeleteNote(ctx context.Context, noteID string) error {
	if err := r.call(ctx, notePath(noteID), httpclient.RequestOptions{Method: http.MethodDelete}, nil); err != nil {
		return fmt.Errorf("delete note %s: %w", noteID, err)
	}
	return nil
}

// call выполняет запрос и декодирует тело успешного ответа в dst (если dst не nil).
func (r *Repository) call(ctx context.Context, path string, opts httpclient.RequestOptions, dst any) error {
	resp, err := r.client.Do(ctx, path, opts)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		logger.Log(ctx).Warn(ctx, LogUnexpectedStatus,
			zap.String("method", opts.Method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: status %d", entities.ErrRemoteRequestFailed, resp.StatusCode)
	}

	if dst == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		logger.Log(ctx).Warn(ctx, LogDecodeFailed, zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: decode response: %w", entities.ErrRemoteRequestFailed, err)
	}
	return nil
}
