// Package repositories defines repository interfaces for the notes client.
package repositories

import (
	"context"

	"notekeeper/internal/notes/domain/entities"
)

// NotesRepository - единый CRUD-контракт над коллекцией заметок,
// не зависящий от места хранения.
type NotesRepository interface {
	FetchNotes(ctx context.Context) ([]entities.Note, error)
	CreateNote(ctx context.Context, title, content string) (entities.Note, error)
	UpdateNote(ctx context.Context, noteID, title, content string) (entities.Note, error)
	DeleteNote(ctx context.Context, noteID string) error
}

// GuestNotesRepository - локальная коллекция гостевых заметок.
// ClearAllNotes идемпотентна и не возвращает ошибок: очистка выполняется по возможности.
type GuestNotesRepository interface {
	NotesRepository
	HasNotes(ctx context.Context) (bool, error)
	ClearAllNotes(ctx context.Context)
}

// MigrationLedger запоминает гостевые заметки, уже созданные в аккаунте,
// чтобы повторная миграция в тот же аккаунт не создавала дубликаты.
type MigrationLedger interface {
	IsMigrated(ctx context.Context, accountID, noteID string) bool
	MarkMigrated(ctx context.Context, accountID, noteID string) error
}
